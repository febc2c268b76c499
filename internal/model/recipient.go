// internal/model/recipient.go
package model

// Recipient carries the contact fields plus the scalar profile fields that
// templates may reference. Missing contact fields are not errors; they become
// skipped_no_contact outcomes at dispatch time.
type Recipient struct {
	ID          string `db:"id" json:"id"`
	DisplayName string `db:"display_name" json:"display_name"`
	Email       string `db:"email" json:"email,omitempty"`
	Phone       string `db:"phone" json:"phone,omitempty"`

	Style      string `db:"style" json:"style,omitempty"`
	BodyType   string `db:"body_type" json:"body_type,omitempty"`
	Region     string `db:"region" json:"region,omitempty"`
	Gender     string `db:"gender" json:"gender,omitempty"`
	Age        string `db:"age" json:"age,omitempty"`
	Occupation string `db:"occupation" json:"occupation,omitempty"`
}

// ScalarValues maps placeholder names to this recipient's field values.
// Empty values are kept; the template resolver substitutes its fallback
// labels for them.
func (r *Recipient) ScalarValues() map[string]string {
	return map[string]string{
		"name":       r.DisplayName,
		"style":      r.Style,
		"body_type":  r.BodyType,
		"region":     r.Region,
		"gender":     r.Gender,
		"age":        r.Age,
		"occupation": r.Occupation,
	}
}
