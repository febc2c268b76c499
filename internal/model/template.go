// internal/model/template.go
package model

// Template is a reusable message skeleton with {token} placeholders.
// Immutable once referenced by a sent campaign.
type Template struct {
	ID                 string    `db:"id" json:"id"`
	Subject            string    `db:"subject" json:"subject"`
	Body               string    `db:"body" json:"body"`
	ApplicableChannels []Channel `db:"-" json:"applicable_channels"`
}

// AppliesTo reports whether the template is declared for the given channel.
func (t *Template) AppliesTo(ch Channel) bool {
	for _, c := range t.ApplicableChannels {
		if c == ch {
			return true
		}
	}
	return false
}
