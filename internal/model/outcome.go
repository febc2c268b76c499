// internal/model/outcome.go
package model

// OutcomeStatus classifies one recipient's dispatch attempt.
type OutcomeStatus string

const (
	OutcomeDispatched       OutcomeStatus = "dispatched"
	OutcomeSkippedNoContact OutcomeStatus = "skipped_no_contact"
	OutcomeFailed           OutcomeStatus = "failed"
)

// DispatchOutcome is produced exactly once per recipient, even when the
// attempt errors. ChannelPayload carries the provider message id for email
// or the generated deep link for whatsapp.
type DispatchOutcome struct {
	RecipientID    string        `db:"recipient_id" json:"recipient_id"`
	Status         OutcomeStatus `db:"status" json:"status"`
	ChannelPayload string        `db:"channel_payload" json:"channel_payload,omitempty"`
	ErrorDetail    string        `db:"error_detail" json:"error_detail,omitempty"`
}

// CampaignReport aggregates the outcomes of one campaign. The raw outcome
// list is kept so callers can surface every generated link and every failure
// reason.
type CampaignReport struct {
	CampaignID string            `json:"campaign_id"`
	Dispatched int               `json:"dispatched"`
	Skipped    int               `json:"skipped_no_contact"`
	Failed     int               `json:"failed"`
	Outcomes   []DispatchOutcome `json:"outcomes"`
}
