// internal/model/campaign.go
package model

import "time"

// Channel is the delivery mechanism for a campaign.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// CampaignStatus tracks a campaign through its dispatch lifecycle.
type CampaignStatus string

const (
	CampaignCreated     CampaignStatus = "created"
	CampaignResolving   CampaignStatus = "resolving"
	CampaignDispatching CampaignStatus = "dispatching"
	CampaignCompleted   CampaignStatus = "completed"
)

// Campaign is immutable once dispatch has run. QuotaConsumed is fixed at
// creation time to the number of recipients and never adjusted for
// per-recipient failures: quota is consumed by attempt, not by success.
type Campaign struct {
	ID              string         `db:"id" json:"id"`
	Channel         Channel        `db:"channel" json:"channel"`
	TemplateID      string         `db:"template_id" json:"template_id"`
	ResolvedSubject string         `db:"resolved_subject" json:"resolved_subject"`
	ResolvedBody    string         `db:"resolved_body" json:"resolved_body"`
	RecipientIDs    []string       `db:"-" json:"recipient_ids"`
	QuotaConsumed   int            `db:"quota_consumed" json:"quota_consumed"`
	Status          CampaignStatus `db:"status" json:"status"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}
