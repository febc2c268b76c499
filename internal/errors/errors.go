// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Input errors are rejected before any dispatch attempt; nothing is sent.
var (
	ErrNoRecipients  = errors.New("recipient list is empty")
	ErrEmptyTemplate = errors.New("template body is empty")
)

// ErrQuotaExceeded is returned when the proposed batch would exceed the
// global email send ceiling.
type ErrQuotaExceeded struct {
	Requested int
	Remaining int
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("quota exceeded: requested %d, %d remaining", e.Requested, e.Remaining)
}

func NewQuotaExceeded(requested, remaining int) error {
	return &ErrQuotaExceeded{Requested: requested, Remaining: remaining}
}

// ErrCampaignNotFound is returned when no outcomes exist for a campaign ID.
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign %s not found", e.CampaignID)
}

func NewCampaignNotFound(campaignID string) error {
	return &ErrCampaignNotFound{CampaignID: campaignID}
}

// ErrUnknownChannel is returned for a channel no dispatcher is registered for.
type ErrUnknownChannel struct {
	Channel string
}

func (e *ErrUnknownChannel) Error() string {
	return fmt.Sprintf("unknown channel %q", e.Channel)
}

func NewUnknownChannel(channel string) error {
	return &ErrUnknownChannel{Channel: channel}
}

// ErrChannelNotApplicable is returned when a template is not declared for
// the requested channel.
type ErrChannelNotApplicable struct {
	TemplateID string
	Channel    string
}

func (e *ErrChannelNotApplicable) Error() string {
	return fmt.Sprintf("template %s is not applicable to channel %q", e.TemplateID, e.Channel)
}

func NewChannelNotApplicable(templateID, channel string) error {
	return &ErrChannelNotApplicable{TemplateID: templateID, Channel: channel}
}

// ErrUnknownPlaceholder is returned when a template references a token
// outside the declared placeholder registry.
type ErrUnknownPlaceholder struct {
	Token string
}

func (e *ErrUnknownPlaceholder) Error() string {
	return fmt.Sprintf("unknown placeholder {%s}", e.Token)
}

func NewUnknownPlaceholder(token string) error {
	return &ErrUnknownPlaceholder{Token: token}
}

// ErrContentTokenInSubject is returned when a subject line references a
// content-block placeholder; content blocks render in bodies only.
type ErrContentTokenInSubject struct {
	Token string
}

func (e *ErrContentTokenInSubject) Error() string {
	return fmt.Sprintf("content-block placeholder {%s} is not allowed in a subject", e.Token)
}

func NewContentTokenInSubject(token string) error {
	return &ErrContentTokenInSubject{Token: token}
}
