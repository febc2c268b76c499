// internal/dispatch/whatsapp.go
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
	"github.com/AWD-Projects/xianna-campaign-service/internal/render"
	"github.com/AWD-Projects/xianna-campaign-service/internal/template"
)

// WhatsAppDispatcher generates click-to-chat deep links. No network call is
// made; the links are user-triggered, so success means link construction
// succeeded and there is no provider-side quota.
type WhatsAppDispatcher struct {
	domain string
	log    zerolog.Logger
}

func NewWhatsAppDispatcher(domain string, log zerolog.Logger) *WhatsAppDispatcher {
	if domain == "" {
		domain = "wa.me"
	}
	return &WhatsAppDispatcher{
		domain: domain,
		log:    log.With().Str("component", "whatsapp_dispatcher").Logger(),
	}
}

func (d *WhatsAppDispatcher) Dispatch(ctx context.Context, campaign *model.Campaign, recipients []model.Recipient) []model.DispatchOutcome {
	outcomes := make([]model.DispatchOutcome, len(recipients))
	intermediate := template.Resolved{Subject: campaign.ResolvedSubject, Body: campaign.ResolvedBody}

	for i := range recipients {
		outcomes[i] = d.buildLink(campaign, intermediate, &recipients[i])
	}
	return outcomes
}

func (d *WhatsAppDispatcher) buildLink(campaign *model.Campaign, intermediate template.Resolved, recipient *model.Recipient) model.DispatchOutcome {
	if recipient.Phone == "" {
		return model.DispatchOutcome{
			RecipientID: recipient.ID,
			Status:      model.OutcomeSkippedNoContact,
			ErrorDetail: "recipient has no phone number",
		}
	}

	digits := normalizePhone(recipient.Phone)
	if digits == "" {
		return model.DispatchOutcome{
			RecipientID: recipient.ID,
			Status:      model.OutcomeFailed,
			ErrorDetail: fmt.Sprintf("phone number %q contains no digits", recipient.Phone),
		}
	}

	resolved := template.ResolvePerRecipient(intermediate, recipient)

	// WhatsApp bolding convention: *subject*, blank line, plain body.
	message := "*" + render.HTMLToPlainText(resolved.Subject) + "*\n\n" + render.HTMLToPlainText(resolved.Body)
	link := fmt.Sprintf("https://%s/%s?text=%s", d.domain, digits, url.QueryEscape(message))

	return model.DispatchOutcome{
		RecipientID:    recipient.ID,
		Status:         model.OutcomeDispatched,
		ChannelPayload: link,
	}
}

// normalizePhone strips everything that is not a digit.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var _ Dispatcher = (*WhatsAppDispatcher)(nil)
