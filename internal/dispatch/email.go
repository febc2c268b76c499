// internal/dispatch/email.go
package dispatch

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
	"github.com/AWD-Projects/xianna-campaign-service/internal/render"
	"github.com/AWD-Projects/xianna-campaign-service/internal/template"
)

// EmailPayload is one transactional send. CampaignID and RecipientID ride
// along as correlation metadata so provider events can be tied back to an
// outcome row.
type EmailPayload struct {
	ToAddress     string
	ToName        string
	SenderName    string
	SenderAddress string
	Subject       string
	HTMLBody      string
	TextBody      string
	TrackOpens    bool
	TrackClicks   bool
	CampaignID    string
	RecipientID   string
}

// EmailProvider is the transactional email collaborator.
type EmailProvider interface {
	Send(ctx context.Context, payload EmailPayload) (messageID string, err error)
}

// EmailDispatcher fans a campaign out through the email provider with a
// bounded worker pool. One recipient's provider error never aborts the
// batch.
type EmailDispatcher struct {
	provider      EmailProvider
	senderName    string
	senderAddress string
	workers       int
	sendTimeout   time.Duration
	maxRetries    int
	log           zerolog.Logger
}

func NewEmailDispatcher(provider EmailProvider, senderName, senderAddress string, workers int, sendTimeout time.Duration, log zerolog.Logger) *EmailDispatcher {
	if workers < 1 {
		workers = 1
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &EmailDispatcher{
		provider:      provider,
		senderName:    senderName,
		senderAddress: senderAddress,
		workers:       workers,
		sendTimeout:   sendTimeout,
		maxRetries:    2,
		log:           log.With().Str("component", "email_dispatcher").Logger(),
	}
}

// Dispatch processes every recipient and returns one outcome each. Workers
// write to disjoint indices of the outcome slice, so no lock is needed on
// the results. If ctx is cancelled, in-flight sends run to completion (the
// provider call uses its own deadline) and recipients not yet attempted are
// marked failed with a cancellation reason.
func (d *EmailDispatcher) Dispatch(ctx context.Context, campaign *model.Campaign, recipients []model.Recipient) []model.DispatchOutcome {
	outcomes := make([]model.DispatchOutcome, len(recipients))
	intermediate := template.Resolved{Subject: campaign.ResolvedSubject, Body: campaign.ResolvedBody}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = d.process(ctx, campaign, intermediate, &recipients[i])
			}
		}()
	}

	for i := range recipients {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (d *EmailDispatcher) process(ctx context.Context, campaign *model.Campaign, intermediate template.Resolved, recipient *model.Recipient) model.DispatchOutcome {
	if recipient.Email == "" {
		return model.DispatchOutcome{
			RecipientID: recipient.ID,
			Status:      model.OutcomeSkippedNoContact,
			ErrorDetail: "recipient has no email address",
		}
	}

	if ctx.Err() != nil {
		return model.DispatchOutcome{
			RecipientID: recipient.ID,
			Status:      model.OutcomeFailed,
			ErrorDetail: "dispatch cancelled before attempt",
		}
	}

	resolved := template.ResolvePerRecipient(intermediate, recipient)
	payload := EmailPayload{
		ToAddress:     recipient.Email,
		ToName:        recipient.DisplayName,
		SenderName:    d.senderName,
		SenderAddress: d.senderAddress,
		Subject:       resolved.Subject,
		HTMLBody:      resolved.Body,
		TextBody:      render.HTMLToPlainText(resolved.Body),
		TrackOpens:    true,
		TrackClicks:   true,
		CampaignID:    campaign.ID,
		RecipientID:   recipient.ID,
	}

	messageID, err := d.sendWithRetry(ctx, payload)
	if err != nil {
		d.log.Warn().Err(err).
			Str("campaign_id", campaign.ID).
			Str("recipient_id", recipient.ID).
			Msg("email send failed")
		return model.DispatchOutcome{
			RecipientID: recipient.ID,
			Status:      model.OutcomeFailed,
			ErrorDetail: err.Error(),
		}
	}

	return model.DispatchOutcome{
		RecipientID:    recipient.ID,
		Status:         model.OutcomeDispatched,
		ChannelPayload: messageID,
	}
}

// sendWithRetry attempts the provider call up to maxRetries+1 times with
// jittered backoff, scoped to this one recipient. Each attempt carries its
// own deadline, detached from the caller's cancellation so an in-flight
// send is never abandoned in an indeterminate provider-side state.
func (d *EmailDispatcher) sendWithRetry(ctx context.Context, payload EmailPayload) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			if ctx.Err() != nil {
				break
			}
			backoff := time.Duration(attempt)*500*time.Millisecond +
				time.Duration(rand.Intn(250))*time.Millisecond
			time.Sleep(backoff)
		}

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
		messageID, err := d.provider.Send(sendCtx, payload)
		cancel()
		if err == nil {
			return messageID, nil
		}
		lastErr = err
	}
	return "", lastErr
}

var _ Dispatcher = (*EmailDispatcher)(nil)
