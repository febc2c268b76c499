// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AWD-Projects/xianna-campaign-service/internal/content"
	"github.com/AWD-Projects/xianna-campaign-service/internal/dispatch"
	appErrors "github.com/AWD-Projects/xianna-campaign-service/internal/errors"
	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
	"github.com/AWD-Projects/xianna-campaign-service/internal/queue"
	"github.com/AWD-Projects/xianna-campaign-service/internal/quota"
	"github.com/AWD-Projects/xianna-campaign-service/internal/render"
	"github.com/AWD-Projects/xianna-campaign-service/internal/repository"
	"github.com/AWD-Projects/xianna-campaign-service/internal/template"
)

// CampaignService is the single entry point for campaign composition and
// fan-out. Dispatch is synchronous: the call returns once every recipient
// has an outcome or the context is done.
type CampaignService struct {
	Store       repository.CampaignStoreInterface
	Resolver    *template.Resolver
	Quota       *quota.Guard
	Dispatchers map[model.Channel]dispatch.Dispatcher
	Publisher   queue.Publisher
	Log         zerolog.Logger
}

func renderModeFor(channel model.Channel) content.RenderMode {
	if channel == model.ChannelWhatsApp {
		return content.ModePlain
	}
	return content.ModeRich
}

// ComposeCampaign validates the request, enforces the email quota,
// resolves the template (campaign pass), fans out through the channel
// dispatcher and returns the aggregated report. Per-recipient failures
// never fail the call; input errors reject it before anything is sent.
//
// A non-nil report may be returned alongside a non-nil error when dispatch
// completed but persistence failed: the sends happened and must not be
// retried, so callers should keep the report.
func (s *CampaignService) ComposeCampaign(ctx context.Context, tmpl *model.Template, selection model.ContentSelection, recipients []model.Recipient, channel model.Channel) (*model.CampaignReport, error) {
	if len(recipients) == 0 {
		return nil, appErrors.ErrNoRecipients
	}
	dispatcher, ok := s.Dispatchers[channel]
	if !ok {
		return nil, appErrors.NewUnknownChannel(string(channel))
	}
	if !tmpl.AppliesTo(channel) {
		return nil, appErrors.NewChannelNotApplicable(tmpl.ID, string(channel))
	}
	// Quota applies to the email channel only: WhatsApp links are
	// user-triggered and consume nothing.
	quotaConsumed := 0
	if channel == model.ChannelEmail {
		decision, err := s.Quota.CanSend(ctx, len(recipients))
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, appErrors.NewQuotaExceeded(len(recipients), decision.Remaining)
		}
		quotaConsumed = len(recipients)
	}

	recipientIDs := make([]string, len(recipients))
	for i := range recipients {
		recipientIDs[i] = recipients[i].ID
	}

	campaign := &model.Campaign{
		ID:            uuid.NewString(),
		Channel:       channel,
		TemplateID:    tmpl.ID,
		RecipientIDs:  recipientIDs,
		QuotaConsumed: quotaConsumed,
		Status:        model.CampaignCreated,
		CreatedAt:     time.Now().UTC(),
	}

	s.Log.Info().
		Str("campaign_id", campaign.ID).
		Str("channel", string(channel)).
		Int("recipients", len(recipients)).
		Msg("composing campaign")

	campaign.Status = model.CampaignResolving
	resolved, err := s.Resolver.Resolve(ctx, tmpl, selection, renderModeFor(channel))
	if err != nil {
		return nil, err
	}
	campaign.ResolvedSubject = resolved.Subject
	campaign.ResolvedBody = resolved.Body

	campaign.Status = model.CampaignDispatching
	outcomes := dispatcher.Dispatch(ctx, campaign, recipients)

	report, err := dispatch.Aggregate(campaign.ID, len(recipients), outcomes)
	if err != nil {
		return nil, err
	}
	campaign.Status = model.CampaignCompleted

	s.publishReport(&report)

	if err := s.Store.Persist(ctx, campaign, &report); err != nil {
		s.Log.Error().Err(err).Str("campaign_id", campaign.ID).Msg("persisting campaign failed")
		return &report, fmt.Errorf("campaign dispatched but not persisted: %w", err)
	}

	s.Log.Info().
		Str("campaign_id", campaign.ID).
		Int("dispatched", report.Dispatched).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("campaign completed")

	return &report, nil
}

// GetCampaignReport rebuilds the report for a past campaign from its
// stored outcomes. Every campaign has at least one recipient, so no
// outcome rows means the ID is unknown.
func (s *CampaignService) GetCampaignReport(ctx context.Context, campaignID string) (*model.CampaignReport, error) {
	report, err := s.Store.GetReport(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if len(report.Outcomes) == 0 {
		return nil, appErrors.NewCampaignNotFound(campaignID)
	}
	return report, nil
}

// PreviewResolvedTemplate runs the campaign-level pass and fills scalar
// tokens with their fallback labels. Nothing is dispatched or persisted.
func (s *CampaignService) PreviewResolvedTemplate(ctx context.Context, tmpl *model.Template, selection model.ContentSelection, channel model.Channel) (template.Resolved, error) {
	if _, ok := s.Dispatchers[channel]; !ok {
		return template.Resolved{}, appErrors.NewUnknownChannel(string(channel))
	}
	if !tmpl.AppliesTo(channel) {
		return template.Resolved{}, appErrors.NewChannelNotApplicable(tmpl.ID, string(channel))
	}

	resolved, err := s.Resolver.Resolve(ctx, tmpl, selection, renderModeFor(channel))
	if err != nil {
		return template.Resolved{}, err
	}

	preview := template.ResolveWithFallbacks(resolved)
	if channel == model.ChannelWhatsApp {
		preview.Subject = render.HTMLToPlainText(preview.Subject)
		preview.Body = render.HTMLToPlainText(preview.Body)
	}
	return preview, nil
}

func (s *CampaignService) publishReport(report *model.CampaignReport) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishReport(report); err != nil {
		// Best-effort: downstream analytics can backfill from the store.
		s.Log.Warn().Err(err).Str("campaign_id", report.CampaignID).Msg("report publish failed")
	}
}
