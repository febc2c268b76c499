// internal/repository/campaign_store.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// CampaignStoreInterface is the persistence collaborator for composed
// campaigns and their reports.
type CampaignStoreInterface interface {
	Persist(ctx context.Context, campaign *model.Campaign, report *model.CampaignReport) error
	HistoricalQuotaConsumption(ctx context.Context) (int, error)
	GetReport(ctx context.Context, campaignID string) (*model.CampaignReport, error)
}

type CampaignStore struct {
	DB *sql.DB
}

// Persist writes the campaign row and one outcome row per recipient in a
// single transaction. Campaigns are immutable after dispatch, so there is
// no update path.
func (s *CampaignStore) Persist(ctx context.Context, campaign *model.Campaign, report *model.CampaignReport) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO campaigns (id, channel, template_id, resolved_subject, resolved_body, quota_consumed, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		campaign.ID, campaign.Channel, campaign.TemplateID,
		campaign.ResolvedSubject, campaign.ResolvedBody,
		campaign.QuotaConsumed, campaign.Status, campaign.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting campaign: %w", err)
	}

	for _, o := range report.Outcomes {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO campaign_outcomes (campaign_id, recipient_id, status, channel_payload, error_detail)
            VALUES ($1, $2, $3, $4, $5)`,
			campaign.ID, o.RecipientID, o.Status, o.ChannelPayload, o.ErrorDetail,
		)
		if err != nil {
			return fmt.Errorf("inserting outcome for recipient %s: %w", o.RecipientID, err)
		}
	}

	return tx.Commit()
}

// HistoricalQuotaConsumption sums quota_consumed across all previously
// created campaigns. WhatsApp campaigns are stored with quota_consumed = 0,
// so the plain sum is the email total.
func (s *CampaignStore) HistoricalQuotaConsumption(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quota_consumed), 0) FROM campaigns`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing quota consumption: %w", err)
	}
	return total, nil
}

// GetReport rebuilds a campaign report from the stored outcome rows.
func (s *CampaignStore) GetReport(ctx context.Context, campaignID string) (*model.CampaignReport, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT recipient_id, status, channel_payload, error_detail
        FROM campaign_outcomes
        WHERE campaign_id = $1
        ORDER BY recipient_id`,
		campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &model.CampaignReport{CampaignID: campaignID}
	for rows.Next() {
		var o model.DispatchOutcome
		if err := rows.Scan(&o.RecipientID, &o.Status, &o.ChannelPayload, &o.ErrorDetail); err != nil {
			return nil, err
		}
		switch o.Status {
		case model.OutcomeDispatched:
			report.Dispatched++
		case model.OutcomeSkippedNoContact:
			report.Skipped++
		default:
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, o)
	}
	return report, rows.Err()
}

var _ CampaignStoreInterface = (*CampaignStore)(nil)
