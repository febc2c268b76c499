// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"fmt"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// Dispatcher is one channel strategy. Implementations apply the
// per-recipient scalar pass themselves and must return exactly one outcome
// per recipient, in any order, regardless of individual failures. Input
// validation happens upstream, so Dispatch has no error return: every
// problem is a classified outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, campaign *model.Campaign, recipients []model.Recipient) []model.DispatchOutcome
}

// Aggregate partitions outcomes into the campaign report. The outcome count
// must match the recipient count; a mismatch means a recipient was silently
// dropped, which is a defect, not a reportable result.
func Aggregate(campaignID string, recipientCount int, outcomes []model.DispatchOutcome) (model.CampaignReport, error) {
	if len(outcomes) != recipientCount {
		return model.CampaignReport{}, fmt.Errorf(
			"outcome count %d does not match recipient count %d for campaign %s",
			len(outcomes), recipientCount, campaignID)
	}

	report := model.CampaignReport{
		CampaignID: campaignID,
		Outcomes:   outcomes,
	}
	for _, o := range outcomes {
		switch o.Status {
		case model.OutcomeDispatched:
			report.Dispatched++
		case model.OutcomeSkippedNoContact:
			report.Skipped++
		default:
			report.Failed++
		}
	}
	return report, nil
}
