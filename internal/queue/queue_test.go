package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

func TestInMemoryPublisherCollectsReports(t *testing.T) {
	p := NewInMemoryPublisher()

	report := &model.CampaignReport{
		CampaignID: "cmp-1",
		Dispatched: 2,
		Failed:     1,
		Outcomes: []model.DispatchOutcome{
			{RecipientID: "r-1", Status: model.OutcomeDispatched},
		},
	}
	require.NoError(t, p.PublishReport(report))
	require.NoError(t, p.PublishReport(report))

	got := p.Reports()
	require.Len(t, got, 2)
	assert.Equal(t, "cmp-1", got[0].CampaignID)

	// Returned slice is a copy; mutating it does not affect the publisher.
	got[0].CampaignID = "mutated"
	assert.Equal(t, "cmp-1", p.Reports()[0].CampaignID)
}
