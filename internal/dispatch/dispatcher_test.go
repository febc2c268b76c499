package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

func TestAggregateCounts(t *testing.T) {
	outcomes := []model.DispatchOutcome{
		{RecipientID: "r-1", Status: model.OutcomeDispatched},
		{RecipientID: "r-2", Status: model.OutcomeSkippedNoContact},
		{RecipientID: "r-3", Status: model.OutcomeFailed, ErrorDetail: "boom"},
		{RecipientID: "r-4", Status: model.OutcomeDispatched},
	}

	report, err := Aggregate("cmp-1", 4, outcomes)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Dispatched)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, len(outcomes), report.Dispatched+report.Skipped+report.Failed)
	assert.Len(t, report.Outcomes, 4, "raw outcomes kept for caller inspection")
}

func TestAggregateTotalFailureIsStillAReport(t *testing.T) {
	outcomes := []model.DispatchOutcome{
		{RecipientID: "r-1", Status: model.OutcomeFailed},
		{RecipientID: "r-2", Status: model.OutcomeFailed},
	}

	report, err := Aggregate("cmp-1", 2, outcomes)
	require.NoError(t, err, "total failure is reported, not escalated")
	assert.Equal(t, 2, report.Failed)
}

func TestAggregateRejectsCountMismatch(t *testing.T) {
	outcomes := []model.DispatchOutcome{
		{RecipientID: "r-1", Status: model.OutcomeDispatched},
	}

	_, err := Aggregate("cmp-1", 2, outcomes)
	assert.Error(t, err, "a dropped recipient is a defect")
}
