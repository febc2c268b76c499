package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

func TestPersistWritesCampaignAndOutcomesInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &CampaignStore{DB: db}
	campaign := &model.Campaign{
		ID:              "cmp-1",
		Channel:         model.ChannelEmail,
		TemplateID:      "t-1",
		ResolvedSubject: "Hola {name}",
		ResolvedBody:    "body",
		QuotaConsumed:   2,
		Status:          model.CampaignCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	report := &model.CampaignReport{
		CampaignID: "cmp-1",
		Outcomes: []model.DispatchOutcome{
			{RecipientID: "r-1", Status: model.OutcomeDispatched, ChannelPayload: "msg-1"},
			{RecipientID: "r-2", Status: model.OutcomeFailed, ErrorDetail: "boom"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO campaigns").
		WithArgs(campaign.ID, campaign.Channel, campaign.TemplateID,
			campaign.ResolvedSubject, campaign.ResolvedBody,
			campaign.QuotaConsumed, campaign.Status, campaign.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO campaign_outcomes").
		WithArgs("cmp-1", "r-1", model.OutcomeDispatched, "msg-1", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO campaign_outcomes").
		WithArgs("cmp-1", "r-2", model.OutcomeFailed, "", "boom").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err = store.Persist(context.Background(), campaign, report)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersistRollsBackOnOutcomeError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &CampaignStore{DB: db}
	campaign := &model.Campaign{ID: "cmp-1", CreatedAt: time.Now()}
	report := &model.CampaignReport{Outcomes: []model.DispatchOutcome{{RecipientID: "r-1", Status: model.OutcomeDispatched}}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO campaigns").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO campaign_outcomes").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = store.Persist(context.Background(), campaign, report)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoricalQuotaConsumption(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &CampaignStore{DB: db}
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(quota_consumed\\), 0\\) FROM campaigns").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(950))

	total, err := store.HistoricalQuotaConsumption(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 950, total)
}

func TestGetReportRebuildsCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &CampaignStore{DB: db}
	rows := sqlmock.NewRows([]string{"recipient_id", "status", "channel_payload", "error_detail"}).
		AddRow("r-1", "dispatched", "msg-1", "").
		AddRow("r-2", "skipped_no_contact", "", "no phone").
		AddRow("r-3", "failed", "", "boom")
	mock.ExpectQuery("SELECT recipient_id, status, channel_payload, error_detail").
		WithArgs("cmp-1").
		WillReturnRows(rows)

	report, err := store.GetReport(context.Background(), "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Dispatched)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Outcomes, 3)
}
