package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// FakeProvider records payloads and fails addresses listed in failFor.
type FakeProvider struct {
	mu       sync.Mutex
	payloads []EmailPayload
	failFor  map[string]error
	failOnce map[string]int // remaining failures before success
}

func (p *FakeProvider) Send(ctx context.Context, payload EmailPayload) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)

	if p.failOnce != nil && p.failOnce[payload.ToAddress] > 0 {
		p.failOnce[payload.ToAddress]--
		return "", errors.New("transient provider error")
	}
	if err, ok := p.failFor[payload.ToAddress]; ok {
		return "", err
	}
	return "msg-" + payload.RecipientID, nil
}

func (p *FakeProvider) sentTo(address string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, pl := range p.payloads {
		if pl.ToAddress == address {
			n++
		}
	}
	return n
}

func emailFixture(provider *FakeProvider) *EmailDispatcher {
	return NewEmailDispatcher(provider, "Xianna", "contacto@xianna.com.mx", 3, time.Second, zerolog.Nop())
}

func emailCampaign() *model.Campaign {
	return &model.Campaign{
		ID:              "cmp-1",
		Channel:         model.ChannelEmail,
		ResolvedSubject: "Hola {name}",
		ResolvedBody:    "<p>Hi {name}</p>",
	}
}

func byRecipient(outcomes []model.DispatchOutcome) map[string]model.DispatchOutcome {
	m := make(map[string]model.DispatchOutcome, len(outcomes))
	for _, o := range outcomes {
		m[o.RecipientID] = o
	}
	return m
}

func TestEmailDispatchHappyPath(t *testing.T) {
	provider := &FakeProvider{}
	d := emailFixture(provider)

	recipients := []model.Recipient{
		{ID: "r-1", DisplayName: "Ana", Email: "ana@example.com"},
		{ID: "r-2", DisplayName: "Bea", Email: "bea@example.com"},
	}
	outcomes := d.Dispatch(context.Background(), emailCampaign(), recipients)

	require.Len(t, outcomes, 2)
	m := byRecipient(outcomes)
	assert.Equal(t, model.OutcomeDispatched, m["r-1"].Status)
	assert.Equal(t, "msg-r-1", m["r-1"].ChannelPayload)
	assert.Equal(t, model.OutcomeDispatched, m["r-2"].Status)
}

func TestEmailDispatchSkipsMissingAddressWithoutProviderCall(t *testing.T) {
	provider := &FakeProvider{}
	d := emailFixture(provider)

	recipients := []model.Recipient{
		{ID: "r-1", DisplayName: "Ana"},
		{ID: "r-2", DisplayName: "Bea", Email: "bea@example.com"},
	}
	outcomes := d.Dispatch(context.Background(), emailCampaign(), recipients)

	m := byRecipient(outcomes)
	assert.Equal(t, model.OutcomeSkippedNoContact, m["r-1"].Status)
	assert.Equal(t, model.OutcomeDispatched, m["r-2"].Status)
	assert.Len(t, provider.payloads, 1, "no call may reach the provider for a skipped recipient")
}

func TestEmailDispatchOneFailureDoesNotAbortBatch(t *testing.T) {
	provider := &FakeProvider{failFor: map[string]error{"bad@example.com": errors.New("550 rejected")}}
	d := emailFixture(provider)

	recipients := []model.Recipient{
		{ID: "r-1", Email: "a@example.com"},
		{ID: "r-2", Email: "b@example.com"},
		{ID: "r-3", Email: "bad@example.com"},
		{ID: "r-4", Email: "d@example.com"},
		{ID: "r-5", Email: "e@example.com"},
	}
	outcomes := d.Dispatch(context.Background(), emailCampaign(), recipients)

	require.Len(t, outcomes, 5)
	report, err := Aggregate("cmp-1", 5, outcomes)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Dispatched)
	assert.Equal(t, 1, report.Failed)

	m := byRecipient(outcomes)
	assert.Contains(t, m["r-3"].ErrorDetail, "550 rejected")
}

func TestEmailDispatchRetriesTransientError(t *testing.T) {
	provider := &FakeProvider{failOnce: map[string]int{"flaky@example.com": 1}}
	d := emailFixture(provider)

	outcomes := d.Dispatch(context.Background(), emailCampaign(), []model.Recipient{
		{ID: "r-1", Email: "flaky@example.com"},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, model.OutcomeDispatched, outcomes[0].Status)
	assert.Equal(t, 2, provider.sentTo("flaky@example.com"))
}

func TestEmailDispatchCancelledContextMarksRemainingFailed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &FakeProvider{}
	d := emailFixture(provider)

	recipients := []model.Recipient{
		{ID: "r-1", Email: "a@example.com"},
		{ID: "r-2", Email: "b@example.com"},
	}
	outcomes := d.Dispatch(ctx, emailCampaign(), recipients)

	require.Len(t, outcomes, 2, "every recipient still yields an outcome")
	for _, o := range outcomes {
		assert.Equal(t, model.OutcomeFailed, o.Status)
		assert.Contains(t, o.ErrorDetail, "cancelled")
	}
	assert.Empty(t, provider.payloads)
}

func TestEmailDispatchResolvesScalarsPerRecipient(t *testing.T) {
	provider := &FakeProvider{}
	d := emailFixture(provider)

	d.Dispatch(context.Background(), emailCampaign(), []model.Recipient{
		{ID: "r-1", DisplayName: "Ana", Email: "ana@example.com"},
	})

	require.Len(t, provider.payloads, 1)
	pl := provider.payloads[0]
	assert.Equal(t, "Hola Ana", pl.Subject)
	assert.Contains(t, pl.HTMLBody, "Hi Ana")
	assert.Equal(t, "Hi Ana", pl.TextBody)
	assert.Equal(t, "cmp-1", pl.CampaignID)
	assert.Equal(t, "r-1", pl.RecipientID)
}
