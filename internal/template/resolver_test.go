package template

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AWD-Projects/xianna-campaign-service/internal/content"
	appErrors "github.com/AWD-Projects/xianna-campaign-service/internal/errors"
	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

type countingRepo struct {
	calls int
}

func (r *countingRepo) GetItem(ctx context.Context, itemType model.ContentItemType, itemID string) (*model.ContentItem, error) {
	r.calls++
	return &model.ContentItem{Title: "Item " + itemID, CanonicalURL: "https://example.com/" + itemID}, nil
}

func fixture() (*Resolver, *countingRepo) {
	repo := &countingRepo{}
	return NewResolver(content.NewResolver(repo, zerolog.Nop())), repo
}

func validTemplate() *model.Template {
	return &model.Template{
		ID:                 "t-1",
		Subject:            "Hola {name}!",
		Body:               "Hi {name}, picks for {style} in {region}:\n{content}",
		ApplicableChannels: []model.Channel{model.ChannelEmail},
	}
}

func TestValidateRejectsUnknownToken(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Body = "Hi {name}, your {favorite_color}"

	err := Validate(tmpl)
	var unknownErr *appErrors.ErrUnknownPlaceholder
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "favorite_color", unknownErr.Token)
}

func TestValidateRejectsContentTokenInSubject(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Subject = "News: {content}"

	err := Validate(tmpl)
	var subjectErr *appErrors.ErrContentTokenInSubject
	require.ErrorAs(t, err, &subjectErr)
}

func TestValidateRejectsEmptyBody(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Body = "   "
	assert.ErrorIs(t, Validate(tmpl), appErrors.ErrEmptyTemplate)
}

func TestResolveCampaignPassReplacesContentOnly(t *testing.T) {
	r, repo := fixture()
	sel := model.ContentSelection{
		{ItemID: "a", ItemType: model.ContentTypeArticle},
		{ItemID: "b", ItemType: model.ContentTypeCatalogEntry},
	}

	resolved, err := r.Resolve(context.Background(), validTemplate(), sel, content.ModePlain)
	require.NoError(t, err)

	assert.NotContains(t, resolved.Body, "{content}")
	assert.Contains(t, resolved.Body, "Item a")
	assert.Contains(t, resolved.Body, "Item b")
	// Scalar tokens survive the campaign pass.
	assert.Contains(t, resolved.Body, "{name}")
	assert.Contains(t, resolved.Subject, "{name}")
	// The block was generated once, not once per token occurrence or
	// per recipient.
	assert.Equal(t, 2, repo.calls)
}

func TestResolvePerRecipientLeavesNoTokens(t *testing.T) {
	r, _ := fixture()
	resolved, err := r.Resolve(context.Background(), validTemplate(), nil, content.ModePlain)
	require.NoError(t, err)

	rec := &model.Recipient{
		ID:          "r-1",
		DisplayName: "Ana",
		Style:       "casual",
		Region:      "CDMX",
	}
	final := ResolvePerRecipient(resolved, rec)

	assert.Equal(t, "Hola Ana!", final.Subject)
	assert.Contains(t, final.Body, "Hi Ana, picks for casual in CDMX")
	assert.NotContains(t, final.Subject, "{")
	assert.NotContains(t, final.Body, "{")
}

func TestResolvePerRecipientFallsBackOnEmptyFields(t *testing.T) {
	r, _ := fixture()
	resolved, err := r.Resolve(context.Background(), validTemplate(), nil, content.ModePlain)
	require.NoError(t, err)

	final := ResolvePerRecipient(resolved, &model.Recipient{ID: "r-2"})

	assert.Equal(t, "Hola there!", final.Subject)
	assert.Contains(t, final.Body, "picks for your style in your region")
	assert.NotContains(t, final.Body, "{")
}

func TestResolvePerRecipientReplacesEveryOccurrence(t *testing.T) {
	rec := &model.Recipient{DisplayName: "Ana"}
	final := ResolvePerRecipient(Resolved{Body: "{name} and {name} again"}, rec)
	assert.Equal(t, "Ana and Ana again", final.Body)
	assert.Equal(t, 2, strings.Count(final.Body, "Ana"))
}

func TestResolveWithFallbacks(t *testing.T) {
	out := ResolveWithFallbacks(Resolved{Subject: "Hola {name}", Body: "{style} / {occupation}"})
	assert.Equal(t, "Hola there", out.Subject)
	assert.Equal(t, "your style / -", out.Body)
}
