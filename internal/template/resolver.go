// internal/template/resolver.go
package template

import (
	"context"
	"regexp"
	"strings"

	"github.com/AWD-Projects/xianna-campaign-service/internal/content"
	appErrors "github.com/AWD-Projects/xianna-campaign-service/internal/errors"
	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// Placeholders form a closed registry: templates may only reference tokens
// declared here. Scalars resolve per recipient, content blocks once per
// campaign.
var (
	// scalarOrder keeps substitution deterministic.
	scalarOrder = []string{"name", "style", "body_type", "region", "gender", "age", "occupation"}

	// scalarFallbacks replace tokens a recipient has no value for. The raw
	// token must never survive and an empty gap would break copy, so every
	// scalar has a neutral label.
	scalarFallbacks = map[string]string{
		"name":       "there",
		"style":      "your style",
		"body_type":  "your body type",
		"region":     "your region",
		"gender":     "-",
		"age":        "-",
		"occupation": "-",
	}

	contentTokens = map[string]bool{"content": true}

	reToken = regexp.MustCompile(`\{([a-z_]+)\}`)
)

// Resolved is a template after one or both resolution passes.
type Resolved struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate checks every token in the template against the placeholder
// registry. Content-block tokens are body-only.
func Validate(tmpl *model.Template) error {
	if strings.TrimSpace(tmpl.Body) == "" {
		return appErrors.ErrEmptyTemplate
	}
	for _, m := range reToken.FindAllStringSubmatch(tmpl.Subject, -1) {
		token := m[1]
		if contentTokens[token] {
			return appErrors.NewContentTokenInSubject(token)
		}
		if _, ok := scalarFallbacks[token]; !ok {
			return appErrors.NewUnknownPlaceholder(token)
		}
	}
	for _, m := range reToken.FindAllStringSubmatch(tmpl.Body, -1) {
		token := m[1]
		if _, ok := scalarFallbacks[token]; !ok && !contentTokens[token] {
			return appErrors.NewUnknownPlaceholder(token)
		}
	}
	return nil
}

// Resolver performs the two-pass substitution. The campaign pass is split
// from the per-recipient pass because content blocks are expensive (fetch +
// render) and must be generated exactly once per campaign.
type Resolver struct {
	content *content.Resolver
}

func NewResolver(contentResolver *content.Resolver) *Resolver {
	return &Resolver{content: contentResolver}
}

// Resolve is the campaign-level pass: content-block tokens only. The
// returned Resolved still carries scalar tokens for the per-recipient pass.
func (r *Resolver) Resolve(ctx context.Context, tmpl *model.Template, selection model.ContentSelection, mode content.RenderMode) (Resolved, error) {
	if err := Validate(tmpl); err != nil {
		return Resolved{}, err
	}

	body := tmpl.Body
	for token := range contentTokens {
		placeholder := "{" + token + "}"
		if !strings.Contains(body, placeholder) {
			continue
		}
		block, err := r.content.Resolve(ctx, selection, mode)
		if err != nil {
			return Resolved{}, err
		}
		body = strings.ReplaceAll(body, placeholder, block)
	}

	return Resolved{Subject: tmpl.Subject, Body: body}, nil
}

// ResolvePerRecipient replaces every scalar token with the recipient's
// field value, falling back to the neutral label when the field is empty.
func ResolvePerRecipient(resolved Resolved, recipient *model.Recipient) Resolved {
	values := recipient.ScalarValues()
	subject := resolved.Subject
	body := resolved.Body
	for _, token := range scalarOrder {
		value := values[token]
		if value == "" {
			value = scalarFallbacks[token]
		}
		placeholder := "{" + token + "}"
		subject = strings.ReplaceAll(subject, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return Resolved{Subject: subject, Body: body}
}

// ResolveWithFallbacks fills every scalar token with its fallback label.
// Used for previews, which have no recipient.
func ResolveWithFallbacks(resolved Resolved) Resolved {
	subject := resolved.Subject
	body := resolved.Body
	for _, token := range scalarOrder {
		placeholder := "{" + token + "}"
		subject = strings.ReplaceAll(subject, placeholder, scalarFallbacks[token])
		body = strings.ReplaceAll(body, placeholder, scalarFallbacks[token])
	}
	return Resolved{Subject: subject, Body: body}
}
