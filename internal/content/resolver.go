// internal/content/resolver.go
package content

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// ErrItemNotFound is returned by a Repository when a reference is stale or
// the item was deleted.
var ErrItemNotFound = errors.New("content item not found")

// Repository fetches catalog items. Implementations live outside this
// package (the admin backend owns the catalog).
type Repository interface {
	GetItem(ctx context.Context, itemType model.ContentItemType, itemID string) (*model.ContentItem, error)
}

// RenderMode selects the output flavor of a content block.
type RenderMode string

const (
	ModeRich  RenderMode = "rich"
	ModePlain RenderMode = "plain"
)

// Resolver turns a ContentSelection into a single rendered block.
type Resolver struct {
	repo Repository
	log  zerolog.Logger
}

func NewResolver(repo Repository, log zerolog.Logger) *Resolver {
	return &Resolver{repo: repo, log: log.With().Str("component", "content_resolver").Logger()}
}

// Resolve renders the selection in order. A reference that cannot be
// fetched is omitted rather than failing the block: one stale item must not
// break a campaign. Duplicated references render twice.
func (r *Resolver) Resolve(ctx context.Context, selection model.ContentSelection, mode RenderMode) (string, error) {
	parts := make([]string, 0, len(selection))

	for _, ref := range selection {
		item, err := r.repo.GetItem(ctx, ref.ItemType, ref.ItemID)
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				r.log.Warn().
					Str("item_type", string(ref.ItemType)).
					Str("item_id", ref.ItemID).
					Msg("content item missing, omitting from block")
				continue
			}
			// Repository outage degrades the item, same as a stale ref.
			r.log.Error().Err(err).
				Str("item_type", string(ref.ItemType)).
				Str("item_id", ref.ItemID).
				Msg("content fetch failed, omitting from block")
			continue
		}

		switch mode {
		case ModePlain:
			parts = append(parts, renderPlainItem(item))
		default:
			parts = append(parts, renderRichItem(item))
		}
	}

	if mode == ModePlain {
		return strings.Join(parts, "\n\n"), nil
	}
	return strings.Join(parts, "\n"), nil
}

// renderRichItem produces the fixed fragment used in email bodies: linked
// thumbnail (when the item has one) plus linked title. Titles and URLs come
// from the catalog, so everything interpolated into the markup is escaped.
func renderRichItem(item *model.ContentItem) string {
	var b strings.Builder
	link := html.EscapeString(item.CanonicalURL)
	title := html.EscapeString(item.Title)
	b.WriteString(`<div style="margin:0 0 16px 0">`)
	if item.ImageURL != "" {
		fmt.Fprintf(&b, `<a href="%s"><img src="%s" alt="%s" width="120" style="display:block;border:0"></a>`,
			link, html.EscapeString(item.ImageURL), title)
	}
	fmt.Fprintf(&b, `<a href="%s">%s</a>`, link, title)
	b.WriteString(`</div>`)
	return b.String()
}

func renderPlainItem(item *model.ContentItem) string {
	return fmt.Sprintf("• %s\n   %s", item.Title, item.CanonicalURL)
}
