// internal/repository/content_repository.go
package repository

import (
	"context"
	"database/sql"

	"github.com/AWD-Projects/xianna-campaign-service/internal/content"
	"github.com/AWD-Projects/xianna-campaign-service/internal/model"
)

// ContentRepository reads catalog items from the console's article and
// catalog tables. Stale references surface as content.ErrItemNotFound so
// the resolver can omit them.
type ContentRepository struct {
	DB *sql.DB
}

func (r *ContentRepository) GetItem(ctx context.Context, itemType model.ContentItemType, itemID string) (*model.ContentItem, error) {
	var query string
	switch itemType {
	case model.ContentTypeArticle:
		query = `SELECT title, COALESCE(image_url, ''), canonical_url FROM articles WHERE id = $1`
	case model.ContentTypeCatalogEntry:
		query = `SELECT title, COALESCE(image_url, ''), canonical_url FROM catalog_entries WHERE id = $1`
	default:
		return nil, content.ErrItemNotFound
	}

	var item model.ContentItem
	err := r.DB.QueryRowContext(ctx, query, itemID).Scan(&item.Title, &item.ImageURL, &item.CanonicalURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, content.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

var _ content.Repository = (*ContentRepository)(nil)
