// internal/model/content.go
package model

// ContentItemType distinguishes the two catalog sources content blocks can
// reference.
type ContentItemType string

const (
	ContentTypeArticle      ContentItemType = "article"
	ContentTypeCatalogEntry ContentItemType = "catalog_entry"
)

// ContentRef points at one catalog item.
type ContentRef struct {
	ItemID   string          `json:"item_id"`
	ItemType ContentItemType `json:"item_type"`
}

// ContentSelection is the ordered list of catalog items a campaign embeds.
// Order is load-bearing: renderings must preserve it.
type ContentSelection []ContentRef

// ContentItem is a resolved catalog item as exposed by the content
// repository.
type ContentItem struct {
	Title        string `json:"title"`
	ImageURL     string `json:"image_url,omitempty"`
	CanonicalURL string `json:"canonical_url"`
}
