package storage

import (
	"context"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

// SearchResult is one page of full-text matches over published posts.
type SearchResult struct {
	Hits     []domain.Post `json:"hits"`
	Total    int64         `json:"total"`
	MaxScore float64       `json:"max_score"`
}

// PostSearcher performs full-text search over published posts.
type PostSearcher interface {
	Search(ctx context.Context, query string, page, size int) (*SearchResult, error)
}

// PostIndexer keeps the search index in sync with the live store.
type PostIndexer interface {
	Index(ctx context.Context, post domain.Post) error
	IndexBulk(ctx context.Context, posts []domain.Post) error
	Remove(ctx context.Context, id string) error
}

type SearchType string

const (
	SearchNone SearchType = ""
	SearchES   SearchType = "es"
)
