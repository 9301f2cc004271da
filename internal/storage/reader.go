package storage

import (
	"context"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

// PostReader is the query surface of the live content store.
type PostReader interface {
	// ListPublished returns published posts, most recent first.
	ListPublished(ctx context.Context) ([]domain.Post, error)
	// GetBySlug returns ErrNotFound when no post matches. Drafts are only
	// visible when includeDrafts is set.
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error)
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	// ListAll returns every post, drafts included, most recent first.
	ListAll(ctx context.Context) ([]domain.Post, error)
}

type AuthorReader interface {
	GetAuthorByEmail(ctx context.Context, email string) (*domain.Author, error)
}
