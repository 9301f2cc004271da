package storage

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

type PostWriter interface {
	// Create assigns an id when the post has none. Returns ErrSlugTaken on a
	// duplicate slug.
	Create(ctx context.Context, post domain.Post) (*domain.Post, error)
	// Update returns ErrNotFound when no post has the id.
	Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}

// PostBulkWriter upserts posts by slug. Used by catalog imports.
type PostBulkWriter interface {
	Save(ctx context.Context, post domain.Post) (string, error)
	SaveBulk(ctx context.Context, posts []domain.Post) error
}

type PostStore interface {
	PostReader
	PostWriter
	PostBulkWriter
}

type AuthorWriter interface {
	CreateAuthor(ctx context.Context, author domain.Author) (*domain.Author, error)
}

type AuthorStore interface {
	AuthorReader
	AuthorWriter
}

type Type string

const (
	PG     Type = "pg"
	SQLite Type = "sqlite"
	InMem  Type = "in_mem"
)

var SupportedTypes = []Type{PG, SQLite, InMem}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

func UnsupportedTypeError(t Type) error {
	return fmt.Errorf(string(ErrUnsupportedStorer), t)
}
