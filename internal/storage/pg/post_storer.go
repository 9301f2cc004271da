package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

const uniqueViolation = "23505"

var copyColumns = []string{
	"id", "slug", "title", "content", "excerpt", "featured_image", "author",
	"post_status", "post_type", "parent_id", "categories", "tags", "date", "modified",
}

// Storer is the postgres live store: reads, admin writes and catalog imports.
type Storer struct {
	*Reader
	db  *pgxpool.Pool
	now func() time.Time
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	reader, err := NewReader(pool)
	if err != nil {
		return nil, err
	}
	return &Storer{Reader: reader, db: pool.conn, now: time.Now}, nil
}

func (s *Storer) Create(ctx context.Context, post domain.Post) (*domain.Post, error) {
	s.prepare(&post)

	created, err := scanPost(s.db.QueryRow(ctx, `
		INSERT INTO posts (id, slug, title, content, excerpt, featured_image, author,
		                   post_status, post_type, parent_id, categories, tags, date, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+postColumns,
		rowValues(post)...,
	))
	if err != nil {
		return nil, mapWriteErr(err)
	}

	return &created, nil
}

func (s *Storer) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	post, err := scanPost(tx.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	patch.Apply(&post, s.now().UTC())
	post.Normalize()

	updated, err := scanPost(tx.QueryRow(ctx, `
		UPDATE posts
		SET slug = $2, title = $3, content = $4, excerpt = $5, featured_image = $6, author = $7,
		    post_status = $8, post_type = $9, parent_id = $10, categories = $11, tags = $12,
		    date = $13, modified = $14
		WHERE id = $1
		RETURNING `+postColumns,
		rowValues(post)...,
	))
	if err != nil {
		return nil, mapWriteErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return &updated, nil
}

func (s *Storer) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Save upserts a single post by slug and returns the stored id.
func (s *Storer) Save(ctx context.Context, post domain.Post) (string, error) {
	s.prepare(&post)

	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, slug, title, content, excerpt, featured_image, author,
		                   post_status, post_type, parent_id, categories, tags, date, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`+upsertClause+`
		RETURNING id`,
		rowValues(post)...,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert post %q: %w", post.Slug, err)
	}

	return id, nil
}

// SaveBulk copies the batch into a temporary table and upserts it by slug.
func (s *Storer) SaveBulk(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	rows := make([][]any, len(posts))
	for i := range posts {
		p := posts[i]
		s.prepare(&p)
		rows[i] = rowValues(p)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `CREATE TEMP TABLE posts_import (LIKE posts INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("failed to create import table: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"posts_import"}, copyColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to bulk copy posts: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO posts (id, slug, title, content, excerpt, featured_image, author,
		                   post_status, post_type, parent_id, categories, tags, date, modified)
		SELECT DISTINCT ON (slug) id, slug, title, content, excerpt, featured_image, author,
		       post_status, post_type, parent_id, categories, tags, date, modified
		FROM posts_import
		ORDER BY slug
		`+upsertClause)
	if err != nil {
		return fmt.Errorf("failed to upsert imported posts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

const upsertClause = `
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title, content = EXCLUDED.content, excerpt = EXCLUDED.excerpt,
			featured_image = EXCLUDED.featured_image, author = EXCLUDED.author,
			post_status = EXCLUDED.post_status, post_type = EXCLUDED.post_type,
			parent_id = EXCLUDED.parent_id, categories = EXCLUDED.categories, tags = EXCLUDED.tags,
			date = EXCLUDED.date, modified = EXCLUDED.modified`

func (s *Storer) prepare(p *domain.Post) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = s.now().UTC()
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Normalize()
}

func rowValues(p domain.Post) []any {
	return []any{
		p.ID,
		p.Slug,
		p.Title,
		p.Content,
		nullable(p.Excerpt),
		nullable(p.FeaturedImage),
		nullable(p.Author),
		string(p.Status),
		p.PostType,
		nullable(p.ParentID),
		p.Categories,
		p.Tags,
		p.PublishedAt,
		p.ModifiedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return storage.ErrSlugTaken
	}
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return fmt.Errorf("failed to write post: %w", err)
}
