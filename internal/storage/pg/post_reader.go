package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

const postColumns = `id, slug, title, content, COALESCE(excerpt, ''), COALESCE(featured_image, ''),
	COALESCE(author, ''), post_status, post_type, COALESCE(parent_id, ''), categories, tags, date, modified`

type Reader struct {
	db *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) (*Reader, error) {
	return &Reader{db: pool.conn}, nil
}

func (r *Reader) ListPublished(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE post_status = $1 ORDER BY date DESC, slug`, string(domain.StatusPublish))
}

func (r *Reader) ListAll(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY date DESC, slug`)
}

func (r *Reader) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	if includeDrafts {
		return r.one(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	}
	return r.one(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1 AND post_status = $2`, slug, string(domain.StatusPublish))
}

func (r *Reader) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.one(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
}

func (r *Reader) list(ctx context.Context, sql string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}

func (r *Reader) one(ctx context.Context, sql string, args ...any) (*domain.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPost(row pgx.Row) (domain.Post, error) {
	var p domain.Post
	var status string

	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Content,
		&p.Excerpt,
		&p.FeaturedImage,
		&p.Author,
		&status,
		&p.PostType,
		&p.ParentID,
		&p.Categories,
		&p.Tags,
		&p.PublishedAt,
		&p.ModifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Post{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to scan post: %w", err)
	}

	p.Status = domain.Status(status)
	p.PublishedAt = p.PublishedAt.UTC()
	p.ModifiedAt = p.ModifiedAt.UTC()
	p.Normalize()

	return p, nil
}
