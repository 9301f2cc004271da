package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

// stringList is stored as a JSON array in a TEXT column.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported list column type %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

type postRow struct {
	ID            string     `db:"id"`
	Slug          string     `db:"slug"`
	Title         string     `db:"title"`
	Content       string     `db:"content"`
	Excerpt       string     `db:"excerpt"`
	FeaturedImage string     `db:"featured_image"`
	Author        string     `db:"author"`
	Status        string     `db:"post_status"`
	PostType      string     `db:"post_type"`
	ParentID      string     `db:"parent_id"`
	Categories    stringList `db:"categories"`
	Tags          stringList `db:"tags"`
	Date          time.Time  `db:"date"`
	Modified      time.Time  `db:"modified"`
}

func fromPost(p domain.Post) postRow {
	return postRow{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Author:        p.Author,
		Status:        string(p.Status),
		PostType:      p.PostType,
		ParentID:      p.ParentID,
		Categories:    p.Categories,
		Tags:          p.Tags,
		Date:          p.PublishedAt.UTC(),
		Modified:      p.ModifiedAt.UTC(),
	}
}

func (r postRow) toPost() domain.Post {
	p := domain.Post{
		ID:            r.ID,
		Slug:          r.Slug,
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		FeaturedImage: r.FeaturedImage,
		Author:        r.Author,
		Status:        domain.Status(r.Status),
		PostType:      r.PostType,
		ParentID:      r.ParentID,
		Categories:    r.Categories,
		Tags:          r.Tags,
		PublishedAt:   r.Date.UTC(),
		ModifiedAt:    r.Modified.UTC(),
	}
	p.Normalize()
	return p
}

const (
	selectPosts = `SELECT id, slug, title, content, excerpt, featured_image, author, post_status,
		post_type, parent_id, categories, tags, date, modified FROM posts`

	insertPost = `INSERT INTO posts (id, slug, title, content, excerpt, featured_image, author, post_status,
		post_type, parent_id, categories, tags, date, modified)
		VALUES (:id, :slug, :title, :content, :excerpt, :featured_image, :author, :post_status,
		:post_type, :parent_id, :categories, :tags, :date, :modified)`

	upsertPost = insertPost + `
		ON CONFLICT (slug) DO UPDATE SET
			title = excluded.title, content = excluded.content, excerpt = excluded.excerpt,
			featured_image = excluded.featured_image, author = excluded.author,
			post_status = excluded.post_status, post_type = excluded.post_type,
			parent_id = excluded.parent_id, categories = excluded.categories, tags = excluded.tags,
			date = excluded.date, modified = excluded.modified`
)

// PostStore is the sqlite live store used for local development.
type PostStore struct {
	db  *DB
	now func() time.Time
}

func NewPostStore(db *DB) *PostStore {
	return &PostStore{db: db, now: time.Now}
}

func (s *PostStore) ListPublished(ctx context.Context) ([]domain.Post, error) {
	return s.list(ctx, selectPosts+` WHERE post_status = ? ORDER BY date DESC, slug`, string(domain.StatusPublish))
}

func (s *PostStore) ListAll(ctx context.Context) ([]domain.Post, error) {
	return s.list(ctx, selectPosts+` ORDER BY date DESC, slug`)
}

func (s *PostStore) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	if includeDrafts {
		return s.one(ctx, selectPosts+` WHERE slug = ?`, slug)
	}
	return s.one(ctx, selectPosts+` WHERE slug = ? AND post_status = ?`, slug, string(domain.StatusPublish))
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return s.one(ctx, selectPosts+` WHERE id = ?`, id)
}

func (s *PostStore) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	posts := make([]domain.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toPost())
	}
	return posts, nil
}

func (s *PostStore) one(ctx context.Context, query string, args ...any) (*domain.Post, error) {
	var row postRow
	err := s.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	p := row.toPost()
	return &p, nil
}

func (s *PostStore) Create(ctx context.Context, post domain.Post) (*domain.Post, error) {
	s.prepare(&post)

	if _, err := s.db.NamedExecContext(ctx, insertPost, fromPost(post)); err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetByID(ctx, post.ID)
}

func (s *PostStore) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var row postRow
	err = tx.GetContext(ctx, &row, selectPosts+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	post := row.toPost()
	patch.Apply(&post, s.now().UTC())
	post.Normalize()

	_, err = tx.NamedExecContext(ctx, `
		UPDATE posts SET slug = :slug, title = :title, content = :content, excerpt = :excerpt,
			featured_image = :featured_image, author = :author, post_status = :post_status,
			post_type = :post_type, parent_id = :parent_id, categories = :categories, tags = :tags,
			date = :date, modified = :modified
		WHERE id = :id`, fromPost(post))
	if err != nil {
		return nil, mapWriteErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return &post, nil
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PostStore) Save(ctx context.Context, post domain.Post) (string, error) {
	s.prepare(&post)
	if err := upsert(ctx, s.db.DB, post); err != nil {
		return "", err
	}

	var id string
	if err := s.db.GetContext(ctx, &id, `SELECT id FROM posts WHERE slug = ?`, post.Slug); err != nil {
		return "", fmt.Errorf("failed to read id of %q: %w", post.Slug, err)
	}
	return id, nil
}

func (s *PostStore) SaveBulk(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range posts {
		p := posts[i]
		s.prepare(&p)
		if err := upsert(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func upsert(ctx context.Context, e sqlx.ExtContext, p domain.Post) error {
	if _, err := sqlx.NamedExecContext(ctx, e, upsertPost, fromPost(p)); err != nil {
		return fmt.Errorf("failed to upsert post %q: %w", p.Slug, err)
	}
	return nil
}

func (s *PostStore) prepare(p *domain.Post) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = s.now().UTC()
	}
	p.Normalize()
}

func (s *PostStore) CreateAuthor(ctx context.Context, author domain.Author) (*domain.Author, error) {
	if author.ID == "" {
		author.ID = uuid.NewString()
	}
	if author.CreatedAt.IsZero() {
		author.CreatedAt = s.now().UTC()
	}
	author.Email = strings.ToLower(strings.TrimSpace(author.Email))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (id, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		author.ID, author.Email, author.PasswordHash, string(author.Role), author.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}
	return &author, nil
}

func (s *PostStore) GetAuthorByEmail(ctx context.Context, email string) (*domain.Author, error) {
	var row struct {
		ID           string    `db:"id"`
		Email        string    `db:"email"`
		PasswordHash string    `db:"password_hash"`
		Role         string    `db:"role"`
		CreatedAt    time.Time `db:"created_at"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT id, email, password_hash, role, created_at FROM authors WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return &domain.Author{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		CreatedAt:    row.CreatedAt.UTC(),
	}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func mapWriteErr(err error) error {
	if isUniqueViolation(err) {
		return storage.ErrSlugTaken
	}
	return fmt.Errorf("failed to write post: %w", err)
}
