package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

type AuthorStore struct {
	db *pgxpool.Pool
}

func NewAuthorStore(pool *ConnectionPool) *AuthorStore {
	return &AuthorStore{db: pool.conn}
}

func (s *AuthorStore) CreateAuthor(ctx context.Context, author domain.Author) (*domain.Author, error) {
	if author.ID == "" {
		author.ID = uuid.NewString()
	}
	if author.CreatedAt.IsZero() {
		author.CreatedAt = time.Now().UTC()
	}
	author.Email = strings.ToLower(strings.TrimSpace(author.Email))

	_, err := s.db.Exec(ctx, `
		INSERT INTO authors (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		author.ID, author.Email, author.PasswordHash, string(author.Role), author.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, storage.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}

	return &author, nil
}

func (s *AuthorStore) GetAuthorByEmail(ctx context.Context, email string) (*domain.Author, error) {
	var a domain.Author
	var role string

	err := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM authors
		WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query author: %w", err)
	}

	a.Role = domain.Role(role)
	return &a, nil
}
