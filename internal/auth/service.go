package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/metrics"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRevoked            = errors.New("token revoked")
)

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
const dummyHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO5rB6aJv3.T7Wq1LxKQyHG7L0N0a8S2e"

type Session struct {
	Token  string
	Claims *Claims
}

type Service struct {
	authors storage.AuthorReader
	tokens  *JWTManager
	revoker Revoker
}

func NewService(authors storage.AuthorReader, tokens *JWTManager, revoker Revoker) *Service {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &Service{
		authors: authors,
		tokens:  tokens,
		revoker: revoker,
	}
}

func (s *Service) SessionTTL() int {
	return int(s.tokens.TTL().Seconds())
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	author, err := s.authors.GetAuthorByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		CheckPassword(dummyHash, password)
		metrics.AuthAttempts.WithLabelValues("unknown_email").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	if !CheckPassword(author.PasswordHash, password) {
		metrics.AuthAttempts.WithLabelValues("bad_password").Inc()
		slog.Warn("Admin login rejected", "email", author.Email)
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.GenerateToken(*author)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	slog.Info("Admin login", "email", author.Email, "role", author.Role)
	return &Session{Token: token, Claims: claims}, nil
}

func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	slog.Info("Admin logout", "email", claims.Email, "jti", claims.ID)
	return nil
}

// Authenticate validates the token signature and expiry and rejects revoked
// tokens.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Bootstrap creates the configured admin author unless one already exists
// with the same email.
func Bootstrap(ctx context.Context, authors storage.AuthorStore, cfg *Config) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	_, err := authors.GetAuthorByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to look up admin author: %w", err)
	}

	created, err := authors.CreateAuthor(ctx, domain.Author{
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin author: %w", err)
	}

	slog.Info("Bootstrap admin author created", "email", created.Email)
	return nil
}
