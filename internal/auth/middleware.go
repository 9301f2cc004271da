package auth

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/meson-site/internal/apperr"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

const (
	CookieName = "meson_admin_session"
	claimsKey  = "auth.claims"
)

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func SessionCookie(token string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func ClearedCookie(secure bool) *http.Cookie {
	return SessionCookie("", -1, secure)
}

// Middleware rejects requests without a valid, unrevoked token and stores
// the claims on the context.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := s.Authenticate(c.Request().Context(), TokenFromRequest(c.Request()))
			if err != nil {
				if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrRevoked) {
					return apperr.NewUnauthorized("authentication required")
				}
				return err
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// RequireRole must run after Middleware.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return apperr.NewUnauthorized("authentication required")
			}
			if !slices.Contains(roles, claims.Role) {
				return apperr.NewForbidden("insufficient role")
			}
			return next(c)
		}
	}
}
