package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/meson-site/internal/apperr"
)

type stubHealth struct{ ok bool }

func (h stubHealth) Healthy(context.Context) bool { return h.ok }

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		port        string
		cors        string
		wantErr     bool
		wantPort    string
		wantOrigins []string
	}{
		{name: "defaults", wantPort: "8080", wantOrigins: []string{"*"}},
		{name: "custom", port: "3000", cors: " https://a.com, ,https://b.com", wantPort: "3000",
			wantOrigins: []string{"https://a.com", "https://b.com"}},
		{name: "non numeric port", port: "http", wantErr: true},
		{name: "port out of range", port: "70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			t.Setenv("CORS_ORIGINS", tt.cors)

			cfg, err := LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantOrigins, cfg.CorsOrigins)
		})
	}
}

func TestSetupHealthChecks(t *testing.T) {
	tests := []struct {
		name       string
		healthy    bool
		wantStatus int
	}{
		{name: "healthy", healthy: true, wantStatus: http.StatusOK},
		{name: "unhealthy", healthy: false, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&Config{Port: "0"}, stubHealth{ok: tt.healthy}).SetupHealthChecks("/health")

			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestServer_MiddlewareChain(t *testing.T) {
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}}, stubHealth{ok: true}).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupMetrics("/metrics")

	s.Echo.GET("/boom", func(c echo.Context) error {
		return apperr.NewNotFound("post", "flan")
	})
	s.Echo.GET("/panic", func(c echo.Context) error {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "site_http_requests_total")
}
