package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/meson-site/internal/apperr"
	"github.com/DjordjeVuckovic/meson-site/internal/auth"
	"github.com/DjordjeVuckovic/meson-site/internal/blog"
	"github.com/DjordjeVuckovic/meson-site/internal/catalog"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/dto"
	"github.com/DjordjeVuckovic/meson-site/internal/i18n"
	"github.com/DjordjeVuckovic/meson-site/internal/site"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/meson-site/internal/validation"
	"github.com/DjordjeVuckovic/meson-site/pkg/pagination"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testSite = site.Config{
	Name: "El Mesón de Pepe",
	URL:  "https://www.elmesondepepe.com",
	Logo: "/images/logo.webp",
}

type testApp struct {
	e     *echo.Echo
	store *in_mem.InMemStorer
}

func newTestApp(t *testing.T, adminOpts ...AdminRouterOption) *testApp {
	t.Helper()
	ctx := context.Background()

	e := echo.New()
	e.Validator = validation.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	store := in_mem.NewInMemStorer()
	for _, a := range []struct {
		email, password string
		role            domain.Role
	}{
		{"pepe@elmeson.com", "sunset-admin", domain.RoleAdmin},
		{"writer@elmeson.com", "mojito-writer", domain.RoleAuthor},
	} {
		hash, err := auth.HashPassword(a.password)
		require.NoError(t, err)
		_, err = store.CreateAuthor(ctx, domain.Author{Email: a.email, PasswordHash: hash, Role: a.role})
		require.NoError(t, err)
	}

	cat, err := catalog.Embedded()
	require.NoError(t, err)
	content, err := site.LoadContent()
	require.NoError(t, err)
	bundle, err := i18n.LoadBundle()
	require.NoError(t, err)

	authSvc := auth.NewService(store, auth.NewJWTManager(testSecret, time.Hour), auth.NewMemoryRevoker())
	blogSvc := blog.NewService(cat, blog.NewLiveSource(store, blog.DefaultBreakerSettings))

	NewBlogRouter(e, blogSvc, site.SchemaSite(testSite), WithPreviewAuth(authSvc)).Bind()
	NewAdminRouter(e, store, store, authSvc, append([]AdminRouterOption{WithSecureCookies(false)}, adminOpts...)...).Bind()
	NewSiteRouter(e, content, testSite, bundle, false).Bind()
	NewSEORouter(e, blogSvc, testSite.URL).Bind()

	return &testApp{e: e, store: store}
}

func (a *testApp) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/admin/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestBlogRouter_List(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/blog/posts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[pagination.OffsetResult[dto.PostSummary]](t, rec)
	assert.EqualValues(t, 5, res.Total)
	assert.Equal(t, BlogPageDefaultSize, res.Size)
	require.NotEmpty(t, res.Items)
	assert.Equal(t, "cuban-coffee-guide", res.Items[0].Slug)
	assert.Equal(t, "/story/blog/cuban-coffee-guide", res.Items[0].URL)

	rec = app.do(t, http.MethodGet, "/api/blog/posts?page=2&size=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[pagination.OffsetResult[dto.PostSummary]](t, rec)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "mojito-secrets", res.Items[0].Slug)
	assert.True(t, res.HasMore)

	rec = app.do(t, http.MethodGet, "/api/blog/posts?q=ROPA", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[pagination.OffsetResult[dto.PostSummary]](t, rec)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ropa-vieja-story", res.Items[0].Slug)

	rec = app.do(t, http.MethodGet, "/api/blog/posts?size=500", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/blog/posts?page=4611686018427387904&size=4", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[pagination.OffsetResult[dto.PostSummary]](t, rec)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 5, res.Total)
	assert.False(t, res.HasMore)
}

func TestBlogRouter_Detail(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/blog/posts/mojito-secrets", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decode[dto.PostDetail](t, rec)
	assert.Equal(t, "Mojito Secrets from Our Bartenders", detail.Title)
	assert.False(t, detail.Preview)
	assert.Len(t, detail.StructuredData, 2)
	assert.LessOrEqual(t, len(detail.Related), RelatedDefaultLimit)
	for _, r := range detail.Related {
		assert.NotEqual(t, "mojito-secrets", r.Slug)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "unknown", path: "/api/blog/posts/no-such-post"},
		{name: "draft in catalog", path: "/api/blog/posts/holiday-private-events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, tt.path, "", "").Code)
		})
	}
}

func TestBlogRouter_LivePostOverridesCatalog(t *testing.T) {
	app := newTestApp(t)
	_, err := app.store.Save(context.Background(), domain.Post{
		Slug:        "cuban-coffee-guide",
		Title:       "Cafecito, Revisited",
		Excerpt:     "Fresh from the live store",
		Status:      domain.StatusPublish,
		PublishedAt: time.Date(2023, 11, 8, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/api/blog/posts/cuban-coffee-guide", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[dto.PostDetail](t, rec)
	assert.Equal(t, "Cafecito, Revisited", detail.Title)
	assert.Equal(t, "Fresh from the live store", detail.Excerpt)
}

func TestBlogRouter_Preview(t *testing.T) {
	app := newTestApp(t)
	_, err := app.store.Create(context.Background(), domain.Post{
		Slug:    "new-dessert-menu",
		Title:   "New dessert menu",
		Content: "<p>flan and guava pastries</p>",
		Status:  domain.StatusDraft,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/blog/posts/new-dessert-menu", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/blog/posts/new-dessert-menu?preview=true", "", "").Code)

	token := app.login(t, "writer@elmeson.com", "mojito-writer")
	rec := app.do(t, http.MethodGet, "/api/blog/posts/new-dessert-menu?preview=true", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "noindex, nofollow", rec.Header().Get("X-Robots-Tag"))

	detail := decode[dto.PostDetail](t, rec)
	assert.True(t, detail.Preview)
	assert.True(t, detail.NoIndex)

	rec = app.do(t, http.MethodGet, "/api/blog/posts/mojito-secrets?preview=true", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code, "preview never falls back to the catalog")
}

func TestBlogRouter_Related(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		maxLen     int
	}{
		{name: "default limit", path: "/api/blog/posts/mojito-secrets/related", wantStatus: http.StatusOK, maxLen: RelatedDefaultLimit},
		{name: "custom limit", path: "/api/blog/posts/mojito-secrets/related?limit=2", wantStatus: http.StatusOK, maxLen: 2},
		{name: "unknown slug", path: "/api/blog/posts/nope/related", wantStatus: http.StatusOK, maxLen: 0},
		{name: "bad limit", path: "/api/blog/posts/mojito-secrets/related?limit=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, tt.path, "", "")
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			items := decode[[]dto.PostSummary](t, rec)
			assert.LessOrEqual(t, len(items), tt.maxLen)
			assert.NotNil(t, items)
		})
	}
}

func TestAdminRouter_Login(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/admin/login", `{"email":"pepe@elmeson.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/admin/login", `{"email":"not-an-email","password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/admin/login", `{"email":"pepe@elmeson.com","password":"sunset-admin"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(session)
	me := httptest.NewRecorder()
	app.e.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, domain.RoleAdmin, decode[dto.MeResponse](t, me).Role)

	logoutReq := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	logoutReq.AddCookie(session)
	out := httptest.NewRecorder()
	app.e.ServeHTTP(out, logoutReq)
	require.Equal(t, http.StatusNoContent, out.Code)

	again := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	again.AddCookie(session)
	after := httptest.NewRecorder()
	app.e.ServeHTTP(after, again)
	assert.Equal(t, http.StatusUnauthorized, after.Code, "revoked token is rejected")
}

func TestAdminRouter_LoginRateLimited(t *testing.T) {
	app := newTestApp(t, WithLoginRateLimit(2, time.Minute))

	body := `{"email":"pepe@elmeson.com","password":"wrong"}`
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/api/admin/login", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodPost, "/api/admin/login", body, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, app.do(t, http.MethodPost, "/api/admin/login", body, "").Code)
}

func TestAdminRouter_PostLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "writer@elmeson.com", "mojito-writer")

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/admin/posts", "", "").Code)

	rec := app.do(t, http.MethodPost, "/api/admin/posts",
		`{"title":"Guava Pastries","slug":"guava-pastries","content":"**pastelitos**","contentFormat":"markdown"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[dto.AdminPost](t, rec)
	assert.Equal(t, domain.StatusDraft, created.Status)
	assert.Equal(t, "post", created.PostType)
	assert.Contains(t, created.Content, "<strong>pastelitos</strong>")
	assert.Equal(t, "writer@elmeson.com", created.Author)

	tests := []struct {
		name string
		body string
	}{
		{name: "duplicate slug", body: `{"title":"Again","slug":"guava-pastries"}`},
		{name: "invalid slug", body: `{"title":"Bad","slug":"Guava Pastries"}`},
		{name: "missing title", body: `{"slug":"no-title"}`},
		{name: "unknown status", body: `{"title":"X","slug":"x","postStatus":"live"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/admin/posts", tt.body, token).Code)
		})
	}

	rec = app.do(t, http.MethodPut, "/api/admin/posts/"+created.ID, `{"postStatus":"publish","excerpt":"Flaky and sweet"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.AdminPost](t, rec)
	assert.Equal(t, domain.StatusPublish, updated.Status)
	assert.False(t, updated.ModifiedAt.Before(created.ModifiedAt))

	rec = app.do(t, http.MethodPut, "/api/admin/posts/"+created.ID, `{"slug":"renamed"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "published slugs are immutable")

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodPut, "/api/admin/posts/missing", `{"title":"x"}`, token).Code)

	rec = app.do(t, http.MethodGet, "/api/blog/posts/guava-pastries", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/admin/posts", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]dto.AdminPost](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, "/api/admin/posts/"+created.ID, "", token).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodDelete, "/api/admin/posts/"+created.ID, "", token).Code)
}

func TestAdminRouter_CreateAuthor(t *testing.T) {
	app := newTestApp(t)
	body := `{"email":"cook@elmeson.com","password":"ropa-vieja-123","role":"author"}`

	writer := app.login(t, "writer@elmeson.com", "mojito-writer")
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodPost, "/api/admin/authors", body, writer).Code)

	admin := app.login(t, "pepe@elmeson.com", "sunset-admin")
	rec := app.do(t, http.MethodPost, "/api/admin/authors", body, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "ropa-vieja-123")

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/admin/authors", body, admin).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/admin/authors",
		`{"email":"x@elmeson.com","password":"short","role":"author"}`, admin).Code)

	app.login(t, "cook@elmeson.com", "ropa-vieja-123")
}

func TestSiteRouter(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/site?lang=es", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[dto.SiteInfo](t, rec)
	assert.Equal(t, "es", info.Locale)
	assert.Equal(t, "410 Wall Street", info.Address.Street)
	assert.NotEmpty(t, info.Nav["menu"])
	assert.Equal(t, "Restaurant", info.StructuredData.Type)

	rec = app.do(t, http.MethodGet, "/api/pages/menu?lang=es", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "es", decode[site.Page](t, rec).Locale)

	rec = app.do(t, http.MethodGet, "/api/pages/private-events?lang=es", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", decode[site.Page](t, rec).Locale, "missing translations fall back to English")

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/pages/secret", "", "").Code)
}

func TestSiteRouter_Locale(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/locale", `{"locale":"es"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == i18n.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "es", cookie.Value)
	assert.Equal(t, i18n.CookieMaxAge, cookie.MaxAge)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/locale", `{"locale":"fr"}`, "").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/locale", nil)
	req.AddCookie(cookie)
	got := httptest.NewRecorder()
	app.e.ServeHTTP(got, req)
	assert.Equal(t, "es", decode[dto.LocaleResponse](t, got).Locale)

	rec = app.do(t, http.MethodGet, "/api/i18n?lang=es&prefix=reservations", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[dto.MessagesResponse](t, rec)
	assert.Contains(t, msgs.Messages, "reservations.waitlist")
	assert.NotContains(t, msgs.Messages, "nav.menu")
}

func TestSEORouter(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/sitemap.xml", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/xml")
	body := rec.Body.String()
	assert.Contains(t, body, "https://www.elmesondepepe.com/story/blog/cuban-coffee-guide")
	assert.NotContains(t, body, "holiday-private-events")

	rec = app.do(t, http.MethodGet, "/robots.txt", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://www.elmesondepepe.com/sitemap.xml")
}
