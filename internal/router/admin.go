package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/meson-site/internal/apperr"
	"github.com/DjordjeVuckovic/meson-site/internal/auth"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/dto"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
	"github.com/DjordjeVuckovic/meson-site/pkg/markdown"
)

const (
	LoginRequestLimit = 5
	LoginWindow       = time.Minute
)

type AdminRouter struct {
	e        *echo.Echo
	posts    storage.PostStore
	authors  storage.AuthorStore
	auth     *auth.Service
	indexer  storage.PostIndexer
	renderer dto.ContentRenderer

	secureCookies bool
	loginLimit    int
	loginWindow   time.Duration
}

type AdminRouterOption func(*AdminRouter)

// WithIndexer keeps the search index in sync with authoring changes.
func WithIndexer(indexer storage.PostIndexer) AdminRouterOption {
	return func(r *AdminRouter) {
		r.indexer = indexer
	}
}

func WithSecureCookies(secure bool) AdminRouterOption {
	return func(r *AdminRouter) {
		r.secureCookies = secure
	}
}

func WithLoginRateLimit(limit int, window time.Duration) AdminRouterOption {
	return func(r *AdminRouter) {
		r.loginLimit = limit
		r.loginWindow = window
	}
}

func NewAdminRouter(
	e *echo.Echo,
	posts storage.PostStore,
	authors storage.AuthorStore,
	authSvc *auth.Service,
	opts ...AdminRouterOption,
) *AdminRouter {
	r := &AdminRouter{
		e:             e,
		posts:         posts,
		authors:       authors,
		auth:          authSvc,
		renderer:      markdown.NewRenderer(),
		secureCookies: true,
		loginLimit:    LoginRequestLimit,
		loginWindow:   LoginWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *AdminRouter) Bind() {
	g := r.e.Group("/api/admin")
	g.POST("/login", r.loginHandler, echo.WrapMiddleware(httprate.LimitByIP(r.loginLimit, r.loginWindow)))

	authed := g.Group("", r.auth.Middleware(), auth.RequireRole(domain.RoleAdmin, domain.RoleAuthor))
	authed.POST("/logout", r.logoutHandler)
	authed.GET("/me", r.meHandler)
	authed.GET("/posts", r.listPostsHandler)
	authed.POST("/posts", r.createPostHandler)
	authed.PUT("/posts/:id", r.updatePostHandler)
	authed.DELETE("/posts/:id", r.deletePostHandler)
	authed.POST("/authors", r.createAuthorHandler, auth.RequireRole(domain.RoleAdmin))
}

// loginHandler godoc
// @Summary Admin login
// @Description Issues a session token, also set as an HttpOnly cookie. Rate limited per IP.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 429 {string} string
// @Router /api/admin/login [post]
func (r *AdminRouter) loginHandler(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid login request", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := r.auth.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return apperr.NewUnauthorized(err.Error())
	}
	if err != nil {
		return err
	}

	c.SetCookie(auth.SessionCookie(session.Token, r.auth.SessionTTL(), r.secureCookies))
	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     session.Token,
		Email:     session.Claims.Email,
		Role:      session.Claims.Role,
		ExpiresAt: session.Claims.ExpiresAt.Time,
	})
}

// logoutHandler godoc
// @Summary Admin logout
// @Description Revokes the current session token and clears the cookie
// @Tags admin
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /api/admin/logout [post]
func (r *AdminRouter) logoutHandler(c echo.Context) error {
	claims, _ := auth.ClaimsFrom(c)
	if err := r.auth.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	c.SetCookie(auth.ClearedCookie(r.secureCookies))
	return c.NoContent(http.StatusNoContent)
}

// meHandler godoc
// @Summary Current author
// @Tags admin
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} map[string]string
// @Router /api/admin/me [get]
func (r *AdminRouter) meHandler(c echo.Context) error {
	claims, _ := auth.ClaimsFrom(c)
	return c.JSON(http.StatusOK, dto.MeResponse{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	})
}

// listPostsHandler godoc
// @Summary List all posts
// @Description Every live-store post, drafts included, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} dto.AdminPost
// @Failure 401 {object} map[string]string
// @Router /api/admin/posts [get]
func (r *AdminRouter) listPostsHandler(c echo.Context) error {
	posts, err := r.posts.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewAdminPosts(posts))
}

// createPostHandler godoc
// @Summary Create a post
// @Description Status defaults to draft. contentFormat=markdown renders the content to HTML.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.AdminPost
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/admin/posts [post]
func (r *AdminRouter) createPostHandler(c echo.Context) error {
	var req dto.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid post", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := req.ToPost(r.renderer)
	if err != nil {
		return apperr.NewValidationWrap("invalid post content", err)
	}
	if post.Author == "" {
		if claims, ok := auth.ClaimsFrom(c); ok {
			post.Author = claims.Email
		}
	}

	ctx := c.Request().Context()
	created, err := r.posts.Create(ctx, post)
	if errors.Is(err, storage.ErrSlugTaken) {
		return apperr.NewValidation("slug already taken")
	}
	if err != nil {
		return err
	}

	slog.Info("Post created", "id", created.ID, "slug", created.Slug, "status", created.Status)
	r.syncIndex(ctx, *created)
	return c.JSON(http.StatusCreated, dto.NewAdminPost(*created))
}

// updatePostHandler godoc
// @Summary Update a post
// @Description Partial update. Published posts keep their slug.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Post id"
// @Param request body dto.UpdatePostRequest true "Changed fields"
// @Success 200 {object} dto.AdminPost
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/admin/posts/{id} [put]
func (r *AdminRouter) updatePostHandler(c echo.Context) error {
	id := c.Param("id")

	var req dto.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid post", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	current, err := r.posts.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("post", id)
	}
	if err != nil {
		return err
	}
	if req.Slug != nil && *req.Slug != current.Slug && current.IsPublished() {
		return apperr.NewValidation("slug of a published post cannot change")
	}

	patch, err := req.ToPatch(r.renderer)
	if err != nil {
		return apperr.NewValidationWrap("invalid post content", err)
	}

	updated, err := r.posts.Update(ctx, id, patch)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NewNotFound("post", id)
	case errors.Is(err, storage.ErrSlugTaken):
		return apperr.NewValidation("slug already taken")
	case err != nil:
		return err
	}

	slog.Info("Post updated", "id", updated.ID, "slug", updated.Slug, "status", updated.Status)
	r.syncIndex(ctx, *updated)
	return c.JSON(http.StatusOK, dto.NewAdminPost(*updated))
}

// deletePostHandler godoc
// @Summary Delete a post
// @Tags admin
// @Param id path string true "Post id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/admin/posts/{id} [delete]
func (r *AdminRouter) deletePostHandler(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	err := r.posts.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("post", id)
	}
	if err != nil {
		return err
	}

	slog.Info("Post deleted", "id", id)
	if r.indexer != nil {
		if err := r.indexer.Remove(ctx, id); err != nil {
			slog.Warn("Failed to remove post from search index", "id", id, "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// createAuthorHandler godoc
// @Summary Create an author
// @Description Admin only
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateAuthorRequest true "Author"
// @Success 201 {object} domain.Author
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/admin/authors [post]
func (r *AdminRouter) createAuthorHandler(c echo.Context) error {
	var req dto.CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid author", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	created, err := r.authors.CreateAuthor(c.Request().Context(), domain.Author{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	})
	if errors.Is(err, storage.ErrEmailTaken) {
		return apperr.NewValidation("email already taken")
	}
	if err != nil {
		return err
	}

	slog.Info("Author created", "email", created.Email, "role", created.Role)
	return c.JSON(http.StatusCreated, created)
}

// syncIndex mirrors a write into the search index. Failures are only logged.
func (r *AdminRouter) syncIndex(ctx context.Context, post domain.Post) {
	if r.indexer == nil {
		return
	}
	if err := r.indexer.Index(ctx, post); err != nil {
		slog.Warn("Failed to sync post to search index", "id", post.ID, "slug", post.Slug, "error", err)
	}
}
