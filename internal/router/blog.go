package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/meson-site/internal/apperr"
	"github.com/DjordjeVuckovic/meson-site/internal/auth"
	"github.com/DjordjeVuckovic/meson-site/internal/blog"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/dto"
	"github.com/DjordjeVuckovic/meson-site/internal/related"
	"github.com/DjordjeVuckovic/meson-site/internal/schema"
	"github.com/DjordjeVuckovic/meson-site/pkg/pagination"
)

const (
	BlogPageDefaultSize = 12
	RelatedDefaultLimit = related.DefaultRelatedLimit
	RelatedMaxLimit     = 12
)

type BlogRouter struct {
	e    *echo.Echo
	blog *blog.Service
	site schema.Site
	auth *auth.Service
}

type BlogRouterOption func(*BlogRouter)

// WithPreviewAuth enables ?preview=true for authenticated authors.
func WithPreviewAuth(svc *auth.Service) BlogRouterOption {
	return func(r *BlogRouter) {
		r.auth = svc
	}
}

func NewBlogRouter(e *echo.Echo, svc *blog.Service, site schema.Site, opts ...BlogRouterOption) *BlogRouter {
	r := &BlogRouter{
		e:    e,
		blog: svc,
		site: site,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *BlogRouter) Bind() {
	g := r.e.Group("/api/blog")
	g.GET("/posts", r.listHandler)
	g.GET("/posts/:slug", r.detailHandler)
	g.GET("/posts/:slug/related", r.relatedHandler)
}

// listHandler godoc
// @Summary List blog posts
// @Description Published posts from the live store merged with the static catalog, newest first
// @Tags blog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(12)
// @Param q query string false "Search text"
// @Success 200 {object} pagination.OffsetResult[dto.PostSummary]
// @Failure 400 {object} map[string]string
// @Router /api/blog/posts [get]
func (r *BlogRouter) listHandler(c echo.Context) error {
	var req dto.ListPostsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid query parameters", err)
	}
	req.Normalize(BlogPageDefaultSize)
	if err := c.Validate(&req); err != nil {
		return err
	}

	posts, total := r.blog.List(c.Request().Context(), req.Query, req.Page, req.Size)

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(dto.NewPostSummaries(posts), total, req.Page, req.Size))
}

// detailHandler godoc
// @Summary Get a blog post
// @Description Published post by slug. With preview=true an authenticated author sees drafts from the live store.
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Param preview query bool false "Preview drafts"
// @Success 200 {object} dto.PostDetail
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/blog/posts/{slug} [get]
func (r *BlogRouter) detailHandler(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	if c.QueryParam("preview") == "true" {
		return r.previewHandler(c, slug)
	}

	post, err := r.blog.Detail(ctx, slug)
	if errors.Is(err, blog.ErrPostNotFound) {
		return apperr.NewNotFound("post", slug)
	}
	if err != nil {
		return err
	}

	relatedPosts := r.blog.Related(ctx, slug, RelatedDefaultLimit)
	return c.JSON(http.StatusOK, dto.NewPostDetail(*post, relatedPosts, r.structuredData(*post), false))
}

func (r *BlogRouter) previewHandler(c echo.Context, slug string) error {
	if r.auth == nil {
		return apperr.NewUnauthorized("preview is not available")
	}

	ctx := c.Request().Context()
	claims, err := r.auth.Authenticate(ctx, auth.TokenFromRequest(c.Request()))
	if err != nil || !claims.Role.CanAuthor() {
		return apperr.NewUnauthorized("preview requires an authenticated author")
	}

	post, err := r.blog.Preview(ctx, slug)
	if errors.Is(err, blog.ErrPostNotFound) {
		return apperr.NewNotFound("post", slug)
	}
	if err != nil {
		return err
	}

	c.Response().Header().Set("X-Robots-Tag", "noindex, nofollow")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")

	relatedPosts := r.blog.RelatedTo(ctx, *post, RelatedDefaultLimit)
	return c.JSON(http.StatusOK, dto.NewPostDetail(*post, relatedPosts, r.structuredData(*post), true))
}

// relatedHandler godoc
// @Summary Related posts
// @Description Posts ranked by keyword overlap with the given post. Unknown slugs yield an empty list.
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Param limit query int false "Maximum results" default(4)
// @Success 200 {array} dto.PostSummary
// @Router /api/blog/posts/{slug}/related [get]
func (r *BlogRouter) relatedHandler(c echo.Context) error {
	limit := RelatedDefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return apperr.NewValidation("limit must be a positive integer")
		}
		limit = min(n, RelatedMaxLimit)
	}

	relatedPosts := r.blog.Related(c.Request().Context(), c.Param("slug"), limit)
	return c.JSON(http.StatusOK, dto.NewPostSummaries(relatedPosts))
}

func (r *BlogRouter) structuredData(p domain.Post) []any {
	path := dto.PostPath(p.Slug)
	article := schema.NewArticle(r.site, schema.ArticleInput{
		Headline:      p.Title,
		Description:   blog.Excerpt(p, blog.ExcerptMaxLength),
		Image:         blog.FeaturedImage(p),
		Path:          path,
		Author:        p.Author,
		DatePublished: p.PublishedAt,
		DateModified:  p.LastModified(),
	})
	crumbs := schema.NewBreadcrumbs(r.site,
		schema.Crumb{Name: "Home", Path: "/"},
		schema.Crumb{Name: "Blog", Path: "/story/blog"},
		schema.Crumb{Name: p.Title, Path: path},
	)
	return []any{article, crumbs}
}
