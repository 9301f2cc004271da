package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/meson-site/internal/blog"
	"github.com/DjordjeVuckovic/meson-site/internal/sitemap"
)

type SEORouter struct {
	e       *echo.Echo
	blog    *blog.Service
	baseURL string
	now     func() time.Time
}

func NewSEORouter(e *echo.Echo, svc *blog.Service, baseURL string) *SEORouter {
	return &SEORouter{
		e:       e,
		blog:    svc,
		baseURL: baseURL,
		now:     time.Now,
	}
}

func (r *SEORouter) Bind() {
	r.e.GET("/sitemap.xml", r.sitemapHandler)
	r.e.GET("/robots.txt", r.robotsHandler)
}

// sitemapHandler godoc
// @Summary Sitemap
// @Description Static routes plus one entry per published blog post
// @Tags seo
// @Produce xml
// @Success 200 {string} string
// @Router /sitemap.xml [get]
func (r *SEORouter) sitemapHandler(c echo.Context) error {
	set := sitemap.Build(r.baseURL, r.now(), r.blog.Posts(c.Request().Context()))

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationXMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return set.Encode(c.Response())
}

// robotsHandler godoc
// @Summary robots.txt
// @Tags seo
// @Produce plain
// @Success 200 {string} string
// @Router /robots.txt [get]
func (r *SEORouter) robotsHandler(c echo.Context) error {
	return c.String(http.StatusOK, sitemap.Robots(r.baseURL))
}
