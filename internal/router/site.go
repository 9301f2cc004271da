package router

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/meson-site/internal/apperr"
	"github.com/DjordjeVuckovic/meson-site/internal/dto"
	"github.com/DjordjeVuckovic/meson-site/internal/i18n"
	"github.com/DjordjeVuckovic/meson-site/internal/site"
)

type SiteRouter struct {
	e             *echo.Echo
	content       *site.Content
	cfg           site.Config
	bundle        *i18n.Bundle
	secureCookies bool
}

func NewSiteRouter(e *echo.Echo, content *site.Content, cfg site.Config, bundle *i18n.Bundle, secureCookies bool) *SiteRouter {
	return &SiteRouter{
		e:             e,
		content:       content,
		cfg:           cfg,
		bundle:        bundle,
		secureCookies: secureCookies,
	}
}

func (r *SiteRouter) Bind() {
	g := r.e.Group("/api")
	g.GET("/site", r.siteHandler)
	g.GET("/pages/:name", r.pageHandler)
	g.GET("/locale", r.getLocaleHandler)
	g.POST("/locale", r.setLocaleHandler)
	g.GET("/i18n", r.messagesHandler)
}

// siteHandler godoc
// @Summary Site information
// @Description Localized contact details, hours, widget settings and Restaurant JSON-LD
// @Tags site
// @Produce json
// @Param lang query string false "Locale (en, es)"
// @Success 200 {object} dto.SiteInfo
// @Router /api/site [get]
func (r *SiteRouter) siteHandler(c echo.Context) error {
	l := i18n.Resolve(c.Request())
	facts := r.content.Facts

	return c.JSON(http.StatusOK, dto.SiteInfo{
		Locale:         string(l),
		Name:           r.cfg.Name,
		Description:    r.content.Description(l),
		URL:            r.cfg.URL,
		Logo:           r.cfg.Logo,
		Phone:          facts.Phone,
		Email:          facts.Email,
		Address:        facts.Address,
		Geo:            facts.Geo,
		Hours:          facts.Hours,
		GoogleMapsURL:  r.cfg.GoogleMapsURL,
		Widgets:        r.cfg.Widgets,
		SameAs:         facts.SameAs,
		Nav:            stripPrefix(r.bundle.Messages(l, "nav"), "nav."),
		StructuredData: r.content.Restaurant(r.cfg),
	})
}

// pageHandler godoc
// @Summary Static page
// @Description Localized content of menu, hours, location, careers or private-events
// @Tags site
// @Produce json
// @Param name path string true "Page name"
// @Param lang query string false "Locale (en, es)"
// @Success 200 {object} site.Page
// @Failure 404 {object} map[string]string
// @Router /api/pages/{name} [get]
func (r *SiteRouter) pageHandler(c echo.Context) error {
	name := c.Param("name")
	if !slices.Contains(site.PageNames, name) {
		return apperr.NewNotFound("page", name)
	}

	page, ok := r.content.Page(i18n.Resolve(c.Request()), name)
	if !ok {
		return apperr.NewNotFound("page", name)
	}
	return c.JSON(http.StatusOK, page)
}

// getLocaleHandler godoc
// @Summary Current locale
// @Tags site
// @Produce json
// @Success 200 {object} dto.LocaleResponse
// @Router /api/locale [get]
func (r *SiteRouter) getLocaleHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, localeResponse(i18n.Resolve(c.Request())))
}

// setLocaleHandler godoc
// @Summary Choose locale
// @Description Persists the locale in a cookie for one year
// @Tags site
// @Accept json
// @Produce json
// @Param request body dto.LocaleRequest true "Locale"
// @Success 200 {object} dto.LocaleResponse
// @Failure 400 {object} map[string]string
// @Router /api/locale [post]
func (r *SiteRouter) setLocaleHandler(c echo.Context) error {
	var req dto.LocaleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid locale request", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	l, ok := i18n.Parse(req.Locale)
	if !ok {
		return apperr.NewValidation("unsupported locale")
	}

	cookie := i18n.Cookie(l)
	cookie.Secure = r.secureCookies
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, localeResponse(l))
}

// messagesHandler godoc
// @Summary Translations
// @Description Translation table of the request locale, missing keys filled from English
// @Tags site
// @Produce json
// @Param lang query string false "Locale (en, es)"
// @Param prefix query string false "Dotted key prefix"
// @Success 200 {object} dto.MessagesResponse
// @Router /api/i18n [get]
func (r *SiteRouter) messagesHandler(c echo.Context) error {
	l := i18n.Resolve(c.Request())
	return c.JSON(http.StatusOK, dto.MessagesResponse{
		Locale:   string(l),
		Messages: r.bundle.Messages(l, c.QueryParam("prefix")),
	})
}

func localeResponse(l i18n.Locale) dto.LocaleResponse {
	supported := make([]string, 0, len(i18n.Supported))
	for _, s := range i18n.Supported {
		supported = append(supported, string(s))
	}
	return dto.LocaleResponse{Locale: string(l), Supported: supported}
}

func stripPrefix(m map[string]string, prefix string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.TrimPrefix(k, prefix)] = v
	}
	return out
}
