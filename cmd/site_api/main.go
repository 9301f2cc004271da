// Package main El Mesón de Pepe Site API
// @title El Mesón de Pepe Site API
// @version 1.0
// @description Content and admin API of the El Mesón de Pepe restaurant website: blog, site pages, i18n and SEO.
// @contact.name Site Support
// @contact.email web@elmesondepepe.com
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	_ "github.com/DjordjeVuckovic/meson-site/docs"
	"github.com/DjordjeVuckovic/meson-site/internal/auth"
	"github.com/DjordjeVuckovic/meson-site/internal/blog"
	"github.com/DjordjeVuckovic/meson-site/internal/catalog"
	"github.com/DjordjeVuckovic/meson-site/internal/i18n"
	"github.com/DjordjeVuckovic/meson-site/internal/router"
	"github.com/DjordjeVuckovic/meson-site/internal/server"
	"github.com/DjordjeVuckovic/meson-site/internal/site"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/factory"
	"github.com/DjordjeVuckovic/meson-site/pkg/config/env"
)

func main() {
	appSettings := NewAppConfig()
	env.SetupLogger(appSettings.ENV)

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	stores, err := factory.New(context.Background(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	s := server.New(sCfg, stores.Health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "El Mesón de Pepe Site API is running")
	})

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load static catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}

	content, err := site.LoadContent()
	if err != nil {
		slog.Error("Failed to load site content", "error", err)
		os.Exit(1)
	}

	bundle, err := i18n.LoadBundle()
	if err != nil {
		slog.Error("Failed to load translations", "error", err)
		os.Exit(1)
	}

	revoker, closeRevoker, err := newRevoker(s.Context(), &cfg.AuthConfig)
	if err != nil {
		slog.Error("Failed to create token revoker", "error", err)
		os.Exit(1)
	}
	defer closeRevoker()

	if err := auth.Bootstrap(s.Context(), stores.Authors, &cfg.AuthConfig); err != nil {
		slog.Error("Failed to bootstrap admin author", "error", err)
		os.Exit(1)
	}

	authSvc := auth.NewService(
		stores.Authors,
		auth.NewJWTManager(cfg.AuthConfig.JWTSecret, cfg.AuthConfig.SessionTTL),
		revoker,
	)

	var blogOpts []blog.Option
	var adminOpts []router.AdminRouterOption
	if stores.Searcher != nil {
		blogOpts = append(blogOpts, blog.WithSearcher(stores.Searcher))
	}
	if stores.Indexer != nil {
		adminOpts = append(adminOpts, router.WithIndexer(stores.Indexer))
	}
	adminOpts = append(adminOpts, router.WithSecureCookies(sCfg.SecureCookies))

	blogSvc := blog.NewService(cat, blog.NewLiveSource(stores.Posts, blog.DefaultBreakerSettings), blogOpts...)

	router.NewBlogRouter(s.Echo, blogSvc, site.SchemaSite(cfg.SiteConfig), router.WithPreviewAuth(authSvc)).Bind()
	router.NewAdminRouter(s.Echo, stores.Posts, stores.Authors, authSvc, adminOpts...).Bind()
	router.NewSiteRouter(s.Echo, content, cfg.SiteConfig, bundle, sCfg.SecureCookies).Bind()
	router.NewSEORouter(s.Echo, blogSvc, cfg.SiteConfig.URL).Bind()

	slog.Info("Site API configured",
		"storage", cfg.StorageConfig.Type,
		"search", cfg.StorageConfig.SearchType,
		"static_posts", cat.Len())

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Embedded()
	}
	return catalog.LoadFile(path)
}

// newRevoker uses Redis when REDIS_ADDR is set and memory otherwise.
func newRevoker(ctx context.Context, cfg *auth.Config) (auth.Revoker, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("REDIS_ADDR is not set, using in-memory token revocation")
		return auth.NewMemoryRevoker(), func() {}, nil
	}

	r, err := auth.NewRedisRevoker(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { _ = r.Close() }, nil
}
