package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/meson-site/internal/auth"
	"github.com/DjordjeVuckovic/meson-site/internal/site"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/factory"
	"github.com/DjordjeVuckovic/meson-site/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type SiteAPIConfig struct {
	StorageConfig factory.StorageConfig
	AuthConfig    auth.Config
	SiteConfig    site.Config
	// CatalogPath overrides the embedded static catalog when set.
	CatalogPath string
}

func (as *AppConfig) Load() (*SiteAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/site_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	authCfg, err := auth.LoadEnv()
	if err != nil {
		slog.Error("Failed to load auth configuration from environment", "error", err)
		return nil, err
	}

	siteCfg, err := site.LoadEnv()
	if err != nil {
		slog.Error("Failed to load site configuration from environment", "error", err)
		return nil, err
	}

	return &SiteAPIConfig{
		StorageConfig: *storageCfg,
		AuthConfig:    *authCfg,
		SiteConfig:    *siteCfg,
		CatalogPath:   os.Getenv("CATALOG_PATH"),
	}, nil
}
