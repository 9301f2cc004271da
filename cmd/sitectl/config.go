package main

import (
	"context"
	"log/slog"
	"os"

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

type SitectlConfig struct {
	StorageConfig factory.StorageConfig
}

func (as *AppConfig) Load() (*SitectlConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/sitectl/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &SitectlConfig{
		StorageConfig: *storageCfg,
	}, nil
}

// openStores loads the configuration and opens the configured stores. The
// caller closes them.
func (as *AppConfig) openStores(ctx context.Context) (*factory.Stores, error) {
	cfg, err := as.Load()
	if err != nil {
		return nil, err
	}
	return factory.New(ctx, cfg.StorageConfig)
}
