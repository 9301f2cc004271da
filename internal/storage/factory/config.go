package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/meson-site/internal/storage"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/es"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/pg"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/sqlite"
	"github.com/DjordjeVuckovic/meson-site/pkg/stringsutil"
)

const defaultSQLitePath = "data/site.db"

type StorageConfig struct {
	storage.Type
	SearchType storage.SearchType

	Pg     *pg.PoolConfig
	SQLite *sqlite.Config
	Es     *es.ClientConfig
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if !slices.Contains(storage.SupportedTypes, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.SupportedTypes)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.PG:
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	case storage.SQLite:
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = defaultSQLitePath
		}
		cfg.SQLite = &sqlite.Config{Path: path}
	}

	searchType := storage.SearchType(strings.ToLower(os.Getenv("SEARCH_TYPE")))
	switch searchType {
	case storage.SearchNone:
	case storage.SearchES:
		cfg.SearchType = searchType
		cfg.Es = &es.ClientConfig{
			Addresses: stringsutil.SplitList(os.Getenv("ES_ADDRESSES")),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if cfg.Es.IndexName == "" {
			cfg.Es.IndexName = es.DefaultIndexName
		}
		if err := cfg.Es.Validate(); err != nil {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses, "indexName", cfg.Es.IndexName)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid SEARCH_TYPE environment variable value: %s, expected %q or empty", searchType, storage.SearchES)
	}

	return cfg, nil
}
