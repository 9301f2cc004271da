package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/meson-site/internal/storage"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/es"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/pg"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/sqlite"
	pkgserver "github.com/DjordjeVuckovic/meson-site/pkg/server"
)

// Stores bundles everything built from a StorageConfig. Searcher and Indexer
// are nil when no search backend is configured.
type Stores struct {
	Posts   storage.PostStore
	Authors storage.AuthorStore

	Searcher storage.PostSearcher
	Indexer  storage.PostIndexer

	Health pkgserver.HealthChecker

	closers []func()
}

func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// New creates the live store selected by cfg.Type and, when requested, the
// search index on top of it.
func New(ctx context.Context, cfg StorageConfig) (*Stores, error) {
	stores := &Stores{}

	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		storer, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		stores.Posts = storer
		stores.Authors = pg.NewAuthorStore(pool)
		stores.Health = pg.NewHealthChecker(pool)
		stores.closers = append(stores.closers, pool.Close)

	case storage.SQLite:
		if cfg.SQLite == nil {
			return nil, fmt.Errorf("missing SQLite configuration")
		}
		db, err := sqlite.Open(ctx, *cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		store := sqlite.NewPostStore(db)
		stores.Posts = store
		stores.Authors = store
		stores.Health = db
		stores.closers = append(stores.closers, func() { _ = db.Close() })

	case storage.InMem:
		store := in_mem.NewInMemStorer()
		stores.Posts = store
		stores.Authors = store
		stores.Health = pkgserver.NewOkHealthChecker()

	default:
		return nil, storage.UnsupportedTypeError(cfg.Type)
	}

	if cfg.SearchType == storage.SearchES {
		if cfg.Es == nil {
			stores.Close()
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		indexer, err := es.NewIndexer(ctx, *cfg.Es)
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("failed to create Elasticsearch indexer: %w", err)
		}
		searcher, err := es.NewSearcher(*cfg.Es)
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("failed to create Elasticsearch searcher: %w", err)
		}
		stores.Indexer = indexer
		stores.Searcher = searcher
		stores.Health = pkgserver.NewCompositeHealthChecker(
			pkgserver.NamedChecker{Name: string(cfg.Type), Checker: stores.Health},
			pkgserver.NamedChecker{Name: "elasticsearch", Checker: indexer},
		)
	}

	slog.Info("Storage initialized", "type", cfg.Type, "search", cfg.SearchType)
	return stores, nil
}
