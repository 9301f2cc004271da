package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/meson-site/internal/blog"
	"github.com/DjordjeVuckovic/meson-site/internal/catalog"
	"github.com/DjordjeVuckovic/meson-site/internal/collector"
	"github.com/DjordjeVuckovic/meson-site/internal/ingest"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/factory"
)

type indexResetter interface {
	Reset(ctx context.Context) error
}

func newReindexCmd(app *AppConfig) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the merged published posts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadImportCatalog(&importOptions{file: catalogPath})
			if err != nil {
				return err
			}

			stores, err := app.openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			return runReindex(cmd.Context(), stores, cat, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "JSON catalog used instead of the embedded one")

	return cmd
}

func runReindex(ctx context.Context, stores *factory.Stores, cat *catalog.Catalog, out io.Writer) error {
	if stores.Indexer == nil {
		return fmt.Errorf("no search index configured, set SEARCH_TYPE=es")
	}

	if r, ok := stores.Indexer.(indexResetter); ok {
		if err := r.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset index: %w", err)
		}
	}

	svc := blog.NewService(cat, blog.NewLiveSource(stores.Posts, blog.DefaultBreakerSettings))
	posts := svc.Posts(ctx)

	stats, err := ingest.NewIndexPipeline(collector.NewPostCollector(posts), stores.Indexer).Run(ctx)
	fmt.Fprintf(out, "index: collected=%d written=%d failed=%d in %s\n",
		stats.Collected, stats.Written, stats.Failed, stats.Duration)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}
