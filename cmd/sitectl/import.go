package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/meson-site/internal/catalog"
	"github.com/DjordjeVuckovic/meson-site/internal/collector"
	"github.com/DjordjeVuckovic/meson-site/internal/ingest"
	"github.com/DjordjeVuckovic/meson-site/internal/storage/factory"
)

type importOptions struct {
	file        string
	markdownDir string
	bulkSize    int
}

func newImportCmd(app *AppConfig) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a post catalog into the live store",
		Long: `Loads a JSON catalog (--file) or a directory of markdown posts (--markdown),
upserts every post by slug into the live store and, when a search index is
configured, indexes the published ones. Without flags the embedded catalog
is imported.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.file != "" && opts.markdownDir != "" {
				return errors.New("--file and --markdown are mutually exclusive")
			}

			cat, err := loadImportCatalog(opts)
			if err != nil {
				return err
			}

			stores, err := app.openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			return runImport(cmd.Context(), stores, cat, opts.bulkSize, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "path of a JSON post catalog")
	cmd.Flags().StringVar(&opts.markdownDir, "markdown", "", "directory of markdown posts with front matter")
	cmd.Flags().IntVar(&opts.bulkSize, "bulk-size", 100, "posts written per batch, 0 writes one by one")

	return cmd
}

func loadImportCatalog(opts *importOptions) (*catalog.Catalog, error) {
	switch {
	case opts.file != "":
		return catalog.LoadFile(opts.file)
	case opts.markdownDir != "":
		info, err := os.Stat(opts.markdownDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open markdown directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", opts.markdownDir)
		}
		return catalog.LoadMarkdownDir(os.DirFS(opts.markdownDir))
	default:
		return catalog.Embedded()
	}
}

func runImport(ctx context.Context, stores *factory.Stores, cat *catalog.Catalog, bulkSize int, out io.Writer) error {
	posts := cat.All()
	slog.Info("Importing catalog", "posts", len(posts), "bulk_size", bulkSize)

	var storeOpts []ingest.StorePipelineOption
	if bulkSize > 0 {
		storeOpts = append(storeOpts, ingest.WithBulk(bulkSize))
	}

	stats, err := ingest.NewStorePipeline(collector.NewPostCollector(posts), stores.Posts, storeOpts...).Run(ctx)
	fmt.Fprintf(out, "store: collected=%d written=%d failed=%d in %s\n",
		stats.Collected, stats.Written, stats.Failed, stats.Duration)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if stores.Indexer == nil {
		return nil
	}

	stats, err = ingest.NewIndexPipeline(collector.NewPostCollector(posts), stores.Indexer).Run(ctx)
	fmt.Fprintf(out, "index: collected=%d written=%d failed=%d in %s\n",
		stats.Collected, stats.Written, stats.Failed, stats.Duration)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return nil
}
