package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/meson-site/internal/collector"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

const defaultIndexBatchSize = 500

// IndexPipeline feeds collected posts to the search index. The indexer keeps
// only published posts.
type IndexPipeline struct {
	collector collector.Collector[domain.Post]
	indexer   storage.PostIndexer
	config    *PipelineConfig
}

type IndexPipelineOption func(pipeline *IndexPipeline)

func WithIndexBulk(size int) IndexPipelineOption {
	return func(pipeline *IndexPipeline) {
		if size <= 0 {
			size = defaultIndexBatchSize
		}
		pipeline.config.Bulk = &BulkOptions{Enabled: true, Size: size}
	}
}

func NewIndexPipeline(c collector.Collector[domain.Post], indexer storage.PostIndexer, opts ...IndexPipelineOption) *IndexPipeline {
	p := &IndexPipeline{
		collector: c,
		indexer:   indexer,
		config: &PipelineConfig{
			Name: "index-pipeline",
			Bulk: &BulkOptions{Enabled: false, Size: defaultIndexBatchSize},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *IndexPipeline) Run(ctx context.Context) (Stats, error) {
	start := time.Now()

	results, err := p.collector.Collect(ctx)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	batch := make([]domain.Post, 0, p.config.Bulk.Size)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := p.indexer.IndexBulk(ctx, batch); err != nil {
			stats.Failed += len(batch)
			slog.Error("Error indexing posts", "error", err, "count", len(batch))
		} else {
			stats.Written += len(batch)
		}
		batch = batch[:0]
	}

loop:
	for {
		select {
		case <-ctx.Done():
			stats.Duration = time.Since(start)
			return stats, ctx.Err()
		case res, ok := <-results:
			if !ok {
				break loop
			}
			stats.Collected++
			if res.Err != nil {
				stats.Failed++
				slog.Error("Error collecting post", "error", res.Err)
				continue
			}

			if !p.config.Bulk.Enabled {
				if err := p.indexer.Index(ctx, res.Result); err != nil {
					stats.Failed++
					slog.Error("Error indexing post", "error", err, "slug", res.Result.Slug)
					continue
				}
				stats.Written++
				continue
			}

			batch = append(batch, res.Result)
			if len(batch) >= p.config.Bulk.Size {
				flush()
			}
		}
	}
	flush()

	stats.Duration = time.Since(start)
	slog.Info("Pipeline run completed",
		"pipeline", p.config.Name,
		"collected", stats.Collected,
		"indexed", stats.Written,
		"failed", stats.Failed,
		"duration", stats.Duration)

	return stats, stats.err(p.config.Name)
}
