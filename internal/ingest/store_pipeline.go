package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/meson-site/internal/collector"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

const defaultBatchSize = 100

// StorePipeline upserts collected posts into the live store by slug.
type StorePipeline struct {
	collector collector.Collector[domain.Post]
	writer    storage.PostBulkWriter
	config    *PipelineConfig
}

type StorePipelineOption func(pipeline *StorePipeline)

func WithBulk(size int) StorePipelineOption {
	return func(pipeline *StorePipeline) {
		if size <= 0 {
			size = defaultBatchSize
		}
		pipeline.config.Bulk = &BulkOptions{Enabled: true, Size: size}
	}
}

func NewStorePipeline(c collector.Collector[domain.Post], writer storage.PostBulkWriter, opts ...StorePipelineOption) *StorePipeline {
	p := &StorePipeline{
		collector: c,
		writer:    writer,
		config: &PipelineConfig{
			Name: "store-pipeline",
			Bulk: &BulkOptions{Enabled: false, Size: defaultBatchSize},
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *StorePipeline) Run(ctx context.Context) (Stats, error) {
	start := time.Now()

	results, err := p.collector.Collect(ctx)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	if p.config.Bulk.Enabled {
		err = p.importBatch(ctx, results, &stats)
	} else {
		err = p.importBasic(ctx, results, &stats)
	}
	stats.Duration = time.Since(start)

	slog.Info("Pipeline run completed",
		"pipeline", p.config.Name,
		"collected", stats.Collected,
		"written", stats.Written,
		"failed", stats.Failed,
		"duration", stats.Duration)

	if err != nil {
		return stats, err
	}
	return stats, stats.err(p.config.Name)
}

func (p *StorePipeline) importBasic(ctx context.Context, results <-chan collector.Result[domain.Post], stats *Stats) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection")
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			stats.Collected++
			if res.Err != nil {
				stats.Failed++
				slog.Error("Error collecting post", "error", res.Err)
				continue
			}

			id, err := p.writer.Save(ctx, res.Result)
			if err != nil {
				stats.Failed++
				slog.Error("Error saving post", "error", err, "slug", res.Result.Slug)
				continue
			}
			stats.Written++
			slog.Debug("Post saved", "id", id, "slug", res.Result.Slug)
		}
	}
}

func (p *StorePipeline) importBatch(ctx context.Context, results <-chan collector.Result[domain.Post], stats *Stats) error {
	batch := make([]domain.Post, 0, p.config.Bulk.Size)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := p.writer.SaveBulk(ctx, batch); err != nil {
			stats.Failed += len(batch)
			slog.Error("Error saving bulk posts", "error", err, "count", len(batch))
		} else {
			stats.Written += len(batch)
			slog.Info("Bulk posts saved", "count", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection")
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				flush()
				return nil
			}
			stats.Collected++
			if res.Err != nil {
				stats.Failed++
				slog.Error("Error collecting post", "error", res.Err)
				continue
			}

			batch = append(batch, res.Result)
			if len(batch) >= p.config.Bulk.Size {
				flush()
			}
		}
	}
}
