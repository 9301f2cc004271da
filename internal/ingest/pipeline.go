package ingest

import (
	"context"
	"fmt"
	"time"
)

// Pipeline moves collected posts into a sink.
type Pipeline interface {
	// Run consumes the collector until it is exhausted or ctx is done.
	Run(ctx context.Context) (Stats, error)
}

// BulkOptions defines common bulk processing options
type BulkOptions struct {
	Enabled bool
	Size    int
}

// PipelineConfig defines common configuration for all pipelines
type PipelineConfig struct {
	Name string
	Bulk *BulkOptions
}

type Stats struct {
	Collected int
	Written   int
	Failed    int
	Duration  time.Duration
}

func (s Stats) err(name string) error {
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%s: %d of %d posts failed", name, s.Failed, s.Collected)
}
