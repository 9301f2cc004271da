// Package blog serves the merged blog view: the live store overlaid on the
// bundled static catalog.
package blog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/metrics"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

const liveStoreBreaker = "live-store"

type BreakerSettings struct {
	Interval       time.Duration
	Timeout        time.Duration
	MaxRequests    uint32
	FailuresToTrip uint32
}

var DefaultBreakerSettings = BreakerSettings{
	Interval:       time.Minute,
	Timeout:        30 * time.Second,
	MaxRequests:    1,
	FailuresToTrip: 5,
}

// LiveSource reads from the live store on a best-effort basis. Failures are
// logged, counted and turned into empty results; they never reach callers.
type LiveSource struct {
	reader storage.PostReader
	cb     *gobreaker.CircuitBreaker[any]
}

// NewLiveSource wraps reader. A nil reader behaves as an always-empty store.
func NewLiveSource(reader storage.PostReader, settings BreakerSettings) *LiveSource {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        liveStoreBreaker,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailuresToTrip
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, storage.ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.RecordBreakerTransition(name, from, to)
		},
	})

	return &LiveSource{reader: reader, cb: cb}
}

// Published returns published posts from the live store, most recent first.
func (s *LiveSource) Published(ctx context.Context) []domain.Post {
	if s.reader == nil {
		return []domain.Post{}
	}

	posts, err := execute(s.cb, func() ([]domain.Post, error) {
		return s.reader.ListPublished(ctx)
	})
	if err != nil {
		s.fail("list_published", err)
		return []domain.Post{}
	}
	if posts == nil {
		return []domain.Post{}
	}
	return posts
}

// BySlug looks a post up in the live store. The second value is false when the
// post does not exist or the store could not be reached.
func (s *LiveSource) BySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, bool) {
	if s.reader == nil {
		return nil, false
	}

	post, err := execute(s.cb, func() (*domain.Post, error) {
		return s.reader.GetBySlug(ctx, slug, includeDrafts)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.fail("get_by_slug", err)
		return nil, false
	}
	return post, post != nil
}

func (s *LiveSource) fail(op string, err error) {
	slog.Error("Live store read failed, serving static catalog", "operation", op, "error", err)
	metrics.LiveStoreFailures.WithLabelValues(op).Inc()
}

func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}
