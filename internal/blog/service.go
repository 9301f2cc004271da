package blog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/meson-site/internal/catalog"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/metrics"
	"github.com/DjordjeVuckovic/meson-site/internal/related"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
	"github.com/DjordjeVuckovic/meson-site/pkg/pagination"
)

var ErrPostNotFound = errors.New("post not found")

type Service struct {
	catalog  *catalog.Catalog
	live     *LiveSource
	searcher storage.PostSearcher
	scorer   *related.Scorer
}

type Option func(*Service)

// WithSearcher routes listing queries through a full-text index.
func WithSearcher(searcher storage.PostSearcher) Option {
	return func(s *Service) {
		s.searcher = searcher
	}
}

func WithScorer(scorer *related.Scorer) Option {
	return func(s *Service) {
		s.scorer = scorer
	}
}

func NewService(cat *catalog.Catalog, live *LiveSource, opts ...Option) *Service {
	if cat == nil {
		cat = catalog.Empty()
	}
	if live == nil {
		live = NewLiveSource(nil, DefaultBreakerSettings)
	}

	s := &Service{
		catalog: cat,
		live:    live,
		scorer:  related.NewDefaultScorer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Posts returns the merged published view, newest first.
func (s *Service) Posts(ctx context.Context) []domain.Post {
	live := s.live.Published(ctx)
	if len(live) == 0 {
		metrics.FallbackServed.WithLabelValues("list").Inc()
	}

	merged := Merge(s.catalog.Published(), live)

	posts := merged[:0]
	for _, p := range merged {
		if p.IsPublished() {
			posts = append(posts, p)
		}
	}
	related.SortByRecency(posts)
	return posts
}

// List returns one page of the merged view and the total number of matches.
// A non-empty query goes to the search index when one is configured and falls
// back to a title and excerpt filter otherwise.
func (s *Service) List(ctx context.Context, query string, page, size int) ([]domain.Post, int64) {
	if page < 1 {
		page = 1
	}
	query = strings.TrimSpace(query)

	if query != "" && s.searcher != nil {
		res, err := s.searcher.Search(ctx, query, page, size)
		if err == nil {
			return res.Hits, res.Total
		}
		slog.Error("Search index query failed, filtering merged posts", "query", query, "error", err)
	}

	posts := s.Posts(ctx)
	if query != "" {
		posts = filterPosts(posts, query)
	}

	return pagination.Slice(posts, page, size), int64(len(posts))
}

func filterPosts(posts []domain.Post, query string) []domain.Post {
	q := strings.ToLower(query)
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Excerpt), q) {
			out = append(out, p)
		}
	}
	return out
}

// Detail returns a published post from the live store, falling back to the
// static catalog.
func (s *Service) Detail(ctx context.Context, slug string) (*domain.Post, error) {
	if p, ok := s.live.BySlug(ctx, slug, false); ok && p.IsPublished() {
		return p, nil
	}

	if p, ok := s.catalog.BySlug(slug); ok && p.IsPublished() {
		metrics.FallbackServed.WithLabelValues("detail").Inc()
		return &p, nil
	}

	return nil, ErrPostNotFound
}

// Preview returns a post from the live store including drafts. The static
// catalog is not consulted.
func (s *Service) Preview(ctx context.Context, slug string) (*domain.Post, error) {
	if p, ok := s.live.BySlug(ctx, slug, true); ok {
		return p, nil
	}
	return nil, ErrPostNotFound
}

// Related ranks the merged view against the post with slug.
func (s *Service) Related(ctx context.Context, slug string, limit int) []domain.Post {
	return s.scorer.Related(s.Posts(ctx), slug, limit)
}

// RelatedTo ranks the merged view against target, which need not be part of
// it (a previewed draft, for example).
func (s *Service) RelatedTo(ctx context.Context, target domain.Post, limit int) []domain.Post {
	posts := s.Posts(ctx)

	candidates := make([]domain.Post, 0, len(posts)+1)
	candidates = append(candidates, target)
	for _, p := range posts {
		if p.Slug != target.Slug {
			candidates = append(candidates, p)
		}
	}
	return s.scorer.Related(candidates, target.Slug, limit)
}
