package collector

import (
	"context"
	"log/slog"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

// PostCollector streams posts that are already loaded, such as a catalog
// snapshot or the merged published view.
type PostCollector struct {
	posts []domain.Post
}

func NewPostCollector(posts []domain.Post) *PostCollector {
	return &PostCollector{posts: posts}
}

func (pc *PostCollector) Collect(ctx context.Context) (<-chan Result[domain.Post], error) {
	results := make(chan Result[domain.Post])

	go func() {
		defer close(results)

		for _, p := range pc.posts {
			p.Normalize()

			var res Result[domain.Post]
			if p.Slug == "" {
				res.Err = &MissingSlugError{ID: p.ID}
			} else {
				res.Result = p
			}

			select {
			case <-ctx.Done():
				slog.Info("Post collection cancelled")
				return
			case results <- res:
			}
		}
	}()

	return results, nil
}

type MissingSlugError struct {
	ID string
}

func (e *MissingSlugError) Error() string {
	return "post " + e.ID + " has no slug"
}
