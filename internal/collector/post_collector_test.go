package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

func TestPostCollector_Collect(t *testing.T) {
	posts := []domain.Post{
		{ID: "1", Slug: "mojito-secrets", Status: "published"},
		{ID: "2"},
		{ID: "3", Slug: "flan", Status: domain.StatusDraft},
	}

	results, err := NewPostCollector(posts).Collect(context.Background())
	require.NoError(t, err)

	var got []domain.Post
	var errs []error
	for res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		got = append(got, res.Result)
	}

	require.Len(t, got, 2)
	assert.Equal(t, domain.StatusPublish, got[0].Status, "posts are normalized")
	assert.Equal(t, "post", got[0].PostType)
	assert.Equal(t, "flan", got[1].Slug)

	require.Len(t, errs, 1)
	var missing *MissingSlugError
	assert.True(t, errors.As(errs[0], &missing))
	assert.Equal(t, "2", missing.ID)
}

func TestPostCollector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewPostCollector([]domain.Post{{Slug: "a"}, {Slug: "b"}}).Collect(ctx)
	require.NoError(t, err)

	n := 0
	for range results {
		n++
	}
	assert.LessOrEqual(t, n, 2)
}
