package es

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	pkgtesting "github.com/DjordjeVuckovic/meson-site/pkg/testing"
)

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr bool
	}{
		{name: "valid", cfg: ClientConfig{Addresses: []string{"http://localhost:9200"}, IndexName: "posts"}},
		{name: "no addresses", cfg: ClientConfig{IndexName: "posts"}, wantErr: true},
		{name: "empty address", cfg: ClientConfig{Addresses: []string{""}, IndexName: "posts"}, wantErr: true},
		{name: "no index", cfg: ClientConfig{Addresses: []string{"http://localhost:9200"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name           string
		page, size     int
		wantFrom, want int
	}{
		{name: "first page", page: 1, size: 12, wantFrom: 0, want: 12},
		{name: "third page", page: 3, size: 10, wantFrom: 20, want: 10},
		{name: "last page in window", page: 1000, size: 10, wantFrom: 9990, want: 10},
		{name: "past window", page: 1001, size: 10, wantFrom: 0, want: 0},
		{name: "huge page", page: 1 << 62, size: 4, wantFrom: 0, want: 0},
		{name: "no size", page: 2, size: 0, wantFrom: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, size := pageWindow(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.want, size)
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	p := domain.Post{
		ID:          "7",
		Slug:        "flan",
		Title:       "Flan",
		Status:      domain.StatusPublish,
		PostType:    "post",
		Tags:        []string{"dessert"},
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	p.Normalize()

	doc := toDocument(p)
	assert.Equal(t, "publish", doc.Status)
	assert.False(t, doc.IndexedAt.IsZero())

	assert.Equal(t, p, doc.toPost())
}

func TestIndexerAndSearcher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping elasticsearch integration test in short mode")
	}

	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)
	cfg := ClientConfig{Addresses: []string{container.Address}, IndexName: "posts_test"}

	indexer, err := NewIndexer(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, indexer.Healthy(ctx))
	searcher, err := NewSearcher(cfg)
	require.NoError(t, err)

	posts := []domain.Post{
		{ID: "1", Slug: "sunset-mojitos", Title: "Sunset Mojitos", Content: "<p><strong>fresh</strong> mint and rum</p>",
			Status: domain.StatusPublish, PublishedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Slug: "ropa-vieja", Title: "Ropa Vieja", Content: "<p>braised beef</p>",
			Status: domain.StatusPublish, PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "3", Slug: "mojito-draft", Title: "Mojito draft", Content: "mojito",
			Status: domain.StatusDraft, PublishedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, indexer.IndexBulk(ctx, posts))

	res, err := searcher.Search(ctx, "mojitos", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "sunset-mojitos", res.Hits[0].Slug)
	assert.EqualValues(t, 1, res.Total)

	res, err = searcher.Search(ctx, "strong", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Hits, "markup is stripped before indexing")

	require.NoError(t, indexer.Remove(ctx, "1"))
	require.NoError(t, indexer.Remove(ctx, "does-not-exist"))

	res, err = searcher.Search(ctx, "mojitos", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	draft := posts[1]
	draft.Status = domain.StatusDraft
	require.NoError(t, indexer.Index(ctx, draft))

	res, err = searcher.Search(ctx, "beef", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	require.NoError(t, indexer.Reset(ctx))
}
