package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

func newTestStore() *InMemStorer {
	s := NewInMemStorer()
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestInMemStorer_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	older, err := s.Create(ctx, domain.Post{Slug: "older", Title: "Older", Status: domain.StatusPublish,
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.NotEmpty(t, older.ID)

	newer, err := s.Create(ctx, domain.Post{Slug: "newer", Title: "Newer", Status: domain.StatusPublish,
		PublishedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	_, err = s.Create(ctx, domain.Post{Slug: "draft", Title: "Draft", Status: domain.StatusDraft})
	require.NoError(t, err)

	_, err = s.Create(ctx, domain.Post{Slug: "newer", Title: "Dup"})
	assert.ErrorIs(t, err, storage.ErrSlugTaken)

	published, err := s.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, newer.Slug, published[0].Slug)
	assert.Equal(t, older.Slug, published[1].Slug)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.GetBySlug(ctx, "draft", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	draft, err := s.GetBySlug(ctx, "draft", true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, draft.Status)
	assert.Equal(t, s.now(), draft.PublishedAt)
}

func TestInMemStorer_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	p, err := s.Create(ctx, domain.Post{Slug: "flan", Title: "Flan", Status: domain.StatusDraft,
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = s.Create(ctx, domain.Post{Slug: "taken", Title: "Taken"})
	require.NoError(t, err)

	title := "Caramel flan"
	updated, err := s.Update(ctx, p.ID, domain.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Caramel flan", updated.Title)
	assert.Equal(t, s.now(), updated.ModifiedAt)

	taken := "taken"
	_, err = s.Update(ctx, p.ID, domain.PostPatch{Slug: &taken})
	assert.ErrorIs(t, err, storage.ErrSlugTaken)

	_, err = s.Update(ctx, "missing", domain.PostPatch{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), storage.ErrNotFound)
}

func TestInMemStorer_SaveBulkUpsertsBySlug(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	id, err := s.Save(ctx, domain.Post{ID: "1", Slug: "flan", Title: "Flan", Status: domain.StatusPublish})
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	require.NoError(t, s.SaveBulk(ctx, []domain.Post{
		{ID: "99", Slug: "flan", Title: "Flan v2", Status: domain.StatusPublish},
		{Slug: "mojito", Title: "Mojito", Status: domain.StatusPublish},
	}))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	flan, err := s.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Flan v2", flan.Title)
}

func TestInMemStorer_SaveKeepsPostsWithCollidingIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Save(ctx, domain.Post{ID: "7", Slug: "flan", Title: "Flan", Status: domain.StatusPublish})
	require.NoError(t, err)

	id, err := s.Save(ctx, domain.Post{ID: "7", Slug: "croquetas", Title: "Croquetas", Status: domain.StatusPublish})
	require.NoError(t, err)
	assert.NotEqual(t, "7", id)

	require.NoError(t, s.SaveBulk(ctx, []domain.Post{
		{ID: "7", Slug: "tostones", Title: "Tostones", Status: domain.StatusPublish},
	}))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	flan, err := s.GetByID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "flan", flan.Slug)
	assert.Equal(t, "Flan", flan.Title)
}

func TestInMemStorer_Authors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	a, err := s.CreateAuthor(ctx, domain.Author{Email: "Chef@Example.com", Role: domain.RoleAuthor})
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", a.Email)
	assert.NotEmpty(t, a.ID)

	_, err = s.CreateAuthor(ctx, domain.Author{Email: "chef@example.com"})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	got, err := s.GetAuthorByEmail(ctx, "CHEF@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = s.GetAuthorByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
