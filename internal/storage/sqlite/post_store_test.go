package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *PostStore {
	t.Helper()

	db, err := Open(context.Background(), Config{Path: MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewPostStore(db)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "nested", "site.db")
	db, err := Open(context.Background(), Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.Healthy(context.Background()))
	assert.FileExists(t, path)
}

func TestPostStore_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.Create(ctx, domain.Post{
		Slug:        "cuban-coffee",
		Title:       "Cuban Coffee",
		Content:     "<p>cafecito</p>",
		Status:      domain.StatusPublish,
		Categories:  []string{"drinks"},
		Tags:        []string{"coffee", "cuban"},
		PublishedAt: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"coffee", "cuban"}, created.Tags)
	assert.Equal(t, "post", created.PostType)
	assert.Equal(t, created.PublishedAt, created.ModifiedAt)

	_, err = s.Create(ctx, domain.Post{Slug: "draft-menu", Title: "Draft menu", Status: domain.StatusDraft,
		PublishedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	_, err = s.Create(ctx, domain.Post{Slug: "cuban-coffee", Title: "Again"})
	assert.ErrorIs(t, err, storage.ErrSlugTaken)

	published, err := s.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "cuban-coffee", published[0].Slug)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "draft-menu", all[0].Slug)

	_, err = s.GetBySlug(ctx, "draft-menu", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	draft, err := s.GetBySlug(ctx, "draft-menu", true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, draft.Status)

	byID, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cuban Coffee", byID.Title)
	assert.True(t, byID.PublishedAt.Equal(created.PublishedAt))
}

func TestPostStore_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.Create(ctx, domain.Post{Slug: "flan", Title: "Flan", Status: domain.StatusDraft,
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = s.Create(ctx, domain.Post{Slug: "taken", Title: "Taken"})
	require.NoError(t, err)

	title := "Caramel flan"
	status := domain.StatusPublish
	updated, err := s.Update(ctx, p.ID, domain.PostPatch{Title: &title, Status: &status, Tags: []string{"dessert"}})
	require.NoError(t, err)
	assert.Equal(t, "Caramel flan", updated.Title)
	assert.Equal(t, domain.StatusPublish, updated.Status)
	assert.Equal(t, []string{"dessert"}, updated.Tags)
	assert.Equal(t, fixedNow, updated.ModifiedAt)

	taken := "taken"
	_, err = s.Update(ctx, p.ID, domain.PostPatch{Slug: &taken})
	assert.ErrorIs(t, err, storage.ErrSlugTaken)

	_, err = s.Update(ctx, "missing", domain.PostPatch{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), storage.ErrNotFound)
}

func TestPostStore_SaveUpsertsBySlug(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Save(ctx, domain.Post{ID: "1412", Slug: "cuban-coffee-guide", Title: "Guide", Status: domain.StatusPublish})
	require.NoError(t, err)
	assert.Equal(t, "1412", id)

	again, err := s.Save(ctx, domain.Post{ID: "other", Slug: "cuban-coffee-guide", Title: "Guide v2", Status: domain.StatusPublish})
	require.NoError(t, err)
	assert.Equal(t, "1412", again)

	got, err := s.GetBySlug(ctx, "cuban-coffee-guide", false)
	require.NoError(t, err)
	assert.Equal(t, "Guide v2", got.Title)

	err = s.SaveBulk(ctx, []domain.Post{
		{ID: "1", Slug: "mojito-secrets", Title: "Mojitos", Status: domain.StatusPublish},
		{ID: "2", Slug: "cuban-coffee-guide", Title: "Guide v3", Status: domain.StatusPublish},
	})
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err = s.GetBySlug(ctx, "cuban-coffee-guide", false)
	require.NoError(t, err)
	assert.Equal(t, "Guide v3", got.Title)
	assert.Equal(t, "1412", got.ID)

	assert.NoError(t, s.SaveBulk(ctx, nil))
}

func TestPostStore_Authors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.CreateAuthor(ctx, domain.Author{Email: " Chef@ElMeson.com ", PasswordHash: "hash", Role: domain.RoleAuthor})
	require.NoError(t, err)
	assert.Equal(t, "chef@elmeson.com", a.Email)
	assert.NotEmpty(t, a.ID)

	_, err = s.CreateAuthor(ctx, domain.Author{Email: "chef@elmeson.com", PasswordHash: "x", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	got, err := s.GetAuthorByEmail(ctx, "CHEF@elmeson.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, domain.RoleAuthor, got.Role)

	_, err = s.GetAuthorByEmail(ctx, "nobody@elmeson.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStringList(t *testing.T) {
	v, err := stringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l stringList
	require.NoError(t, l.Scan(`["a","b"]`))
	assert.Equal(t, stringList{"a", "b"}, l)

	require.NoError(t, l.Scan([]byte(`["c"]`)))
	assert.Equal(t, stringList{"c"}, l)

	assert.Error(t, l.Scan(42))
}
