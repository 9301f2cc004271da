package in_mem

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

// InMemStorer is a process-local live store, used for local development and tests.
type InMemStorer struct {
	storageLock sync.RWMutex
	posts       map[string]domain.Post
	authors     map[string]domain.Author
	now         func() time.Time
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		posts:   make(map[string]domain.Post),
		authors: make(map[string]domain.Author),
		now:     time.Now,
	}
}

func (s *InMemStorer) ListPublished(_ context.Context) ([]domain.Post, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	sortByDate(out)
	return out, nil
}

func (s *InMemStorer) ListAll(_ context.Context) ([]domain.Post, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sortByDate(out)
	return out, nil
}

func (s *InMemStorer) GetBySlug(_ context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	for _, p := range s.posts {
		if p.Slug == slug && (includeDrafts || p.IsPublished()) {
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *InMemStorer) GetByID(_ context.Context, id string) (*domain.Post, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *InMemStorer) Create(_ context.Context, post domain.Post) (*domain.Post, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if s.slugTaken(post.Slug, "") {
		return nil, storage.ErrSlugTaken
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = s.now().UTC()
	}
	post.Normalize()

	s.posts[post.ID] = post
	slog.Debug("Post created in memory", "id", post.ID, "slug", post.Slug)
	return &post, nil
}

func (s *InMemStorer) Update(_ context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if patch.Slug != nil && s.slugTaken(*patch.Slug, id) {
		return nil, storage.ErrSlugTaken
	}

	patch.Apply(&p, s.now().UTC())
	p.Normalize()
	s.posts[id] = p
	return &p, nil
}

func (s *InMemStorer) Delete(_ context.Context, id string) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *InMemStorer) Save(ctx context.Context, post domain.Post) (string, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	return s.upsert(post), nil
}

func (s *InMemStorer) SaveBulk(_ context.Context, posts []domain.Post) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, post := range posts {
		id := s.upsert(post)
		slog.Debug("Saving post to in-memory storage", "slug", post.Slug, "id", id)
	}
	return nil
}

// upsert replaces any post with the same slug, keeping its id. An incoming
// id held by a post with another slug is replaced by a fresh one.
func (s *InMemStorer) upsert(post domain.Post) string {
	matched := false
	for id, existing := range s.posts {
		if existing.Slug == post.Slug {
			post.ID = id
			matched = true
			break
		}
	}
	if !matched && post.ID != "" {
		if _, taken := s.posts[post.ID]; taken {
			slog.Warn("Post id already used by another slug, assigning a new one", "id", post.ID, "slug", post.Slug)
			post.ID = ""
		}
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.Normalize()
	s.posts[post.ID] = post
	return post.ID
}

func (s *InMemStorer) slugTaken(slug, exceptID string) bool {
	for id, p := range s.posts {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (s *InMemStorer) CreateAuthor(_ context.Context, author domain.Author) (*domain.Author, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	email := strings.ToLower(author.Email)
	if _, ok := s.authors[email]; ok {
		return nil, storage.ErrEmailTaken
	}
	if author.ID == "" {
		author.ID = uuid.NewString()
	}
	if author.CreatedAt.IsZero() {
		author.CreatedAt = s.now().UTC()
	}
	author.Email = email
	s.authors[email] = author
	return &author, nil
}

func (s *InMemStorer) GetAuthorByEmail(_ context.Context, email string) (*domain.Author, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	a, ok := s.authors[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func sortByDate(posts []domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].PublishedAt.Equal(posts[j].PublishedAt) {
			return posts[i].PublishedAt.After(posts[j].PublishedAt)
		}
		return posts[i].Slug < posts[j].Slug
	})
}
