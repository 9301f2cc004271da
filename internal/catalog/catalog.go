// Package catalog holds the static snapshot of blog posts bundled with the
// application. It is loaded once and never mutated; it backs read paths when the
// live store is unavailable and seeds the slug universe for the sitemap.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

//go:embed data/blog-posts.json
var embeddedPosts []byte

type Catalog struct {
	posts  []domain.Post
	bySlug map[string]int
}

// New builds a catalog from already normalized posts. Posts without a slug are
// skipped and the first occurrence of a duplicated slug is kept.
func New(posts []domain.Post) *Catalog {
	c := &Catalog{
		posts:  make([]domain.Post, 0, len(posts)),
		bySlug: make(map[string]int, len(posts)),
	}
	for _, p := range posts {
		p.Normalize()
		if p.Slug == "" {
			slog.Warn("Skipping catalog post without slug", "id", p.ID, "title", p.Title)
			continue
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			slog.Warn("Skipping duplicate catalog slug", "slug", p.Slug, "id", p.ID)
			continue
		}
		c.bySlug[p.Slug] = len(c.posts)
		c.posts = append(c.posts, p)
	}
	return c
}

// Load parses a JSON snapshot.
func Load(r io.Reader) (*Catalog, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	posts := make([]domain.Post, 0, len(records))
	for _, rec := range records {
		p, err := rec.ToPost()
		if err != nil {
			return nil, fmt.Errorf("failed to normalize catalog record %d: %w", rec.ID, err)
		}
		posts = append(posts, p)
	}

	return New(posts), nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Embedded returns the snapshot compiled into the binary.
func Embedded() (*Catalog, error) {
	return Load(bytes.NewReader(embeddedPosts))
}

// Empty returns a catalog with no posts.
func Empty() *Catalog {
	return New(nil)
}

func (c *Catalog) Len() int {
	return len(c.posts)
}

// All returns a copy of every post, drafts included, in snapshot order.
func (c *Catalog) All() []domain.Post {
	out := make([]domain.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Published returns a copy of the published posts in snapshot order.
func (c *Catalog) Published() []domain.Post {
	out := make([]domain.Post, 0, len(c.posts))
	for _, p := range c.posts {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	return out
}

// BySlug looks up a post regardless of its status.
func (c *Catalog) BySlug(slug string) (domain.Post, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return domain.Post{}, false
	}
	return c.posts[i], true
}

// Slugs returns the slugs of the published posts.
func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.posts))
	for _, p := range c.posts {
		if p.IsPublished() {
			out = append(out, p.Slug)
		}
	}
	return out
}
