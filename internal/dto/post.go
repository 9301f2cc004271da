package dto

import (
	"time"

	"github.com/DjordjeVuckovic/meson-site/internal/blog"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/sitemap"
)

type PostSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Excerpt     string    `json:"excerpt"`
	Image       string    `json:"image"`
	Date        time.Time `json:"date"`
	ReadingTime int       `json:"readingTime"` // minutes
}

type PostDetail struct {
	PostSummary
	Content        string        `json:"content"`
	Author         string        `json:"author,omitempty"`
	Modified       time.Time     `json:"modified"`
	Categories     []string      `json:"categories,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	Related        []PostSummary `json:"related"`
	StructuredData []any         `json:"structuredData" swaggertype:"array,object"`
	Preview        bool          `json:"preview"`
	NoIndex        bool          `json:"noindex"`
}

func PostPath(slug string) string {
	return sitemap.BlogPathPrefix + slug
}

func NewPostSummary(p domain.Post) PostSummary {
	return PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		URL:         PostPath(p.Slug),
		Excerpt:     blog.Excerpt(p, blog.ExcerptMaxLength),
		Image:       blog.ImageOrDefault(p),
		Date:        p.PublishedAt,
		ReadingTime: blog.ReadingTime(p.Content),
	}
}

func NewPostSummaries(posts []domain.Post) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostSummary(p))
	}
	return out
}

// NewPostDetail builds the detail view. Preview responses are never indexed.
func NewPostDetail(p domain.Post, related []domain.Post, structured []any, preview bool) PostDetail {
	if structured == nil {
		structured = []any{}
	}
	return PostDetail{
		PostSummary:    NewPostSummary(p),
		Content:        p.Content,
		Author:         p.Author,
		Modified:       p.LastModified(),
		Categories:     p.Categories,
		Tags:           p.Tags,
		Related:        NewPostSummaries(related),
		StructuredData: structured,
		Preview:        preview,
		NoIndex:        preview,
	}
}

// AdminPost is the authoring view: every stored field, drafts included.
type AdminPost struct {
	domain.Post
	URL string `json:"url"`
}

func NewAdminPost(p domain.Post) AdminPost {
	return AdminPost{Post: p, URL: PostPath(p.Slug)}
}

func NewAdminPosts(posts []domain.Post) []AdminPost {
	out := make([]AdminPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewAdminPost(p))
	}
	return out
}
