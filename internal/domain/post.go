package domain

import (
	"strings"
	"time"
)

const PostDefaultType = "post"

type Status string

const (
	StatusDraft   Status = "draft"
	StatusPublish Status = "publish"
)

// ParseStatus maps the status spellings found across sources onto Status.
// An empty value is treated as published, matching how listing candidates
// without an explicit state have always been handled.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "publish", "published":
		return StatusPublish
	case "draft":
		return StatusDraft
	default:
		return Status(strings.ToLower(strings.TrimSpace(s)))
	}
}

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublish
}

// Post is the canonical content item. Every source (static catalog, pg, sqlite,
// search index) is normalized into this shape before it reaches the blog service.
type Post struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Author        string    `json:"author,omitempty"`
	PostType      string    `json:"postType"`
	ParentID      string    `json:"parentId,omitempty"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Status        Status    `json:"postStatus"`
	PublishedAt   time.Time `json:"date"`
	ModifiedAt    time.Time `json:"modified"`
}

func (p Post) IsPublished() bool {
	return ParseStatus(string(p.Status)) == StatusPublish
}

// LastModified returns ModifiedAt, or PublishedAt when the post was never edited.
func (p Post) LastModified() time.Time {
	if p.ModifiedAt.IsZero() {
		return p.PublishedAt
	}
	return p.ModifiedAt
}

// Text is the free text used for keyword extraction: title, excerpt and body.
func (p Post) Text() string {
	return p.Title + " " + p.Excerpt + " " + p.Content
}

// Normalize fills the defaults shared by every source.
func (p *Post) Normalize() {
	p.Slug = strings.TrimSpace(p.Slug)
	if p.PostType == "" {
		p.PostType = PostDefaultType
	}
	p.Status = ParseStatus(string(p.Status))
	if p.ModifiedAt.IsZero() {
		p.ModifiedAt = p.PublishedAt
	}
}

// PostPatch carries a partial update. Nil fields are left untouched.
type PostPatch struct {
	Title         *string
	Slug          *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	Status        *Status
	PostType      *string
	Categories    []string
	Tags          []string
}

// Apply copies the set fields onto p and stamps ModifiedAt.
func (pp PostPatch) Apply(p *Post, now time.Time) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Slug != nil {
		p.Slug = *pp.Slug
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.Excerpt != nil {
		p.Excerpt = *pp.Excerpt
	}
	if pp.FeaturedImage != nil {
		p.FeaturedImage = *pp.FeaturedImage
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.PostType != nil {
		p.PostType = *pp.PostType
	}
	if pp.Categories != nil {
		p.Categories = pp.Categories
	}
	if pp.Tags != nil {
		p.Tags = pp.Tags
	}
	p.ModifiedAt = now
}
