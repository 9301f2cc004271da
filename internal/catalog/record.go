package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

// Record is one entry of the bundled snapshot, in the shape exported from the
// legacy blog.
type Record struct {
	ID            int64  `json:"id"`
	Author        int64  `json:"author"`
	Date          string `json:"date"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	Modified      string `json:"modified"`
	PostType      string `json:"postType"`
	PostStatus    string `json:"postStatus"`
	Parent        int64  `json:"parent"`
	FeaturedImage string `json:"featuredImage,omitempty"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts the date spellings found in exported snapshots.
// An empty value yields the zero time.
func ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", v)
}

// ToPost normalizes the record into a domain.Post.
func (r Record) ToPost() (domain.Post, error) {
	published, err := ParseTime(r.Date)
	if err != nil {
		return domain.Post{}, fmt.Errorf("post %q date: %w", r.Slug, err)
	}
	modified, err := ParseTime(r.Modified)
	if err != nil {
		return domain.Post{}, fmt.Errorf("post %q modified: %w", r.Slug, err)
	}

	p := domain.Post{
		ID:            strconv.FormatInt(r.ID, 10),
		Slug:          r.Slug,
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		PostType:      r.PostType,
		FeaturedImage: r.FeaturedImage,
		Status:        domain.Status(r.PostStatus),
		PublishedAt:   published,
		ModifiedAt:    modified,
	}
	if r.Author != 0 {
		p.Author = strconv.FormatInt(r.Author, 10)
	}
	if r.Parent != 0 {
		p.ParentID = strconv.FormatInt(r.Parent, 10)
	}
	p.Normalize()

	return p, nil
}
