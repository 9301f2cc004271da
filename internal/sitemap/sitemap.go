// Package sitemap renders sitemap.xml and robots.txt.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

const (
	xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

	BlogPathPrefix = "/story/blog/"
	blogChangeFreq = Monthly
	blogPriority   = 0.6
)

type ChangeFreq string

const (
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
)

// Route is a static page of the site. Static pages are stamped with the
// generation time.
type Route struct {
	Path       string
	ChangeFreq ChangeFreq
	Priority   float64
}

var StaticRoutes = []Route{
	{Path: "/", ChangeFreq: Weekly, Priority: 1},
	{Path: "/menu", ChangeFreq: Monthly, Priority: 0.9},
	{Path: "/patio", ChangeFreq: Monthly, Priority: 0.8},
	{Path: "/story", ChangeFreq: Monthly, Priority: 0.8},
	{Path: "/story/history", ChangeFreq: Yearly, Priority: 0.7},
	{Path: "/story/blog", ChangeFreq: Weekly, Priority: 0.8},
	{Path: "/parties", ChangeFreq: Monthly, Priority: 0.8},
	{Path: "/parties/survey", ChangeFreq: Monthly, Priority: 0.7},
	{Path: "/sunset", ChangeFreq: Monthly, Priority: 0.8},
	{Path: "/contact", ChangeFreq: Monthly, Priority: 0.7},
	{Path: "/contact-form", ChangeFreq: Monthly, Priority: 0.6},
	{Path: "/priority-seating", ChangeFreq: Monthly, Priority: 0.6},
	{Path: "/careers", ChangeFreq: Monthly, Priority: 0.8},
	{Path: "/birthday", ChangeFreq: Monthly, Priority: 0.7},
	{Path: "/featured", ChangeFreq: Yearly, Priority: 0.7},
	{Path: "/about/jose-m-diaz", ChangeFreq: Yearly, Priority: 0.8},
	{Path: "/heritage", ChangeFreq: Monthly, Priority: 0.7},
	{Path: "/terms", ChangeFreq: Yearly, Priority: 0.5},
	{Path: "/privacy", ChangeFreq: Yearly, Priority: 0.5},
}

type URL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Build lists the static routes followed by one entry per published post.
// posts is expected to be the merged view; duplicate slugs keep the first entry.
func Build(baseURL string, now time.Time, posts []domain.Post) URLSet {
	base := strings.TrimRight(baseURL, "/")
	set := URLSet{Xmlns: xmlns, URLs: make([]URL, 0, len(StaticRoutes)+len(posts))}

	for _, r := range StaticRoutes {
		loc := base + r.Path
		if r.Path == "/" {
			loc = base
		}
		set.URLs = append(set.URLs, URL{
			Loc:        loc,
			LastMod:    formatTime(now),
			ChangeFreq: r.ChangeFreq,
			Priority:   formatPriority(r.Priority),
		})
	}

	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if p.Slug == "" || !p.IsPublished() {
			continue
		}
		if _, dup := seen[p.Slug]; dup {
			continue
		}
		seen[p.Slug] = struct{}{}

		set.URLs = append(set.URLs, URL{
			Loc:        base + BlogPathPrefix + p.Slug,
			LastMod:    formatTime(p.LastModified()),
			ChangeFreq: blogChangeFreq,
			Priority:   formatPriority(blogPriority),
		})
	}

	return set
}

func (s URLSet) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return enc.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatPriority(p float64) string {
	return fmt.Sprintf("%.1f", p)
}
