package catalog

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/pkg/markdown"
)

// FrontMatter is the metadata block accepted at the top of a markdown post.
type FrontMatter struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Slug          string   `yaml:"slug"`
	Date          string   `yaml:"date"`
	Modified      string   `yaml:"modified"`
	Excerpt       string   `yaml:"excerpt"`
	Author        string   `yaml:"author"`
	Status        string   `yaml:"status"`
	Type          string   `yaml:"type"`
	FeaturedImage string   `yaml:"featuredImage"`
	Categories    []string `yaml:"categories"`
	Tags          []string `yaml:"tags"`
}

// LoadMarkdownDir reads every *.md file under fsys. The file name (without
// extension) is the slug and the title fallback when the frontmatter omits them.
func LoadMarkdownDir(fsys fs.FS) (*Catalog, error) {
	renderer := markdown.NewRenderer()
	titleCaser := cases.Title(language.English)

	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown catalog: %w", err)
	}
	sort.Strings(files)

	posts := make([]domain.Post, 0, len(files))
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}

		var fm FrontMatter
		body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
		if err != nil {
			slog.Warn("No frontmatter, treating file as plain markdown", "file", f, "error", err)
			body = raw
			fm = FrontMatter{}
		}

		html, err := renderer.ToHTML(body)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", f, err)
		}

		base := strings.TrimSuffix(path.Base(f), path.Ext(f))
		p, err := fm.toPost(base, html, titleCaser)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		posts = append(posts, p)
	}

	return New(posts), nil
}

func (fm FrontMatter) toPost(base, html string, titleCaser cases.Caser) (domain.Post, error) {
	published, err := ParseTime(fm.Date)
	if err != nil {
		return domain.Post{}, fmt.Errorf("date: %w", err)
	}
	modified, err := ParseTime(fm.Modified)
	if err != nil {
		return domain.Post{}, fmt.Errorf("modified: %w", err)
	}

	slug := fm.Slug
	if slug == "" {
		slug = strings.ToLower(base)
	}
	title := fm.Title
	if title == "" {
		title = titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
	}
	id := fm.ID
	if id == "" {
		id = slug
	}

	p := domain.Post{
		ID:            id,
		Slug:          slug,
		Title:         title,
		Content:       html,
		Excerpt:       fm.Excerpt,
		Author:        fm.Author,
		PostType:      fm.Type,
		FeaturedImage: fm.FeaturedImage,
		Categories:    fm.Categories,
		Tags:          fm.Tags,
		Status:        domain.Status(fm.Status),
		PublishedAt:   published,
		ModifiedAt:    modified,
	}
	p.Normalize()

	return p, nil
}
