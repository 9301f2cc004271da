package es

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

const contentAnalyzer = "html_content"

// PostDocument is the indexed shape of a post.
type PostDocument struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	Status        string    `json:"status"`
	PostType      string    `json:"post_type"`
	FeaturedImage string    `json:"featured_image"`
	Categories    []string  `json:"categories"`
	Tags          []string  `json:"tags"`
	PublishedAt   time.Time `json:"published_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	IndexedAt     time.Time `json:"indexed_at"`
}

func toDocument(p domain.Post) PostDocument {
	return PostDocument{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		Author:        p.Author,
		Status:        string(p.Status),
		PostType:      p.PostType,
		FeaturedImage: p.FeaturedImage,
		Categories:    p.Categories,
		Tags:          p.Tags,
		PublishedAt:   p.PublishedAt,
		ModifiedAt:    p.ModifiedAt,
		IndexedAt:     time.Now().UTC(),
	}
}

func (d PostDocument) toPost() domain.Post {
	p := domain.Post{
		ID:            d.ID,
		Slug:          d.Slug,
		Title:         d.Title,
		Excerpt:       d.Excerpt,
		Content:       d.Content,
		Author:        d.Author,
		Status:        domain.Status(d.Status),
		PostType:      d.PostType,
		FeaturedImage: d.FeaturedImage,
		Categories:    d.Categories,
		Tags:          d.Tags,
		PublishedAt:   d.PublishedAt,
		ModifiedAt:    d.ModifiedAt,
	}
	p.Normalize()
	return p
}

func buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				contentAnalyzer: types.CustomAnalyzer{
					CharFilter: []string{"html_strip"},
					Tokenizer:  "standard",
					Filter:     []string{"lowercase", "asciifolding"},
				},
			},
		},
	}
}

func buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":             types.NewKeywordProperty(),
			"slug":           types.NewKeywordProperty(),
			"title":          textPropertyWithKeyword(contentAnalyzer),
			"excerpt":        textProperty(contentAnalyzer),
			"content":        textProperty(contentAnalyzer),
			"author":         types.NewKeywordProperty(),
			"status":         types.NewKeywordProperty(),
			"post_type":      types.NewKeywordProperty(),
			"featured_image": types.NewKeywordProperty(),
			"categories":     types.NewKeywordProperty(),
			"tags":           types.NewKeywordProperty(),
			"published_at":   types.NewDateProperty(),
			"modified_at":    types.NewDateProperty(),
			"indexed_at":     types.NewDateProperty(),
		},
	}
}

func textProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func textPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
