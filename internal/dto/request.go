package dto

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/pkg/pagination"
)

const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"
)

// ContentRenderer turns markdown sources into HTML.
type ContentRenderer interface {
	StringToHTML(src string) (string, error)
}

type ListPostsRequest struct {
	pagination.OffsetRequest
	Query string `query:"q" json:"q" validate:"max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type MeResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type CreatePostRequest struct {
	Title         string     `json:"title" validate:"required,max=300"`
	Slug          string     `json:"slug" validate:"required,slug,max=200"`
	Content       string     `json:"content"`
	ContentFormat string     `json:"contentFormat" validate:"omitempty,oneof=html markdown"`
	Excerpt       string     `json:"excerpt" validate:"max=1000"`
	FeaturedImage string     `json:"featuredImage" validate:"max=2048"`
	Status        string     `json:"postStatus" validate:"omitempty,oneof=draft publish published"`
	PostType      string     `json:"postType" validate:"max=50"`
	Author        string     `json:"author" validate:"max=200"`
	Categories    []string   `json:"categories" validate:"max=20,dive,max=100"`
	Tags          []string   `json:"tags" validate:"max=50,dive,max=100"`
	Date          *time.Time `json:"date"`
}

// ToPost builds the post to store. A missing status creates a draft.
func (r CreatePostRequest) ToPost(render ContentRenderer) (domain.Post, error) {
	content, err := renderContent(r.Content, r.ContentFormat, render)
	if err != nil {
		return domain.Post{}, err
	}

	status := domain.StatusDraft
	if r.Status != "" {
		status = domain.ParseStatus(r.Status)
	}

	p := domain.Post{
		Title:         r.Title,
		Slug:          r.Slug,
		Content:       content,
		Excerpt:       r.Excerpt,
		FeaturedImage: r.FeaturedImage,
		Status:        status,
		PostType:      r.PostType,
		Author:        r.Author,
		Categories:    r.Categories,
		Tags:          r.Tags,
	}
	if r.Date != nil {
		p.PublishedAt = r.Date.UTC()
	}
	return p, nil
}

type UpdatePostRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=1,max=300"`
	Slug          *string  `json:"slug" validate:"omitempty,slug,max=200"`
	Content       *string  `json:"content"`
	ContentFormat string   `json:"contentFormat" validate:"omitempty,oneof=html markdown"`
	Excerpt       *string  `json:"excerpt" validate:"omitempty,max=1000"`
	FeaturedImage *string  `json:"featuredImage" validate:"omitempty,max=2048"`
	Status        *string  `json:"postStatus" validate:"omitempty,oneof=draft publish published"`
	PostType      *string  `json:"postType" validate:"omitempty,max=50"`
	Categories    []string `json:"categories" validate:"omitempty,max=20,dive,max=100"`
	Tags          []string `json:"tags" validate:"omitempty,max=50,dive,max=100"`
}

func (r UpdatePostRequest) ToPatch(render ContentRenderer) (domain.PostPatch, error) {
	patch := domain.PostPatch{
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		FeaturedImage: r.FeaturedImage,
		PostType:      r.PostType,
		Categories:    r.Categories,
		Tags:          r.Tags,
	}

	if r.Content != nil {
		content, err := renderContent(*r.Content, r.ContentFormat, render)
		if err != nil {
			return domain.PostPatch{}, err
		}
		patch.Content = &content
	}
	if r.Status != nil {
		status := domain.ParseStatus(*r.Status)
		patch.Status = &status
	}
	return patch, nil
}

func renderContent(content, format string, render ContentRenderer) (string, error) {
	if format != ContentFormatMarkdown {
		return content, nil
	}
	html, err := render.StringToHTML(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown content: %w", err)
	}
	return html, nil
}

type CreateAuthorRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     domain.Role `json:"role" validate:"required,oneof=admin author"`
}

type LocaleRequest struct {
	Locale string `json:"locale" validate:"required,oneof=en es"`
}
