package dto

import (
	"github.com/DjordjeVuckovic/meson-site/internal/schema"
	"github.com/DjordjeVuckovic/meson-site/internal/site"
)

type SiteInfo struct {
	Locale         string            `json:"locale"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	URL            string            `json:"url"`
	Logo           string            `json:"logo"`
	Phone          string            `json:"phone"`
	Email          string            `json:"email"`
	Address        site.Address      `json:"address"`
	Geo            site.Geo          `json:"geo"`
	Hours          []site.Hours      `json:"hours"`
	GoogleMapsURL  string            `json:"googleMapsUrl"`
	Widgets        site.Widgets      `json:"widgets"`
	SameAs         []string          `json:"sameAs"`
	Nav            map[string]string `json:"nav"`
	StructuredData schema.Restaurant `json:"structuredData"`
}

type LocaleResponse struct {
	Locale    string   `json:"locale"`
	Supported []string `json:"supported"`
}

type MessagesResponse struct {
	Locale   string            `json:"locale"`
	Messages map[string]string `json:"messages"`
}
