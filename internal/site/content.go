// Package site holds the restaurant facts and the localized static pages.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/DjordjeVuckovic/meson-site/internal/i18n"
	"github.com/DjordjeVuckovic/meson-site/internal/schema"
)

//go:embed content/*.yaml
var contentFS embed.FS

// PageNames lists the pages served by the site API.
var PageNames = []string{"menu", "hours", "location", "careers", "private-events"}

type Address struct {
	Street     string `yaml:"street" json:"street" validate:"required"`
	Locality   string `yaml:"locality" json:"locality" validate:"required"`
	Region     string `yaml:"region" json:"region" validate:"required"`
	PostalCode string `yaml:"postalCode" json:"postalCode" validate:"required"`
	Country    string `yaml:"country" json:"country" validate:"required,len=2"`
}

type Geo struct {
	Latitude  float64 `yaml:"latitude" json:"latitude" validate:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude" validate:"longitude"`
}

type Hours struct {
	Days   []string `yaml:"days" json:"days" validate:"min=1"`
	Opens  string   `yaml:"opens" json:"opens" validate:"required"`
	Closes string   `yaml:"closes" json:"closes" validate:"required"`
}

// Facts are the locale independent details of the restaurant.
type Facts struct {
	Phone        string   `yaml:"phone" json:"phone" validate:"required"`
	Email        string   `yaml:"email" json:"email" validate:"required,email"`
	PriceRange   string   `yaml:"priceRange" json:"priceRange"`
	Cuisine      string   `yaml:"cuisine" json:"cuisine"`
	FoundingDate string   `yaml:"foundingDate" json:"foundingDate"`
	Founder      string   `yaml:"founder" json:"founder"`
	Address      Address  `yaml:"address" json:"address"`
	Geo          Geo      `yaml:"geo" json:"geo"`
	Hours        []Hours  `yaml:"hours" json:"hours" validate:"min=1,dive"`
	SameAs       []string `yaml:"sameAs" json:"sameAs" validate:"dive,url"`
}

type Item struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Price       string `yaml:"price" json:"price,omitempty"`
}

type Section struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body,omitempty"`
	Items   []Item `yaml:"items" json:"items,omitempty"`
}

type Page struct {
	Name     string    `yaml:"-" json:"name"`
	Locale   string    `yaml:"-" json:"locale"`
	Title    string    `yaml:"title" json:"title" validate:"required"`
	Summary  string    `yaml:"summary" json:"summary,omitempty"`
	Sections []Section `yaml:"sections" json:"sections"`
}

type localized struct {
	Description string          `yaml:"description"`
	Pages       map[string]Page `yaml:"pages" validate:"dive"`
}

type Content struct {
	Facts Facts

	locales map[i18n.Locale]localized
}

func LoadContent() (*Content, error) {
	validate := validator.New()

	var facts Facts
	if err := decodeFile("content/site.yaml", &facts); err != nil {
		return nil, err
	}
	if err := validate.Struct(facts); err != nil {
		return nil, fmt.Errorf("invalid site facts: %w", err)
	}

	c := &Content{Facts: facts, locales: make(map[i18n.Locale]localized, len(i18n.Supported))}
	for _, l := range i18n.Supported {
		var loc localized
		if err := decodeFile("content/pages."+string(l)+".yaml", &loc); err != nil {
			return nil, err
		}
		if err := validate.Struct(loc); err != nil {
			return nil, fmt.Errorf("invalid %s pages: %w", l, err)
		}
		for name := range loc.Pages {
			if !slices.Contains(PageNames, name) {
				return nil, fmt.Errorf("unknown page %q in %s content", name, l)
			}
		}
		c.locales[l] = loc
	}

	if _, ok := c.locales[i18n.Default]; !ok {
		return nil, fmt.Errorf("missing %s content", i18n.Default)
	}
	return c, nil
}

func decodeFile(path string, out any) error {
	raw, err := contentFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// Page returns the named page in l, falling back to the default locale.
func (c *Content) Page(l i18n.Locale, name string) (Page, bool) {
	p, ok := c.locales[l].Pages[name]
	if !ok {
		l = i18n.Default
		p, ok = c.locales[l].Pages[name]
	}
	if !ok {
		return Page{}, false
	}
	p.Name = name
	p.Locale = string(l)
	return p, true
}

func (c *Content) Description(l i18n.Locale) string {
	if d := c.locales[l].Description; d != "" {
		return d
	}
	return c.locales[i18n.Default].Description
}

// Restaurant builds the Restaurant JSON-LD document of the site.
func (c *Content) Restaurant(cfg Config) schema.Restaurant {
	hours := make([]schema.OpeningHours, 0, len(c.Facts.Hours))
	for _, h := range c.Facts.Hours {
		hours = append(hours, schema.OpeningHours{DayOfWeek: h.Days, Opens: h.Opens, Closes: h.Closes})
	}

	return schema.NewRestaurant(SchemaSite(cfg), schema.RestaurantInput{
		Description:  c.Description(i18n.Default),
		Telephone:    c.Facts.Phone,
		Email:        c.Facts.Email,
		PriceRange:   c.Facts.PriceRange,
		Cuisine:      c.Facts.Cuisine,
		Street:       c.Facts.Address.Street,
		Locality:     c.Facts.Address.Locality,
		Region:       c.Facts.Address.Region,
		PostalCode:   c.Facts.Address.PostalCode,
		Country:      c.Facts.Address.Country,
		Latitude:     c.Facts.Geo.Latitude,
		Longitude:    c.Facts.Geo.Longitude,
		Hours:        hours,
		SameAs:       c.Facts.SameAs,
		FoundingDate: c.Facts.FoundingDate,
		Founder:      c.Facts.Founder,
	})
}

func SchemaSite(cfg Config) schema.Site {
	return schema.Site{Name: cfg.Name, URL: cfg.URL, Logo: cfg.Logo}
}
