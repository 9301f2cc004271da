// Package schema builds schema.org JSON-LD documents.
package schema

import (
	"strings"
	"time"
)

const Context = "https://schema.org"

type Site struct {
	Name string
	URL  string
	Logo string
}

// Absolute resolves a rooted path against the site URL. Absolute URLs and
// empty values are returned unchanged.
func (s Site) Absolute(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(s.URL, "/") + path
}

type ImageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type Organization struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *ImageObject `json:"logo,omitempty"`
}

type Article struct {
	Context       string       `json:"@context"`
	Type          string       `json:"@type"`
	Headline      string       `json:"headline"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	DatePublished string       `json:"datePublished"`
	DateModified  string       `json:"dateModified"`
	Author        Organization `json:"author"`
	Publisher     Organization `json:"publisher"`
	URL           string       `json:"mainEntityOfPage,omitempty"`
}

type ArticleInput struct {
	Headline      string
	Description   string
	Image         string
	Path          string
	Author        string
	DatePublished time.Time
	DateModified  time.Time
}

// NewArticle builds an Article. The site logo stands in for a missing image and
// the site name for a missing author.
func NewArticle(site Site, in ArticleInput) Article {
	image := site.Absolute(in.Image)
	if image == "" {
		image = site.Absolute(site.Logo)
	}
	author := in.Author
	if author == "" {
		author = site.Name
	}
	modified := in.DateModified
	if modified.IsZero() {
		modified = in.DatePublished
	}

	return Article{
		Context:       Context,
		Type:          "Article",
		Headline:      in.Headline,
		Description:   in.Description,
		Image:         image,
		DatePublished: formatDate(in.DatePublished),
		DateModified:  formatDate(modified),
		Author:        Organization{Type: "Organization", Name: author},
		Publisher: Organization{
			Type: "Organization",
			Name: site.Name,
			Logo: &ImageObject{Type: "ImageObject", URL: site.Absolute(site.Logo)},
		},
		URL: site.Absolute(in.Path),
	}
}

type Crumb struct {
	Name string
	Path string
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

func NewBreadcrumbs(site Site, crumbs ...Crumb) BreadcrumbList {
	items := make([]ListItem, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     site.Absolute(c.Path),
		})
	}
	return BreadcrumbList{Context: Context, Type: "BreadcrumbList", ItemListElement: items}
}

type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

type GeoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OpeningHours struct {
	Type      string   `json:"@type"`
	DayOfWeek []string `json:"dayOfWeek"`
	Opens     string   `json:"opens"`
	Closes    string   `json:"closes"`
}

type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type Restaurant struct {
	Context                   string         `json:"@context"`
	Type                      string         `json:"@type"`
	ID                        string         `json:"@id"`
	Name                      string         `json:"name"`
	Description               string         `json:"description,omitempty"`
	Image                     string         `json:"image,omitempty"`
	URL                       string         `json:"url"`
	Telephone                 string         `json:"telephone,omitempty"`
	Email                     string         `json:"email,omitempty"`
	PriceRange                string         `json:"priceRange,omitempty"`
	ServesCuisine             string         `json:"servesCuisine,omitempty"`
	Address                   PostalAddress  `json:"address"`
	Geo                       GeoCoordinates `json:"geo"`
	OpeningHoursSpecification []OpeningHours `json:"openingHoursSpecification,omitempty"`
	SameAs                    []string       `json:"sameAs,omitempty"`
	FoundingDate              string         `json:"foundingDate,omitempty"`
	Founder                   *Person        `json:"founder,omitempty"`
}

type RestaurantInput struct {
	Description  string
	Telephone    string
	Email        string
	PriceRange   string
	Cuisine      string
	Street       string
	Locality     string
	Region       string
	PostalCode   string
	Country      string
	Latitude     float64
	Longitude    float64
	Hours        []OpeningHours
	SameAs       []string
	FoundingDate string
	Founder      string
}

func NewRestaurant(site Site, in RestaurantInput) Restaurant {
	r := Restaurant{
		Context:       Context,
		Type:          "Restaurant",
		ID:            strings.TrimRight(site.URL, "/") + "/#restaurant",
		Name:          site.Name,
		Description:   in.Description,
		Image:         site.Absolute(site.Logo),
		URL:           site.URL,
		Telephone:     in.Telephone,
		Email:         in.Email,
		PriceRange:    in.PriceRange,
		ServesCuisine: in.Cuisine,
		Address: PostalAddress{
			Type:            "PostalAddress",
			StreetAddress:   in.Street,
			AddressLocality: in.Locality,
			AddressRegion:   in.Region,
			PostalCode:      in.PostalCode,
			AddressCountry:  in.Country,
		},
		Geo:                       GeoCoordinates{Type: "GeoCoordinates", Latitude: in.Latitude, Longitude: in.Longitude},
		OpeningHoursSpecification: in.Hours,
		SameAs:                    in.SameAs,
		FoundingDate:              in.FoundingDate,
	}
	for i := range r.OpeningHoursSpecification {
		r.OpeningHoursSpecification[i].Type = "OpeningHoursSpecification"
	}
	if in.Founder != "" {
		r.Founder = &Person{Type: "Person", Name: in.Founder}
	}
	return r
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
