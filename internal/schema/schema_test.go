package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = Site{Name: "El Mesón de Pepe", URL: "https://www.elmesondepepe.com", Logo: "/images/logo.webp"}

func TestSite_Absolute(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/images/a.jpg", want: "https://www.elmesondepepe.com/images/a.jpg"},
		{in: "images/a.jpg", want: "https://www.elmesondepepe.com/images/a.jpg"},
		{in: "https://cdn.example.com/a.jpg", want: "https://cdn.example.com/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, testSite.Absolute(tt.in))
		})
	}
}

func TestNewArticle(t *testing.T) {
	published := time.Date(2023, 11, 8, 9, 30, 0, 0, time.UTC)

	a := NewArticle(testSite, ArticleInput{
		Headline:      "Cuban Coffee",
		Description:   "How to order",
		Path:          "/story/blog/cuban-coffee-guide",
		DatePublished: published,
	})

	assert.Equal(t, "https://www.elmesondepepe.com/images/logo.webp", a.Image)
	assert.Equal(t, "El Mesón de Pepe", a.Author.Name)
	assert.Equal(t, "2023-11-08T09:30:00Z", a.DatePublished)
	assert.Equal(t, a.DatePublished, a.DateModified)

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "https://schema.org", doc["@context"])
	assert.Equal(t, "Article", doc["@type"])
	assert.Equal(t, "https://www.elmesondepepe.com/story/blog/cuban-coffee-guide", doc["mainEntityOfPage"])
}

func TestNewBreadcrumbs(t *testing.T) {
	b := NewBreadcrumbs(testSite, Crumb{Name: "Home", Path: "/"}, Crumb{Name: "Blog", Path: "/story/blog"})

	require.Len(t, b.ItemListElement, 2)
	assert.Equal(t, 1, b.ItemListElement[0].Position)
	assert.Equal(t, "https://www.elmesondepepe.com/story/blog", b.ItemListElement[1].Item)
}

func TestNewRestaurant(t *testing.T) {
	r := NewRestaurant(testSite, RestaurantInput{
		Street:  "410 Wall Street",
		Hours:   []OpeningHours{{DayOfWeek: []string{"Monday"}, Opens: "11:00", Closes: "22:00"}},
		Founder: "Pepe",
	})

	assert.Equal(t, "https://www.elmesondepepe.com/#restaurant", r.ID)
	assert.Equal(t, "OpeningHoursSpecification", r.OpeningHoursSpecification[0].Type)
	require.NotNil(t, r.Founder)
	assert.Equal(t, "Person", r.Founder.Type)
}
