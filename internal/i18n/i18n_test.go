package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{header: "", want: EN},
		{header: "es-MX,es;q=0.9,en;q=0.8", want: ES},
		{header: "en-US,en;q=0.9", want: EN},
		{header: "fr-FR", want: EN},
		{header: "de;q=0.9,es;q=0.5", want: ES},
		{header: ";;;garbage", want: EN},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAcceptLanguage(tt.header))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		cookie string
		accept string
		want   Locale
	}{
		{name: "query wins", url: "/?lang=es", cookie: "en", accept: "en", want: ES},
		{name: "cookie before header", url: "/", cookie: "es", accept: "en", want: ES},
		{name: "invalid cookie ignored", url: "/", cookie: "fr", accept: "es", want: ES},
		{name: "invalid query ignored", url: "/?lang=de", want: EN},
		{name: "default", url: "/", want: EN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, Resolve(req))
		})
	}
}

func TestCookie(t *testing.T) {
	c := Cookie(ES)
	assert.Equal(t, "elmeson-lang", c.Name)
	assert.Equal(t, "es", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 31536000, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestBundle(t *testing.T) {
	b, err := LoadBundle()
	require.NoError(t, err)

	assert.Equal(t, "Leer más", b.T(ES, "blog.readMore"))
	assert.Equal(t, "Read more", b.T(EN, "blog.readMore"))
	assert.Equal(t, "Join the waitlist", b.T(ES, "reservations.waitlist"), "missing es key falls back to en")
	assert.Equal(t, "no.such.key", b.T(ES, "no.such.key"))

	nav := b.Messages(ES, "nav")
	assert.Equal(t, "Inicio", nav["nav.home"])
	assert.NotContains(t, nav, "blog.title")

	all := b.Messages(ES, "")
	assert.Equal(t, "Join the waitlist", all["reservations.waitlist"])
}
