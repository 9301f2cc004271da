// Package i18n resolves the request locale and serves translated strings.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	EN      Locale = "en"
	ES      Locale = "es"
	Default        = EN

	CookieName   = "elmeson-lang"
	CookieMaxAge = 60 * 60 * 24 * 365
	QueryParam   = "lang"
)

// Supported is ordered as the matcher tags; the first entry is the fallback.
var Supported = []Locale{EN, ES}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})

func Parse(s string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case EN:
		return EN, true
	case ES:
		return ES, true
	default:
		return "", false
	}
}

// FromAcceptLanguage picks the best supported locale for an Accept-Language
// header, or Default when nothing matches.
func FromAcceptLanguage(header string) Locale {
	if header == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Resolve returns the locale of a request: the lang query parameter, then the
// locale cookie, then Accept-Language, then Default.
func Resolve(r *http.Request) Locale {
	if l, ok := Parse(r.URL.Query().Get(QueryParam)); ok {
		return l
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if l, ok := Parse(c.Value); ok {
			return l
		}
	}
	return FromAcceptLanguage(r.Header.Get("Accept-Language"))
}

// Cookie persists the locale choice for a year.
func Cookie(l Locale) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(l),
		Path:     "/",
		MaxAge:   CookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	}
}
