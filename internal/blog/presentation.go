package blog

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/related"
)

const (
	DefaultImage     = "/images/hero.jpg"
	WordsPerMinute   = 200
	ExcerptMaxLength = 160

	localImagesPrefix = "/images/"
	legacyUploadsURL  = "https://www.elmesondepepe.com/wp-content/uploads/"
)

var (
	legacyUploadPattern = regexp.MustCompile(`(?i)https?://www\.elmesondepepe\.com/wp-content/uploads/([^"'\s)]+\.(jpg|jpeg|png|webp|gif))`)
	imgSrcPattern       = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
	shortcodePattern    = regexp.MustCompile(`\[[^\]]*\]`)
)

// FeaturedImage resolves the cover image of a post. An explicit image wins:
// absolute URLs and rooted paths are kept, bare file names are placed under
// /images/. Otherwise the first legacy upload referenced in the content is
// mapped to its local copy, then the first <img> of the content. Returns ""
// when nothing is found; callers substitute DefaultImage.
func FeaturedImage(p domain.Post) string {
	if img := strings.TrimSpace(p.FeaturedImage); img != "" {
		if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") || strings.HasPrefix(img, "/") {
			return img
		}
		return localImagesPrefix + img
	}

	if m := legacyUploadPattern.FindStringSubmatch(p.Content); m != nil {
		return localImagesPrefix + m[1]
	}

	if m := imgSrcPattern.FindStringSubmatch(p.Content); m != nil {
		return strings.Replace(m[1], legacyUploadsURL, localImagesPrefix, 1)
	}

	return ""
}

// ImageOrDefault is FeaturedImage with DefaultImage substituted.
func ImageOrDefault(p domain.Post) string {
	if img := FeaturedImage(p); img != "" {
		return img
	}
	return DefaultImage
}

// ReadingTime estimates minutes to read content, never less than one.
func ReadingTime(content string) int {
	words := len(strings.Fields(related.StripTags(content)))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	return max(minutes, 1)
}

// Excerpt returns the explicit excerpt, or the content with markup and
// [shortcodes] removed, cut to maxLen runes.
func Excerpt(p domain.Post, maxLen int) string {
	if e := strings.TrimSpace(p.Excerpt); e != "" {
		return e
	}

	text := shortcodePattern.ReplaceAllString(related.StripTags(p.Content), " ")
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}
