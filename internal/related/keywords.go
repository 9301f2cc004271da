// Package related ranks posts against a target post by shared keywords.
package related

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultMinTermLength = 3
	DefaultMaxTerms      = 10
	DefaultTitleWeight   = 2
	DefaultRelatedLimit  = 4
)

// DefaultStopWords holds English function words plus the site-generic terms
// that appear in nearly every post and would otherwise match everything.
var DefaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must", "can", "this", "that", "these", "those",
	"key", "west", "cuban", "cuba", "best", "guide", "ultimate", "complete",
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags replaces every markup tag with a single space.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, " ")
}

// NoTitleBonus as Options.TitleWeight scores on keyword overlap alone.
const NoTitleBonus = -1

// Options tunes extraction and scoring. Zero values fall back to the defaults.
// A negative TitleWeight disables the title bonus.
type Options struct {
	MinTermLength int
	MaxTerms      int
	TitleWeight   int
	StopWords     []string
}

func (o Options) withDefaults() Options {
	if o.MinTermLength <= 0 {
		o.MinTermLength = DefaultMinTermLength
	}
	if o.MaxTerms <= 0 {
		o.MaxTerms = DefaultMaxTerms
	}
	switch {
	case o.TitleWeight < 0:
		o.TitleWeight = 0
	case o.TitleWeight == 0:
		o.TitleWeight = DefaultTitleWeight
	}
	if o.StopWords == nil {
		o.StopWords = DefaultStopWords
	}
	return o
}

// Extractor reduces free text to a bounded, ordered keyword set.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	opts      Options
	words     *regexp.Regexp
	stopWords map[string]struct{}
}

func NewExtractor(opts Options) *Extractor {
	opts = opts.withDefaults()

	stop := make(map[string]struct{}, len(opts.StopWords))
	for _, w := range opts.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	return &Extractor{
		opts:      opts,
		words:     regexp.MustCompile(fmt.Sprintf(`\b[a-z]{%d,}\b`, opts.MinTermLength)),
		stopWords: stop,
	}
}

// ExtractKeywords returns at most MaxTerms distinct lowercase terms in first-seen order.
// Empty text yields an empty set.
func (e *Extractor) ExtractKeywords(text string) []string {
	if text == "" {
		return []string{}
	}

	clean := strings.ToLower(StripTags(text))
	matches := e.words.FindAllString(clean, -1)

	seen := make(map[string]struct{}, len(matches))
	keywords := make([]string, 0, e.opts.MaxTerms)
	for _, w := range matches {
		if _, stop := e.stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
		if len(keywords) == e.opts.MaxTerms {
			break
		}
	}

	return keywords
}

var defaultExtractor = NewExtractor(Options{})

// ExtractKeywords runs the default extractor.
func ExtractKeywords(text string) []string {
	return defaultExtractor.ExtractKeywords(text)
}

// IsStopWord reports whether w is excluded from keyword sets.
func (e *Extractor) IsStopWord(w string) bool {
	_, ok := e.stopWords[strings.ToLower(w)]
	return ok
}
