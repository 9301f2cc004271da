package related

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	e := NewExtractor(Options{})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "strips markup and lowercases",
			text: `<p>Fresh <strong>Mojito</strong> on the Patio</p>`,
			want: []string{"fresh", "mojito", "patio"},
		},
		{
			name: "tags do not glue words together",
			text: `sunset<br/>cocktails`,
			want: []string{"sunset", "cocktails"},
		},
		{
			name: "drops short words and stop words",
			text: "The best Cuban guide to a rum bar in Key West",
			want: []string{"rum", "bar"},
		},
		{
			name: "dedupes in first seen order",
			text: "ropa vieja, picadillo and more ropa vieja",
			want: []string{"ropa", "vieja", "picadillo", "more"},
		},
		{
			name: "ignores digits and punctuation",
			text: "open 11am-10pm daily! café",
			want: []string{"open", "daily", "caf"},
		},
		{
			name: "caps at ten terms",
			text: "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima",
			want: []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractKeywords(tt.text))
		})
	}
}

func TestExtractKeywords_Properties(t *testing.T) {
	e := NewExtractor(Options{})
	text := `<h2>Sunset Mojitos</h2><p>Our patio is the perfect place to watch the sunset over the water
		with a classic mojito, a Cuban sandwich, croquetas, tostones and a cafecito. Live music every
		weekend, happy hour daily, and the best key lime pie in Key West.</p>`

	first := e.ExtractKeywords(text)
	second := e.ExtractKeywords(text)

	require.Equal(t, first, second, "extraction must be deterministic")
	assert.LessOrEqual(t, len(first), DefaultMaxTerms)

	seen := map[string]bool{}
	for _, kw := range first {
		assert.GreaterOrEqual(t, len(kw), DefaultMinTermLength, kw)
		assert.False(t, e.IsStopWord(kw), kw)
		assert.Equal(t, strings.ToLower(kw), kw)
		assert.False(t, seen[kw], "duplicate %q", kw)
		seen[kw] = true
	}
}

func TestExtractKeywords_Options(t *testing.T) {
	e := NewExtractor(Options{
		MinTermLength: 5,
		MaxTerms:      2,
		StopWords:     []string{"Patio"},
	})

	got := e.ExtractKeywords("mojito on the patio at sunset with music")

	assert.Equal(t, []string{"mojito", "sunset"}, got)
	assert.True(t, e.IsStopWord("PATIO"))
	assert.False(t, e.IsStopWord("the"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, " hola  mundo ", StripTags(`<p>hola</p><br>mundo<img src="x.jpg"/>`))
}

func TestExtractKeywords_Default(t *testing.T) {
	assert.Equal(t,
		NewExtractor(Options{}).ExtractKeywords("Sunset mojitos on the patio"),
		ExtractKeywords("Sunset mojitos on the patio"))
	assert.Empty(t, ExtractKeywords(""))
}
