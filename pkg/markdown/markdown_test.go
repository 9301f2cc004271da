package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_StringToHTML(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		in       string
		contains []string
	}{
		{
			name:     "heading with id",
			in:       "# Sunset Hour",
			contains: []string{`<h1 id="sunset-hour">Sunset Hour</h1>`},
		},
		{
			name:     "gfm table",
			in:       "| Day | Hours |\n|---|---|\n| Mon | 11-10 |",
			contains: []string{"<table>", "<td>Mon</td>"},
		},
		{
			name:     "raw html kept",
			in:       `<img src="/images/patio.jpg">`,
			contains: []string{`<img src="/images/patio.jpg">`},
		},
		{
			name:     "strikethrough",
			in:       "~~closed~~ open",
			contains: []string{"<del>closed</del>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.StringToHTML(tt.in)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}
