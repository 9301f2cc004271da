package stringsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: nil},
		{raw: " , ,", want: nil},
		{raw: "http://a:9200", want: []string{"http://a:9200"}},
		{raw: " https://elmeson.com ,, http://localhost:3000 ", want: []string{"https://elmeson.com", "http://localhost:3000"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.raw))
		})
	}
}
