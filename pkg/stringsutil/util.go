package stringsutil

import "strings"

// SplitList splits a comma separated value, trimming entries and dropping
// empty ones. It returns nil when nothing remains.
func SplitList(raw string) []string {
	var result []string

	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}

	return result
}
