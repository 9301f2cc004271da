package blog

import "github.com/DjordjeVuckovic/meson-site/internal/domain"

// Merge unions the static catalog with live-store posts keyed by slug.
//
// Precedence: every static post is inserted first, then every live post is
// written over it. A live post therefore replaces the static post with the
// same slug entirely; fields are never combined. Swapping the two passes
// would silently invert that.
//
// Replaced posts keep their static position and live-only posts follow in
// their source order. Posts without a slug are dropped.
func Merge(static, live []domain.Post) []domain.Post {
	bySlug := make(map[string]int, len(static)+len(live))
	merged := make([]domain.Post, 0, len(static)+len(live))

	put := func(p domain.Post) {
		if p.Slug == "" {
			return
		}
		if i, ok := bySlug[p.Slug]; ok {
			merged[i] = p
			return
		}
		bySlug[p.Slug] = len(merged)
		merged = append(merged, p)
	}

	for _, p := range static {
		put(p)
	}
	for _, p := range live {
		put(p)
	}

	return merged
}
