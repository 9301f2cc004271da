package related

import (
	"slices"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
)

// Scorer ranks candidate posts against a target post.
type Scorer struct {
	extractor *Extractor
	weight    int
}

func NewScorer(opts Options) *Scorer {
	opts = opts.withDefaults()
	return &Scorer{
		extractor: NewExtractor(opts),
		weight:    opts.TitleWeight,
	}
}

// NewDefaultScorer returns a Scorer using the package defaults.
func NewDefaultScorer() *Scorer {
	return NewScorer(Options{})
}

type scored struct {
	post  domain.Post
	score int
}

// Score returns overlap + TitleWeight*titleBonus for a candidate against the
// target keyword set.
func (s *Scorer) Score(targetKeywords []string, candidate domain.Post) int {
	candidateKeywords := s.extractor.ExtractKeywords(candidate.Text())

	overlap := 0
	for _, kw := range targetKeywords {
		if slices.Contains(candidateKeywords, kw) {
			overlap++
		}
	}

	return overlap + s.weight*titleMatches(targetKeywords, candidate.Title)
}

// titleMatches counts target keywords that contain, or are contained in, any
// whitespace-separated word of the title. Containment runs both ways, so a short
// keyword can match inside an unrelated longer word ("tea" in "steak"); this is
// kept for parity with the established ranking. Empty words are never
// compared, so an empty title or one with leading whitespace earns no bonus.
func titleMatches(keywords []string, title string) int {
	words := strings.Fields(strings.ToLower(title))

	n := 0
	for _, kw := range keywords {
		for _, w := range words {
			if strings.Contains(w, kw) || strings.Contains(kw, w) {
				n++
				break
			}
		}
	}
	return n
}

// Related returns up to limit published candidates related to the post with
// targetSlug, never including the target itself. Keyword matches come first;
// remaining slots are filled with the most recent unselected candidates.
// An unknown target yields an empty result.
func (s *Scorer) Related(candidates []domain.Post, targetSlug string, limit int) []domain.Post {
	if limit <= 0 {
		return []domain.Post{}
	}

	idx := slices.IndexFunc(candidates, func(p domain.Post) bool { return p.Slug == targetSlug })
	if idx < 0 {
		return []domain.Post{}
	}
	targetKeywords := s.extractor.ExtractKeywords(candidates[idx].Text())

	eligible := make([]domain.Post, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, p := range candidates {
		if p.Slug == targetSlug || !p.IsPublished() {
			continue
		}
		if _, dup := seen[p.Slug]; dup {
			continue
		}
		seen[p.Slug] = struct{}{}
		eligible = append(eligible, p)
	}

	var ranked []scored
	for _, p := range eligible {
		if score := s.Score(targetKeywords, p); score > 0 {
			ranked = append(ranked, scored{post: p, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return newerFirst(ranked[i].post, ranked[j].post)
	})

	result := make([]domain.Post, 0, limit)
	selected := make(map[string]struct{}, limit)
	for _, r := range ranked {
		if len(result) == limit {
			break
		}
		result = append(result, r.post)
		selected[r.post.Slug] = struct{}{}
	}

	if len(result) < limit {
		recent := make([]domain.Post, 0, len(eligible))
		for _, p := range eligible {
			if _, ok := selected[p.Slug]; !ok {
				recent = append(recent, p)
			}
		}
		SortByRecency(recent)

		for _, p := range recent {
			if len(result) == limit {
				break
			}
			result = append(result, p)
		}
	}

	return result
}

// SortByRecency orders posts by publication time, newest first, breaking ties by slug.
func SortByRecency(posts []domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return newerFirst(posts[i], posts[j])
	})
}

func newerFirst(a, b domain.Post) bool {
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.Slug < b.Slug
}
