package normalizer

import (
	"slices"
	"strings"
)

// DefaultKeywordLimit caps Keywords when the caller passes a non-positive limit.
const DefaultKeywordLimit = 10

// Keywords returns the distinct tokens of a normalized text, most frequent
// first. Ties keep their first-occurrence order.
func Keywords(normalized string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}
	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(normalized) {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
