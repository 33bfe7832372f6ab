package retrieval

import (
	"cmp"
	"slices"

	"github.com/hyodin/dollkongbot/internal/storage"
)

// Visibility is an immutable snapshot of the FAQ visibility overlay. It is
// taken once per navigation session so an admin edit does not change a
// listing halfway through.
type Visibility struct {
	settings map[string]storage.FAQSetting
}

// NewVisibility builds a snapshot from stored settings.
func NewVisibility(settings []storage.FAQSetting) Visibility {
	m := make(map[string]storage.FAQSetting, len(settings))
	for _, s := range settings {
		m[s.Lvl1Keyword] = s
	}
	return Visibility{settings: m}
}

// Visible reports whether keyword is shown. Keywords without a setting are visible.
func (v Visibility) Visible(keyword string) bool {
	s, ok := v.settings[keyword]
	return !ok || s.Visible
}

// Order returns the explicit order of keyword, if any.
func (v Visibility) Order(keyword string) (int, bool) {
	s, ok := v.settings[keyword]
	if !ok || s.Order == nil {
		return 0, false
	}
	return *s.Order, true
}

// Apply filters out hidden keywords and orders the rest with Sort.
func (v Visibility) Apply(entries []storage.Lvl1Entry) []string {
	visible := make([]storage.Lvl1Entry, 0, len(entries))
	for _, e := range entries {
		if v.Visible(e.Keyword) {
			visible = append(visible, e)
		}
	}
	return v.Sort(visible)
}

// Sort orders keywords for display. Keywords with an explicit order come
// first, ascending, ties broken alphabetically. The rest follow in insertion order.
func (v Visibility) Sort(entries []storage.Lvl1Entry) []string {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b storage.Lvl1Entry) int {
		ao, aok := v.Order(a.Keyword)
		bo, bok := v.Order(b.Keyword)
		switch {
		case aok && bok:
			if c := cmp.Compare(ao, bo); c != 0 {
				return c
			}
			return cmp.Compare(a.Keyword, b.Keyword)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return cmp.Compare(a.FirstSeq, b.FirstSeq)
		}
	})

	keywords := make([]string, len(sorted))
	for i, e := range sorted {
		keywords[i] = e.Keyword
	}
	return keywords
}
