// Package listing filters and orders an article set for display.
package listing

import (
	"slices"
	"strings"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/vocabulary"
)

// View is the consumer's current selection.
type View struct {
	Journals []string
	Query    string
	Sort     domain.SortDirection
}

// DefaultView selects every tracked journal, no query, newest first.
func DefaultView() View {
	return View{
		Journals: vocabulary.JournalNames(),
		Sort:     domain.SortNewest,
	}
}

// FilterAndSort returns a new slice holding the articles whose journal is
// selected and whose title or abstract contains the query, ordered by
// publication date. Equal dates keep their input order.
func FilterAndSort(articles []domain.Article, v View) []domain.Article {
	selected := make(map[string]struct{}, len(v.Journals))
	for _, j := range v.Journals {
		selected[j] = struct{}{}
	}
	needle := strings.ToLower(strings.TrimSpace(v.Query))

	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := selected[a.Journal]; !ok {
			continue
		}
		if needle != "" && !matches(a, needle) {
			continue
		}
		out = append(out, a)
	}

	oldest := v.Sort == domain.SortOldest
	slices.SortStableFunc(out, func(a, b domain.Article) int {
		if oldest {
			return strings.Compare(a.PubDate, b.PubDate)
		}
		return strings.Compare(b.PubDate, a.PubDate)
	})
	return out
}

func matches(a domain.Article, needle string) bool {
	return strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Abstract), needle)
}
