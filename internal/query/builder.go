// Package query composes PubMed search expressions.
package query

import (
	"fmt"
	"strings"

	"LiteratureScanner/internal/vocabulary"
)

// Build returns the search term for the tracked journals, a recency window and a
// publication-type selection. An empty selection, or one containing only unknown
// names, expands to every supported value; the same holds for journals.
func Build(journals []string, days int, pubTypes []string) string {
	journalClause := disjunction(journals, vocabulary.JournalQueryToken)
	if journalClause == "" {
		journalClause = disjunction(vocabulary.JournalNames(), vocabulary.JournalQueryToken)
	}
	typeClause := disjunction(pubTypes, vocabulary.PublicationTypeQueryToken)
	if typeClause == "" {
		typeClause = disjunction(vocabulary.PublicationTypeNames(), vocabulary.PublicationTypeQueryToken)
	}

	return fmt.Sprintf("(%s) AND (%s) AND (%s)", journalClause, Recency(days), typeClause)
}

// ForTrackedJournals builds a term over every tracked journal.
func ForTrackedJournals(days int, pubTypes []string) string {
	return Build(vocabulary.JournalNames(), days, pubTypes)
}

// Recency returns the publication-date token for the trailing window.
func Recency(days int) string {
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf(`"last %d days"[dp]`, days)
}

func disjunction(names []string, token func(string) (string, bool)) string {
	seen := make(map[string]struct{}, len(names))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		t, ok := token(name)
		if !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		parts = append(parts, t)
	}
	return strings.Join(parts, " OR ")
}
