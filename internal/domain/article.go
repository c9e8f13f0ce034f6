package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Fallback values used when the upstream record omits a field.
const (
	UntitledTitle     = "Untitled"
	UnknownAuthors    = "Unknown Authors"
	NoAbstract        = "No abstract available."
	EtAl              = "et al."
	MaxDisplayAuthors = 3
	DefaultMonthOrDay = "01"
)

// Article is a normalized bibliographic record ready for filtering and display.
// Only CachedSummary changes after normalization.
type Article struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Journal       string     `json:"journal"`
	Authors       []string   `json:"authors"`
	PubDate       string     `json:"pubDate"`
	Abstract      string     `json:"abstract"`
	DOILink       string     `json:"doiLink"`
	IsTrial       bool       `json:"isTrial"`
	CachedSummary *AISummary `json:"cachedSummary,omitempty"`
}

// HasSummary reports whether the summary slot has been filled.
func (a Article) HasSummary() bool {
	return a.CachedSummary != nil
}

// AISummary is the structured clinical synopsis of one abstract.
type AISummary struct {
	ResearchDesign  string `json:"researchDesign"`
	StudyPopulation string `json:"studyPopulation"`
	Interventions   string `json:"interventions"`
	Endpoints       string `json:"endpoints"`
	Results         string `json:"results"`
}

// Validate checks that every synopsis field is populated.
func (s AISummary) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"researchDesign", s.ResearchDesign},
		{"studyPopulation", s.StudyPopulation},
		{"interventions", s.Interventions},
		{"endpoints", s.Endpoints},
		{"results", s.Results},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidSummary, f.name)
		}
	}
	return nil
}

// SortDirection orders articles by publication date.
type SortDirection string

const (
	SortNewest SortDirection = "newest"
	SortOldest SortDirection = "oldest"
)

// ParseSortDirection maps user input to a direction, defaulting to newest.
func ParseSortDirection(value string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(value), string(SortOldest)) {
		return SortOldest
	}
	return SortNewest
}

var (
	ErrArticleNotFound       = errors.New("article not found")
	ErrSummaryExists         = errors.New("article already has a summary")
	ErrSummaryInFlight       = errors.New("summary request already in progress")
	ErrSummarizerUnavailable = errors.New("summarizer is not configured")
	ErrInvalidSummary        = errors.New("invalid summary")
)
