package ports

import (
	"context"
	"time"

	"LiteratureScanner/internal/domain"
)

// ArticleSource pulls articles matching a search term from upstream providers.
type ArticleSource interface {
	Fetch(ctx context.Context, term string) ([]domain.Article, error)
}

// ArticleStore holds the current article set and its summary slots.
type ArticleStore interface {
	// Replace swaps the whole set atomically; readers never see a mix.
	Replace(ctx context.Context, articles []domain.Article) error
	List(ctx context.Context) ([]domain.Article, error)
	Get(ctx context.Context, id string) (domain.Article, error)
	// SetSummary fills an empty summary slot and reports whether it did.
	SetSummary(ctx context.Context, id string, summary domain.AISummary) (bool, error)
}

// Summarizer produces a structured synopsis of an abstract.
type Summarizer interface {
	Summarize(ctx context.Context, abstract string) (domain.AISummary, error)
}

// Scheduler controls when refreshes execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
