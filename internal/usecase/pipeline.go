package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/metrics"
	"LiteratureScanner/internal/ports"
	"LiteratureScanner/internal/query"
)

// PipelineDeps wires all driven adapters into the fetch pipeline.
type PipelineDeps struct {
	Source  ports.ArticleSource
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// FetchRequest selects the publication window and the publication types.
// An empty type list means every supported type.
type FetchRequest struct {
	Days             int      `json:"days"`
	PublicationTypes []string `json:"publicationTypes"`
}

// FetchResult carries the outcome of one fetch. Articles is never nil; on
// failure it is empty and Err holds the cause.
type FetchResult struct {
	Articles []domain.Article
	Term     string
	Err      error
}

// OK reports whether the upstream lookup succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// Pipeline turns a fetch request into a normalized article list.
type Pipeline struct {
	source  ports.ArticleSource
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		source:  deps.Source,
		metrics: deps.Metrics,
		logger:  logger,
	}
}

// Fetch builds the query for req, runs it against the source and reports
// the outcome without panicking on transport failures.
func (p *Pipeline) Fetch(ctx context.Context, req FetchRequest) FetchResult {
	term := query.ForTrackedJournals(req.Days, req.PublicationTypes)
	result := FetchResult{Articles: []domain.Article{}, Term: term}

	if p.source == nil {
		result.Err = errors.New("article source is not configured")
		return result
	}

	p.logger.Debug("fetch", "term", term)
	start := time.Now()
	articles, err := p.source.Fetch(ctx, term)
	p.metrics.Observe("fetch", time.Since(start).Seconds())
	if err != nil {
		p.metrics.Fetch(metrics.OutcomeError)
		result.Err = fmt.Errorf("fetch articles: %w", err)
		return result
	}

	p.metrics.Fetch(metrics.OutcomeOK)
	if articles != nil {
		result.Articles = articles
	}
	p.logger.Debug("fetch done", "articles", len(result.Articles))
	return result
}

// FetchArticles is Fetch for callers that only want a list: a failed lookup
// is logged and yields an empty list.
func (p *Pipeline) FetchArticles(ctx context.Context, req FetchRequest) []domain.Article {
	result := p.Fetch(ctx, req)
	if !result.OK() {
		p.logger.Warn("fetch failed, returning empty list", "term", result.Term, "error", result.Err)
	}
	return result.Articles
}
