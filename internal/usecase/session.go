package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/listing"
	"LiteratureScanner/internal/metrics"
	"LiteratureScanner/internal/ports"
)

// SummaryState is the transient per-article state of a summary request.
type SummaryState struct {
	Loading bool   `json:"loading"`
	Err     string `json:"error,omitempty"`
}

// SessionDeps wires the session with its collaborators.
type SessionDeps struct {
	Pipeline   *Pipeline
	Store      ports.ArticleStore
	Summarizer ports.Summarizer
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Session owns the shared article set, its summary slots and the transient
// summary states. Refreshes and summary requests may run concurrently.
type Session struct {
	pipeline   *Pipeline
	store      ports.ArticleStore
	summarizer ports.Summarizer
	metrics    *metrics.Metrics
	logger     *slog.Logger

	mu         sync.Mutex
	issued     uint64
	applied    uint64
	generation uint64
	states     map[string]SummaryState
}

// NewSession builds a session over an empty set.
func NewSession(deps SessionDeps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pipeline := deps.Pipeline
	if pipeline == nil {
		pipeline = NewPipeline(PipelineDeps{Metrics: deps.Metrics, Logger: logger})
	}
	return &Session{
		pipeline:   pipeline,
		store:      deps.Store,
		summarizer: deps.Summarizer,
		metrics:    deps.Metrics,
		logger:     logger,
		states:     map[string]SummaryState{},
	}
}

// Refresh fetches a new set and replaces the current one. The result is
// applied only if no refresh issued later has been applied already; the
// boolean reports whether it was. A failed fetch applies an empty set.
func (s *Session) Refresh(ctx context.Context, req FetchRequest) (FetchResult, bool) {
	s.mu.Lock()
	s.issued++
	ticket := s.issued
	s.mu.Unlock()

	result := s.pipeline.Fetch(ctx, req)
	if !result.OK() {
		s.logger.Warn("fetch failed, replacing set with empty list", "ticket", ticket, "error", result.Err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket < s.applied {
		s.logger.Debug("dropping stale refresh", "ticket", ticket, "applied", s.applied)
		s.metrics.Refresh(metrics.OutcomeStale)
		return result, false
	}

	if err := s.store.Replace(ctx, result.Articles); err != nil {
		if result.Err == nil {
			result.Err = fmt.Errorf("store articles: %w", err)
		}
		s.logger.Error("replace article set", "ticket", ticket, "error", err)
		return result, false
	}

	s.applied = ticket
	s.generation++
	s.states = map[string]SummaryState{}
	s.metrics.Refresh(metrics.OutcomeApplied)
	s.metrics.ArticleCount(len(result.Articles))
	s.logger.Info("article set replaced", "ticket", ticket, "articles", len(result.Articles))
	return result, true
}

// Articles returns the current set, summaries included.
func (s *Session) Articles(ctx context.Context) ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx)
}

// View filters and orders the current set.
func (s *Session) View(ctx context.Context, v listing.View) ([]domain.Article, error) {
	articles, err := s.Articles(ctx)
	if err != nil {
		return nil, err
	}
	return listing.FilterAndSort(articles, v), nil
}

// Article returns one article of the current set.
func (s *Session) Article(ctx context.Context, id string) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(ctx, id)
}

// SummaryState returns the transient state for id; the zero value means idle.
func (s *Session) SummaryState(id string) SummaryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[id]
}

// SummaryStates returns a copy of every non-idle state.
func (s *Session) SummaryStates() map[string]SummaryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.states)
}

// RequestSummary produces and caches the synopsis of one article. It refuses
// once a synopsis is cached or while another request for the same article
// runs. A failure leaves the slot empty and records the message so the
// request can be retried. A synopsis that completes after the set was
// replaced is returned but not stored.
func (s *Session) RequestSummary(ctx context.Context, id string) (domain.AISummary, error) {
	article, generation, err := s.beginSummary(ctx, id)
	if err != nil {
		s.metrics.Summary(metrics.OutcomeReject)
		return domain.AISummary{}, err
	}

	start := time.Now()
	summary, err := s.summarizer.Summarize(ctx, article.Abstract)
	if err == nil {
		err = summary.Validate()
	}
	s.metrics.Observe("summarize", time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debug("article set replaced during summary", "id", id)
		if err != nil {
			s.metrics.Summary(metrics.OutcomeError)
			return domain.AISummary{}, fmt.Errorf("summarize %s: %w", id, err)
		}
		s.metrics.Summary(metrics.OutcomeStale)
		return summary, nil
	}

	if err != nil {
		s.states[id] = SummaryState{Err: err.Error()}
		s.metrics.Summary(metrics.OutcomeError)
		s.logger.Warn("summary failed", "id", id, "error", err)
		return domain.AISummary{}, fmt.Errorf("summarize %s: %w", id, err)
	}

	stored, err := s.store.SetSummary(ctx, id, summary)
	if err != nil {
		s.states[id] = SummaryState{Err: err.Error()}
		s.metrics.Summary(metrics.OutcomeError)
		return domain.AISummary{}, fmt.Errorf("store summary %s: %w", id, err)
	}
	delete(s.states, id)
	if !stored {
		s.metrics.Summary(metrics.OutcomeReject)
		return domain.AISummary{}, fmt.Errorf("%w: %s", domain.ErrSummaryExists, id)
	}

	s.metrics.Summary(metrics.OutcomeOK)
	return summary, nil
}

func (s *Session) beginSummary(ctx context.Context, id string) (domain.Article, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Article{}, 0, err
	}
	if article.HasSummary() {
		return domain.Article{}, 0, fmt.Errorf("%w: %s", domain.ErrSummaryExists, id)
	}
	if s.states[id].Loading {
		return domain.Article{}, 0, fmt.Errorf("%w: %s", domain.ErrSummaryInFlight, id)
	}
	if s.summarizer == nil {
		return domain.Article{}, 0, domain.ErrSummarizerUnavailable
	}

	s.states[id] = SummaryState{Loading: true}
	return article, s.generation, nil
}
