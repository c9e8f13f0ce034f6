package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/ports"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry *Registry
	names    []string
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires the registry with the scanner names to run, in order.
func NewStrategySource(reg *Registry, names []string, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		names:    names,
		logger:   log,
	}
}

// Fetch runs every configured scanner against term and concatenates the results.
// An ID already produced by an earlier scanner is dropped, so IDs stay unique
// across the whole result set.
func (s *StrategySource) Fetch(ctx context.Context, term string) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch", "scanners", len(s.names), "term", term)

	aggregated := make([]domain.Article, 0)
	seen := make(map[string]struct{})
	dropped := 0
	for _, name := range s.names {
		strategy, err := s.registry.Resolve(name)
		if err != nil {
			return nil, err
		}

		results, err := strategy.Scan(ctx, Request{Term: term})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}

		s.debug("scanner produced articles", "scanner", name, "count", len(results))
		for _, article := range results {
			if _, dup := seen[article.ID]; dup {
				dropped++
				continue
			}
			seen[article.ID] = struct{}{}
			aggregated = append(aggregated, article)
		}
	}

	s.debug("strategy source done", "total_articles", len(aggregated), "duplicates_dropped", dropped)
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
