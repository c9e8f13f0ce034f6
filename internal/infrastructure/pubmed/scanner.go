package pubmed

import (
	"context"
	"fmt"
	"log/slog"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/normalize"
	"LiteratureScanner/internal/scanner"
)

// ScannerName identifies the PubMed strategy inside the registry.
const ScannerName = "pubmed"

// Scanner runs the two-phase search/fetch lookup and normalizes the records.
type Scanner struct {
	client     *Client
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

var _ scanner.Scanner = (*Scanner)(nil)

// NewScanner wires a client and normalizer; nil values get defaults.
func NewScanner(client *Client, normalizer *normalize.Normalizer, logger *slog.Logger) *Scanner {
	if client == nil {
		client = NewClient()
	}
	if normalizer == nil {
		normalizer = normalize.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{client: client, normalizer: normalizer, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *Scanner) Name() string {
	return ScannerName
}

// Scan searches for identifiers, fetches them in one batch and normalizes the
// result. No identifiers means no articles and no second request.
func (s *Scanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	ids, err := s.client.Search(ctx, req.Term)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	s.logger.Debug("search done", "ids", len(ids))
	if len(ids) == 0 {
		return []domain.Article{}, nil
	}

	payload, err := s.client.Fetch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch %d records: %w", len(ids), err)
	}

	records, skipped, err := DecodeRecords(payload)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.logger.Debug("skipped records without article container", "skipped", skipped)
	}

	return s.normalizer.Articles(records), nil
}
