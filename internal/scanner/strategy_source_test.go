package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiteratureScanner/internal/domain"
)

type stubScanner struct {
	name     string
	articles []domain.Article
	err      error
	terms    []string
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(_ context.Context, req Request) ([]domain.Article, error) {
	s.terms = append(s.terms, req.Term)
	return s.articles, s.err
}

func TestStrategySourceAggregates(t *testing.T) {
	t.Parallel()

	first := &stubScanner{name: "a", articles: []domain.Article{{ID: "1"}}}
	second := &stubScanner{name: "b", articles: []domain.Article{{ID: "2"}, {ID: "3"}}}

	reg := NewRegistry()
	reg.Register(first)
	reg.Register(second)

	src := NewStrategySource(reg, []string{"a", "b"}, nil)
	got, err := src.Fetch(context.Background(), "term")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[2].ID)
	assert.Equal(t, []string{"term"}, first.terms)
	assert.Equal(t, []string{"term"}, second.terms)
}

func TestStrategySourceErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	reg := NewRegistry()
	reg.Register(&stubScanner{name: "bad", err: boom})

	_, err := NewStrategySource(reg, []string{"bad"}, nil).Fetch(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	_, err = NewStrategySource(reg, []string{"missing"}, nil).Fetch(context.Background(), "x")
	assert.Error(t, err)

	_, err = NewStrategySource(nil, []string{"bad"}, nil).Fetch(context.Background(), "x")
	assert.Error(t, err)
}

func TestStrategySourceNoScanners(t *testing.T) {
	t.Parallel()

	got, err := NewStrategySource(NewRegistry(), nil, nil).Fetch(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStrategySourceDropsDuplicateIDs(t *testing.T) {
	t.Parallel()

	first := &stubScanner{name: "a", articles: []domain.Article{{ID: "1", Title: "first"}, {ID: "2"}}}
	second := &stubScanner{name: "b", articles: []domain.Article{{ID: "2", Title: "later"}, {ID: "3"}}}

	reg := NewRegistry()
	reg.Register(first)
	reg.Register(second)

	got, err := NewStrategySource(reg, []string{"a", "a", "b"}, nil).Fetch(context.Background(), "term")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Equal(t, "first", got[0].Title)
	assert.Empty(t, got[1].Title)
	assert.Len(t, first.terms, 2)
}
