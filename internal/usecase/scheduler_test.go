package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiteratureScanner/internal/domain"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRefreshesSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var terms []string
	session, _ := newSession(func(_ context.Context, term string) ([]domain.Article, error) {
		terms = append(terms, term)
		return staticArticles("1"), nil
	}, nil)

	driver := &manualDriver{}
	s := NewScheduler(driver, session, FetchRequest{Days: 14}, nil)
	require.NoError(t, s.Start(ctx))
	require.NotNil(t, driver.job)

	driver.job(time.Now())
	require.Len(t, terms, 1)
	assert.Contains(t, terms[0], `"last 14 days"[dp]`)

	articles, err := session.Articles(ctx)
	require.NoError(t, err)
	assert.Len(t, articles, 1)

	require.NoError(t, s.Stop(ctx))
	assert.True(t, driver.stopped)
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, FetchRequest{}, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
