package usecase

import (
	"context"
	"log/slog"
	"time"

	"LiteratureScanner/internal/ports"
)

// Scheduler wires the periodic driver with session refreshes.
type Scheduler struct {
	driver  ports.Scheduler
	session *Session
	request FetchRequest
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refreshes of req.
func NewScheduler(driver ports.Scheduler, session *Session, req FetchRequest, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, session: session, request: req, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.session == nil {
		return nil
	}

	job := func(trigger time.Time) {
		result, applied := s.session.Refresh(ctx, s.request)
		s.logger.Info("scheduled refresh",
			"trigger", trigger.Format(time.RFC3339),
			"articles", len(result.Articles),
			"applied", applied,
			"ok", result.OK())
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
