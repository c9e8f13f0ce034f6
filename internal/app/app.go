package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"LiteratureScanner/internal/config"
	"LiteratureScanner/internal/infrastructure/llm"
	"LiteratureScanner/internal/infrastructure/ml"
	"LiteratureScanner/internal/infrastructure/pubmed"
	"LiteratureScanner/internal/infrastructure/scheduler"
	"LiteratureScanner/internal/infrastructure/storage"
	"LiteratureScanner/internal/logging"
	"LiteratureScanner/internal/metrics"
	"LiteratureScanner/internal/normalize"
	"LiteratureScanner/internal/ports"
	"LiteratureScanner/internal/scanner"
	"LiteratureScanner/internal/server"
	"LiteratureScanner/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLiteRepository
	metrics  *metrics.Metrics
	pipeline *usecase.Pipeline
	session  *usecase.Session
}

// New builds the adapters and use cases described by cfg.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.OpenSQLite(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	m := metrics.New()

	client := pubmed.NewClient(
		pubmed.WithBaseURL(cfg.PubMed.BaseURL),
		pubmed.WithHTTPClient(&http.Client{Timeout: cfg.PubMed.Timeout}),
		pubmed.WithAPIKey(cfg.PubMed.APIKey),
		pubmed.WithContact(cfg.PubMed.Tool, cfg.PubMed.Email),
		pubmed.WithMaxResults(cfg.PubMed.MaxResults),
		pubmed.WithRateLimit(cfg.PubMed.RateLimit),
	)

	registry := scanner.NewRegistry()
	registry.Register(pubmed.NewScanner(client, normalize.New(), baseLogger.With("component", "scanner.pubmed")))

	source := scanner.NewStrategySource(registry, cfg.Fetch.Scanners, baseLogger.With("component", "source"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:  source,
		Metrics: m,
		Logger:  baseLogger.With("component", "pipeline"),
	})

	session := usecase.NewSession(usecase.SessionDeps{
		Pipeline:   pipeline,
		Store:      store,
		Summarizer: newSummarizer(cfg.Summarizer, baseLogger),
		Metrics:    m,
		Logger:     baseLogger.With("component", "session"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		metrics:  m,
		pipeline: pipeline,
		session:  session,
	}, nil
}

// newSummarizer returns nil when the selected provider is not configured, which
// the session reports as domain.ErrSummarizerUnavailable.
func newSummarizer(cfg config.SummarizerConfig, logger *slog.Logger) ports.Summarizer {
	switch cfg.Provider {
	case config.ProviderHTTP:
		if cfg.Endpoint == "" {
			logger.Warn("summarizer endpoint not set, summaries disabled")
			return nil
		}
		return ml.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Timeout)
	default:
		s, err := llm.NewOpenAISummarizer(cfg)
		if err != nil {
			logger.Warn("openai summarizer disabled", "reason", err)
			return nil
		}
		return s
	}
}

// Session exposes the shared article set.
func (a *Application) Session() *usecase.Session {
	return a.session
}

// Pipeline exposes the one-shot fetch pipeline.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// DefaultFetchRequest is the configured window and publication types.
func (a *Application) DefaultFetchRequest() usecase.FetchRequest {
	return usecase.FetchRequest{
		Days:             a.cfg.Fetch.DaysWindow,
		PublicationTypes: a.cfg.Fetch.PublicationTypes,
	}
}

// Serve runs the periodic refresh and the HTTP API until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	sched := usecase.NewScheduler(
		scheduler.NewTickerScheduler(a.cfg.Fetch.RefreshInterval),
		a.session,
		a.DefaultFetchRequest(),
		a.logger.With("component", "scheduler"),
	)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	srv, err := server.New(a.session, a.DefaultFetchRequest(), a.metrics.Handler(), a.logger.With("component", "http"))
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "error", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	return serveErr
}

// Close releases the store.
func (a *Application) Close() error {
	return a.store.Close()
}
