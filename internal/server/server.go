// Package server exposes the article session as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/listing"
	"LiteratureScanner/internal/render"
	"LiteratureScanner/internal/usecase"
	"LiteratureScanner/internal/vocabulary"
)

// Server routes HTTP requests to a session.
type Server struct {
	session  *usecase.Session
	defaults usecase.FetchRequest
	metrics  http.Handler
	logger   *slog.Logger
}

// New builds a server. defaults fills the fields a refresh request omits;
// a nil metrics handler disables /metrics.
func New(session *usecase.Session, defaults usecase.FetchRequest, metrics http.Handler, logger *slog.Logger) (*Server, error) {
	if session == nil {
		return nil, errors.New("session required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		session:  session,
		defaults: defaults,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/articles", s.handleArticles)
	mux.HandleFunc("GET /api/articles/{id}", s.handleArticle)
	mux.HandleFunc("POST /api/articles/{id}/summary", s.handleSummary)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/vocabulary", s.handleVocabulary)
	mux.HandleFunc("GET /api/digest", s.handleDigest)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return s.logMiddleware(mux)
}

// --- Handlers ---

type articleResp struct {
	domain.Article
	SummaryState usecase.SummaryState `json:"summaryState"`
}

type refreshReq struct {
	Days             int      `json:"days"`
	PublicationTypes []string `json:"publicationTypes"`
}

type refreshResp struct {
	Count   int    `json:"count"`
	Applied bool   `json:"applied"`
	Term    string `json:"term"`
	Error   string `json:"error,omitempty"`
}

type vocabularyResp struct {
	Journals         []string `json:"journals"`
	PublicationTypes []string `json:"publicationTypes"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.session.View(r.Context(), viewFromQuery(r))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	states := s.session.SummaryStates()
	resp := make([]articleResp, 0, len(articles))
	for _, a := range articles {
		resp = append(resp, articleResp{Article: a, SummaryState: states[a.ID]})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	article, err := s.session.Article(r.Context(), id)
	if err != nil {
		s.writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	writeJSON(w, http.StatusOK, articleResp{Article: article, SummaryState: s.session.SummaryState(id)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.session.RequestSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, statusFor(err, http.StatusBadGateway), err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	fetch := s.defaults
	if req.Days > 0 {
		fetch.Days = req.Days
	}
	if req.PublicationTypes != nil {
		fetch.PublicationTypes = req.PublicationTypes
	}

	result, applied := s.session.Refresh(r.Context(), fetch)
	resp := refreshResp{Applied: applied, Term: result.Term}
	if applied {
		resp.Count = len(result.Articles)
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, vocabularyResp{
		Journals:         vocabulary.JournalNames(),
		PublicationTypes: vocabulary.PublicationTypeNames(),
	})
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	articles, err := s.session.View(r.Context(), viewFromQuery(r))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", render.FormatHTML:
		html, err := render.HTML(articles)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, html)
	case render.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, render.Markdown(articles))
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("format must be html or markdown"))
	}
}

// --- Helpers ---

func viewFromQuery(r *http.Request) listing.View {
	q := r.URL.Query()
	v := listing.DefaultView()
	if journals := q["journal"]; len(journals) > 0 {
		v.Journals = journals
	}
	v.Query = q.Get("q")
	v.Sort = domain.ParseSortDirection(q.Get("sort"))
	return v
}

// statusFor maps domain errors to HTTP statuses; anything else gets fallback.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSummaryExists), errors.Is(err, domain.ErrSummaryInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSummarizerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return fallback
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResp{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
