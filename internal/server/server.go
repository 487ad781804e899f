// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes stored shortlists over HTTP, including export
// downloads in every supported format.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/scholarfinder/shortlist/internal/download"
	"github.com/scholarfinder/shortlist/internal/export"
	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/internal/scholarfinder"
	"github.com/scholarfinder/shortlist/internal/shortlist"
	"github.com/scholarfinder/shortlist/pkg/types"
)

// maxBodyBytes bounds PUT request bodies.
const maxBodyBytes = 8 << 20

// ShortlistStore is the subset of shortlist.Store used by the server.
type ShortlistStore interface {
	Load(ctx context.Context, jobID string) ([]types.Reviewer, error)
	Save(ctx context.Context, jobID string, reviewers []types.Reviewer) error
	Delete(ctx context.Context, jobID string) error
	List(ctx context.Context) ([]shortlist.Summary, error)
}

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      ShortlistStore
	logger     zerolog.Logger
	metrics    *observability.Metrics
	gatherer   prometheus.Gatherer
	now        func() time.Time
}

// New builds a Server. gatherer backs /metrics and may be nil to disable it.
func New(cfg types.ServerConfig, store ShortlistStore, logger zerolog.Logger, metrics *observability.Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		store:    store,
		logger:   logger.With().Str("component", "http-server").Logger(),
		metrics:  metrics,
		gatherer: gatherer,
		now:      time.Now,
	}
	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Get("/healthz", s.healthHandler)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shortlists", s.listShortlists)
		r.Route("/jobs/{jobID}/shortlist", func(r chi.Router) {
			r.Get("/", s.getShortlist)
			r.Put("/", s.putShortlist)
			r.Delete("/", s.deleteShortlist)
			r.Get("/export.{format}", s.exportShortlist)
		})
	})

	return r
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	s.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server starting")
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listShortlists(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if list == nil {
		list = []shortlist.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"shortlists": list})
}

type shortlistResponse struct {
	JobID     string           `json:"job_id"`
	Count     int              `json:"reviewer_count"`
	Reviewers []types.Reviewer `json:"reviewers"`
}

func (s *Server) getShortlist(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	reviewers, ok := s.load(w, r, jobID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, shortlistResponse{JobID: jobID, Count: len(reviewers), Reviewers: reviewers})
}

// putShortlist replaces a job's shortlist. Job IDs must be ScholarFinder
// UUIDs so the shortlist can later be refreshed from the API.
func (s *Server) putShortlist(w http.ResponseWriter, r *http.Request) {
	jobID, err := scholarfinder.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var reviewers []types.Reviewer
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reviewers); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding reviewers: %v", err))
		return
	}
	if err := shortlist.Validate(reviewers); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), jobID, reviewers); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shortlistResponse{JobID: jobID, Count: len(reviewers), Reviewers: reviewers})
}

func (s *Server) deleteShortlist(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if err := s.store.Delete(r.Context(), jobID); err != nil {
		if errors.Is(err, shortlist.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportShortlist streams the job's shortlist as a download.
func (s *Server) exportShortlist(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	reviewers, ok := s.load(w, r, jobID)
	if !ok {
		return
	}

	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	exp := export.NewExporter(
		download.ResponseSaver{W: ww},
		export.WithClock(s.now),
		export.WithLogger(observability.WithJob(*hlog.FromRequest(r), jobID)),
		export.WithMetrics(s.metrics),
	)

	err = exp.Export(format, reviewers)
	if err == nil || ww.Status() != 0 {
		return
	}

	status := http.StatusInternalServerError
	var verr *export.ValidationError
	if errors.As(err, &verr) {
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, err.Error())
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, jobID string) ([]types.Reviewer, bool) {
	reviewers, err := s.store.Load(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, shortlist.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return nil, false
		}
		s.internalError(w, r, err)
		return nil, false
	}
	return reviewers, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
