// Package server exposes the batch run over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/batch"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/config"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/logger"
)

// BatchRunner triggers one batch pass; *batch.Service satisfies it.
type BatchRunner interface {
	Run(ctx context.Context) (*batch.Summary, error)
}

// Server hosts the process-tweets endpoint plus health and metrics.
type Server struct {
	http   *http.Server
	runner BatchRunner
	log    logger.Logger
}

// New constructs a Server. metricsHandler may be nil, in which case /metrics
// is not registered.
func New(cfg *config.Config, runner BatchRunner, metricsHandler http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.NopLogger{}
	}

	s := &Server{runner: runner, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /process-tweets", s.handleProcessTweets)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Start begins serving HTTP traffic and blocks until the listener closes.
func (s *Server) Start() error {
	s.log.InfoObj("http server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Shutdown gracefully terminates the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.InfoObj("http server shutting down", "addr", s.http.Addr)
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// handleProcessTweets runs a full batch synchronously. Per-record failures
// are data in the summary; only store-level failure yields a 500.
func (s *Server) handleProcessTweets(w http.ResponseWriter, r *http.Request) {
	summary, err := s.runner.Run(r.Context())
	if err != nil {
		s.log.ErrorObj("batch run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
