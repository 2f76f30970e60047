// Package server exposes the summarization pipeline over HTTP and maps
// the core's error kinds to transport statuses.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kevinmichaelchen/repo-lens/internal/github"
	"github.com/kevinmichaelchen/repo-lens/internal/llm"
	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Summarizer is the pipeline surface the server depends on.
type Summarizer interface {
	Summarize(ctx context.Context, githubURL string) (models.SummaryResult, error)
}

type Server struct {
	summarizer Summarizer
	log        *zap.Logger
}

func New(s Summarizer, log *zap.Logger) *Server {
	return &Server{summarizer: s, log: log}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	return mux
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

type summarizeRequest struct {
	GitHubURL string `json:"github_url"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GitHubURL == "" {
		writeError(w, http.StatusUnprocessableEntity, "request body must be {\"github_url\": \"...\"}")
		return
	}

	s.log.Info("summarize request", zap.String("url", body.GitHubURL))

	result, err := s.summarizer.Summarize(r.Context(), body.GitHubURL)
	if err != nil {
		status := statusFor(err)
		s.log.Warn("summarize failed",
			zap.String("url", body.GitHubURL),
			zap.Int("status", status),
			zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// statusFor maps the stable error kinds from the core onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, github.ErrInvalidURL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, github.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, github.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, github.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, llm.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// upstream failures and contract violations alike: the backend
		// misbehaved, nothing the caller's request can fix
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
