// Package server exposes the categorical workbench over HTTP: example
// management, algebra execution, instance computation, and semantic
// validation. Core errors never crash the process; they become
// structured {success:false, error} responses.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/codsl/config"
	"github.com/c360studio/codsl/store"
	"github.com/c360studio/codsl/validator"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// ErrUnknownOperation is returned for operation names outside the
// algebra.
var ErrUnknownOperation = errors.New("unknown operation")

// Server hosts the workbench API.
type Server struct {
	store        store.Store
	validator    *validator.Validator
	logger       *slog.Logger
	metrics      *metrics
	defaultLevel validator.Level
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithValidator sets the semantic validator used by /api/validate.
func WithValidator(v *validator.Validator) Option {
	return func(s *Server) {
		s.validator = v
	}
}

// WithDefaultLevel sets the validation level used when a request does
// not name one.
func WithDefaultLevel(level validator.Level) Option {
	return func(s *Server) {
		s.defaultLevel = level
	}
}

// New creates a workbench server over the given example store.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:        st,
		logger:       slog.Default(),
		metrics:      newMetrics(),
		defaultLevel: validator.LevelStructural,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		// LLM-less validator still serves structural checks.
		s.validator = validator.New(nil, validator.WithLogger(s.logger))
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/examples", s.instrument("/api/examples", s.handleListExamples))
	mux.HandleFunc("/api/example/", s.instrument("/api/example", s.handleGetExample))
	mux.HandleFunc("/api/save_example", s.instrument("/api/save_example", s.handleSaveExample))
	mux.HandleFunc("/api/execute", s.instrument("/api/execute", s.handleExecute))
	mux.HandleFunc("/api/compute_instances", s.instrument("/api/compute_instances", s.handleComputeInstances))
	mux.HandleFunc("/api/validate", s.instrument("/api/validate", s.handleValidate))
	mux.HandleFunc("/api/export", s.instrument("/api/export", s.handleExport))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("workbench listening", slog.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// instrument wraps a handler with latency observation.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.metrics.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing to do.
		_ = err
	}
}

// errorResponse is the structured failure shape shared by every
// endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Success: false, Error: err.Error()})
}

// decodeBody reads a bounded JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(v)
}
