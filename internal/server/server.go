// Package server exposes imports over HTTP for `movegraph serve`.
//
// Routes:
//
//	GET  /healthz     liveness plus a store check
//	POST /v1/imports  import the graph document in the request body
//
// The server holds one store for its whole lifetime; the caller opens it
// and closes it after [Server.ListenAndServe] returns.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/buildinfo"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/pipeline"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "movegraph"

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Addr string

	// MaxBodyBytes caps the request body of an import. Zero means no cap.
	MaxBodyBytes int64

	// Target scopes ledger entries, as in pipeline.Options.
	Target string

	// SkipUnchanged and EnsureIndexes are the defaults for requests that
	// do not set the matching query parameter.
	SkipUnchanged bool
	EnsureIndexes bool
}

// Server serves imports against a single store.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	opts   Options
}

// New creates a server. A nil logger means log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger, opts: opts}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/imports", s.handleImport)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Store     string    `json:"store,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	storeStatus := "unknown"
	if p, ok := s.store.(store.Pinger); ok {
		pingCtx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			storeStatus = "down"
			status = "degraded"
		} else {
			storeStatus = "up"
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   ServiceName,
		Version:   buildinfo.Version,
		Store:     storeStatus,
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := io.Reader(r.Body)
	if s.opts.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge,
				errors.New(errors.ErrCodeInvalidInput, "document exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.fail(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	opts := pipeline.Options{
		Target:        s.opts.Target,
		SkipUnchanged: queryBool(r, "skip_unchanged", s.opts.SkipUnchanged),
		EnsureIndexes: queryBool(r, "ensure_indexes", s.opts.EnsureIndexes),
		Logger:        s.logger.With("request_id", RequestID(r.Context())),
	}
	res, err := s.runner.Execute(r.Context(), s.store, data, opts)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.RootCode(err)),
		RequestID: RequestID(r.Context()),
	})
}

// statusFor maps an import error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Has(err, errors.ErrCodeStoreUnavailable):
		return http.StatusServiceUnavailable
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func queryBool(r *http.Request, key string, def bool) bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
