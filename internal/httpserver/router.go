// Package httpserver exposes liveness and readiness endpoints for the process.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger checks the database connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

// TimerStats reports live trigger counts
type TimerStats interface {
	Count() int
}

// StateStats reports pending conversation flows
type StateStats interface {
	Len() int
}

type Options struct {
	DB     Pinger
	Timers TimerStats
	States StateStats
}

type readiness struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	Timers        int    `json:"timers"`
	PendingInputs int    `json:"pending_inputs"`
}

// NewRouter builds the operational HTTP handler
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		body := readiness{Status: "ok", Database: "ok"}
		code := http.StatusOK

		if err := opts.DB.PingContext(ctx); err != nil {
			body.Status = "degraded"
			body.Database = err.Error()
			code = http.StatusServiceUnavailable
		}
		if opts.Timers != nil {
			body.Timers = opts.Timers.Count()
		}
		if opts.States != nil {
			body.PendingInputs = opts.States.Len()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	})

	return r
}

// Server runs the router until its context is cancelled
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer creates a server listening on addr
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		s.logger.Info("HTTP server stopped")
		return nil
	}
}
