// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                                 liveness probe
//	POST /layout                                  lay out a posted family document
//	GET  /families/{id}/layout                    lay out a family fetched from the API
//	GET  /snapshots/{familyID}                    list archived snapshots
//	GET  /snapshots/{familyID}/latest/layout      lay out the newest snapshot
//
// Layout routes take ?format=json|text|dot|svg|pdf|png (json by default).
// Errors are JSON objects {"message": ..., "code": ...} with the status
// derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jiapu/pkg/pipeline"
	"github.com/matzehuels/jiapu/pkg/storage"
)

// MaxBodySize bounds posted family documents.
const MaxBodySize = 10 << 20

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 10 * time.Second

// Server serves layouts. Store may be nil, in which case snapshot routes
// answer 501.
type Server struct {
	Runner *pipeline.Runner
	Store  storage.Store
	Logger *log.Logger
}

// New creates a server. A nil logger means log.Default().
func New(runner *pipeline.Runner, store storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Store: store, Logger: logger}
}

// Handler returns the routed handler with the standard middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.Logger))

	r.Get("/healthz", s.healthz)
	r.Post("/layout", s.postLayout)
	r.Get("/families/{id}/layout", s.familyLayout)
	r.Route("/snapshots/{familyID}", func(r chi.Router) {
		r.Get("/", s.listSnapshots)
		r.Get("/latest/layout", s.snapshotLayout)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()))
		})
	}
}
