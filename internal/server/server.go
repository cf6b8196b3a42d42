// Package server exposes the comparison pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aniket-charjan/ui-diff-detector/internal/config"
	"github.com/aniket-charjan/ui-diff-detector/internal/store"
	"github.com/aniket-charjan/ui-diff-detector/pkg/differ"
)

// Server bundles the HTTP server with its collaborators.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	differ *differ.Differ
	log    *zap.SugaredLogger
	http   *http.Server
}

// New wires routes and returns a Server ready to run.
func New(cfg *config.Config, st *store.Store, d *differ.Differ, log *zap.SugaredLogger) *Server {
	s := &Server{cfg: cfg, store: st, differ: d, log: log}
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.routes(),
	}
	return s
}

// routes registers API endpoints and static serving of the uploaded and
// generated images.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/compare", CompareHandler(s.differ, s.store, s.cfg, s.log))
	mux.HandleFunc("/api/comparisons", ListComparisonsHandler(s.store, s.log))
	mux.HandleFunc("/api/comparisons/view", ViewComparisonHandler(s.store, s.log))
	mux.HandleFunc("/api/comparisons/delete", DeleteComparisonHandler(s.store, s.log))

	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadsDir))))
	mux.Handle("/outputs/", http.StripPrefix("/outputs/", http.FileServer(http.Dir(s.cfg.OutputsDir))))

	return s.logRequests(mux)
}

// logRequests records method, path, status and duration for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
