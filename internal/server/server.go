// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Olivia010207/NPS/internal/report"
)

// Options configures the HTTP server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Logger         *slog.Logger
}

// DefaultOptions listens on :8080 and allows local frontends.
func DefaultOptions() Options {
	return Options{
		Addr:           ":8080",
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		RequestTimeout: 60 * time.Second,
		MaxBodyBytes:   1 << 20,
	}
}

// Server serves one loaded dataset.
type Server struct {
	svc     *report.Service
	opt     Options
	log     *slog.Logger
	metrics *Metrics
	router  chi.Router
}

// New builds the router. Zero-valued options fall back to DefaultOptions.
func New(svc *report.Service, opt Options) *Server {
	def := DefaultOptions()
	if opt.Addr == "" {
		opt.Addr = def.Addr
	}
	if len(opt.AllowedOrigins) == 0 {
		opt.AllowedOrigins = def.AllowedOrigins
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = def.RequestTimeout
	}
	if opt.MaxBodyBytes <= 0 {
		opt.MaxBodyBytes = def.MaxBodyBytes
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		svc:     svc,
		opt:     opt,
		log:     logger.With(slog.String("component", "server")),
		metrics: NewMetrics(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(recoverer(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opt.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opt.RequestTimeout))
		r.Get("/questions", s.listQuestions)
		r.Get("/questions/{qid}", s.getQuestion)
		r.Get("/analysis-types", s.listAnalysisTypes)
		r.Post("/analyze", s.analyze)
		r.Post("/export", s.export)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opt.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", s.opt.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.opt.Addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
