// Package api exposes the analysis engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"autobi/adapters/coercer"
	"autobi/domain/dataset"
	"autobi/domain/report"
	"autobi/internal"
	"autobi/internal/dashboard"
	"autobi/ports"
)

// Analyzer runs analyses; *dashboard.Orchestrator implements it
type Analyzer interface {
	Analyze(ctx context.Context, req dashboard.Request) (*report.Report, error)
	Profile(ctx context.Context, ds *dataset.Dataset) (*dashboard.Profile, error)
}

// Config holds HTTP limits
type Config struct {
	MaxUploadBytes int64
	MaxRows        int
	RequestTimeout time.Duration
}

// DefaultConfig returns the standard HTTP limits
func DefaultConfig() Config {
	return Config{
		MaxUploadBytes: 50 * 1024 * 1024,
		MaxRows:        100000,
		RequestTimeout: 60 * time.Second,
	}
}

// Server routes API requests to the analysis engine
type Server struct {
	config   Config
	analyzer Analyzer
	reader   ports.DataReader
	coercer  *coercer.TypeCoercer
	reports  ports.ReportRepository
	logger   *internal.Logger
	router   *chi.Mux
}

// NewServer builds the router. A nil report repository disables report
// history; those endpoints then answer 404.
func NewServer(config Config, analyzer Analyzer, reader ports.DataReader, reports ports.ReportRepository, logger *internal.Logger) *Server {
	s := &Server{
		config:   config,
		analyzer: analyzer,
		reader:   reader,
		coercer:  coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		reports:  reports,
		logger:   logger.With("API"),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/profile", s.handleProfile)
		r.Post("/ask", s.handleAsk)
		r.Get("/templates", s.handleTemplates)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("%s %s %d %.2fms", r.Method, r.URL.Path, ww.Status(), float64(time.Since(start).Nanoseconds())/1e6)
	})
}
