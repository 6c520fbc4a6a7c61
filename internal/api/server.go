package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ppiankov/factcheck/internal/export"
	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/rs/zerolog"
)

// Service is the analysis backend; *pipeline.Pipeline satisfies it
type Service interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.FactCheckResult, error)
	Get(ctx context.Context, id string) (*model.FactCheckResult, error)
	Enabled() bool
	ConfigError() error
	ProviderName() string
}

// Server exposes analysis, results, exports and renderer sessions over HTTP
type Server struct {
	router   *chi.Mux
	service  Service
	exporter *export.Exporter
	sessions *sessionRegistry
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
	timeout  time.Duration
}

// NewServer wires the router. exporter, m and logger may be nil.
func NewServer(cfg model.ServerConfig, service Service, exporter *export.Exporter, m *metrics.Metrics, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if exporter == nil {
		exporter = export.NewExporter(model.ExportConfig{}, m)
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = model.DefaultConfig().Server.AllowedOrigins
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware(routePattern))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", sessionHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		service:  service,
		exporter: exporter,
		sessions: newSessionRegistry(cfg.SessionTTL, logger, m),
		metrics:  m,
		logger:   logger,
		timeout:  cfg.RequestTimeout,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)

		r.Route("/results/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetResult)
			r.Get("/view", s.handleGetView)
			r.Get("/export", s.handleExport)
		})

		r.Get("/sessions/{sid}", s.handleGetSession)
	})

	s.router.Get("/download/{id}", s.handleExport)
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Bool("analysis_enabled", s.service.Enabled()).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
