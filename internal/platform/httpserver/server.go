package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	forumservice "moringadesk/contexts/community-qa/forum-service"
	auth "moringadesk/contexts/identity-access/auth-service"

	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "moringadesk/internal/platform/httpserver/docs"
)

// Options tunes cross-cutting behaviour of the server.
type Options struct {
	CORSAllowedOrigins []string
	// PoolStats, when set, is sampled into the db pool gauge on each scrape.
	PoolStats func() map[string]float64
}

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	logger     *slog.Logger
	addr       string
	forum      forumservice.Module
	auth       auth.Module
	validator  *requestValidator
	metrics    *serverMetrics
	registry   *prometheus.Registry
	origins    map[string]struct{}
	httpServer *http.Server
}

func New(
	forum forumservice.Module,
	authModule auth.Module,
	logger *slog.Logger,
	addr string,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		forum:     forum,
		auth:      authModule,
		validator: newRequestValidator(),
		metrics:   newServerMetrics(registry, opts.PoolStats),
		registry:  registry,
		origins:   make(map[string]struct{}, len(opts.CORSAllowedOrigins)),
	}
	for _, origin := range opts.CORSAllowedOrigins {
		s.origins[origin] = struct{}{}
	}
	s.registerRoutes()
	s.handler = s.withCORS(s.withMetrics(s.mux))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", s.metricsHandler())
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.registerAuthRoutes()
	s.registerForumRoutes()
	s.registerAdminRoutes()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
