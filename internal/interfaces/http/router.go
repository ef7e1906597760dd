// Package http assembles the chi route tree and the HTTP server of the
// search API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/mini-spade/internal/interfaces/http/handlers"
	"github.com/turtacn/mini-spade/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	PatentHandler *handlers.PatentHandler
	HealthHandler *handlers.HealthHandler

	CORS    middleware.CORSConfig
	Logging middleware.LoggingConfig

	Logger logging.Logger
	// Metrics and MetricsCollector are optional; without them no /metrics
	// endpoint is mounted and requests are not measured.
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the route tree.  Every route answers GET only; other
// methods get a JSON 405 and unknown paths a JSON 404.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	r.MethodNotAllowed(handlers.MethodNotAllowed)
	r.NotFound(handlers.NotFound)

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, cfg.MetricsCollector.Handler())
	}

	if h := cfg.PatentHandler; h != nil {
		r.Route("/api", func(api chi.Router) {
			api.Get("/search", h.Search)
			api.Get("/similar", h.Similar)
			api.Get("/patents/{id}", h.Get)
		})
	}

	return r
}

//Personal.AI order the ending
