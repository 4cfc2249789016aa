package api

import (
	"github.com/ayo6706/transfer-simulator/internal/api/handler"
	"github.com/ayo6706/transfer-simulator/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router serves the read-only monitor endpoints of a running simulation.
type Router struct {
	logger    *zap.Logger
	source    handler.StatusSource
	rateLimit int
}

func NewRouter(logger *zap.Logger, source handler.StatusSource, rateLimit int) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{logger: logger, source: source, rateLimit: max(rateLimit, 1)}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	healthHandler := handler.NewHealthHandler()
	simulationHandler := handler.NewSimulationHandler(api.source)

	r.Get("/health/live", healthHandler.Live)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.StatusRateLimiter(api.rateLimit))
		r.Get("/v1/simulation", simulationHandler.GetStatus)
	})

	return r
}
