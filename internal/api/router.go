package api

import (
	"charging-route-service/internal/api/handlers"
	"charging-route-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	Stations handlers.StationCatalog
	Search   *services.RouteSearch
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	stationHandler := &handlers.StationHandler{Stations: cfg.Stations}
	routeHandler := &handlers.RouteHandler{Search: cfg.Search}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.HandleFunc("/health", stationHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/stations", stationHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/stations/{id}/neighbors", stationHandler.Neighbors).Methods(http.MethodGet)
	r.HandleFunc("/routes", routeHandler.Plan).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	return requestIDMiddleware(loggingMiddleware(rateLimitMiddleware(limiter)(r)))
}
