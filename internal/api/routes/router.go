package routes

import (
	"net/http"

	"github.com/zatekoja/medmatch/internal/api/handlers"
	"github.com/zatekoja/medmatch/internal/api/middleware"
	"github.com/zatekoja/medmatch/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	recommendationHandler *handlers.RecommendationHandler
	datasetHandler        *handlers.DatasetHandler
	geolocationHandler    *handlers.GeolocationHandler
	analyticsHandler      *handlers.AnalyticsHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. analyticsHandler may be nil when no
// database is configured.
func NewRouter(
	recommendationHandler *handlers.RecommendationHandler,
	datasetHandler *handlers.DatasetHandler,
	geolocationHandler *handlers.GeolocationHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                   http.NewServeMux(),
		recommendationHandler: recommendationHandler,
		datasetHandler:        datasetHandler,
		geolocationHandler:    geolocationHandler,
		analyticsHandler:      analyticsHandler,
		allowedOrigins:        allowedOrigins,
		metrics:               metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Recommendation endpoints
	r.mux.HandleFunc("POST /api/recommendations", r.recommendationHandler.Recommend)
	r.mux.HandleFunc("GET /api/filters", r.recommendationHandler.Filters)

	// Dataset and cache administration endpoints
	r.mux.HandleFunc("GET /api/datasets/status", r.datasetHandler.Status)
	r.mux.HandleFunc("GET /api/datasets/{name}/integrity", r.datasetHandler.Integrity)
	r.mux.HandleFunc("POST /api/cache/refresh", r.datasetHandler.RefreshCache)
	r.mux.HandleFunc("GET /api/warmup/status", r.datasetHandler.WarmupStatus)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)

	// Analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.ZeroResultQueries)
	}

	// Middleware applies in reverse order, CORS outermost so its headers
	// are present on every response.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
