package routes

import (
	"net/http"

	"github.com/quakefeed/quakefeed/internal/api/handlers"
	"github.com/quakefeed/quakefeed/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	earthquakeHandler *handlers.EarthquakeHandler
	sseHandler        *handlers.SSEHandler
	healthHandler     *handlers.HealthHandler
}

// NewRouter creates a new router
func NewRouter(
	earthquakeHandler *handlers.EarthquakeHandler,
	sseHandler *handlers.SSEHandler,
	healthHandler *handlers.HealthHandler,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		earthquakeHandler: earthquakeHandler,
		sseHandler:        sseHandler,
		healthHandler:     healthHandler,
	}
}

// SetupRoutes registers every endpoint.
func (r *Router) SetupRoutes() {
	r.mux.HandleFunc("GET /health", r.healthHandler.Live)
	r.mux.HandleFunc("GET /health/ready", r.healthHandler.Ready)

	r.mux.HandleFunc("GET /api/earthquakes", r.earthquakeHandler.ListRecent)
	r.mux.HandleFunc("GET /api/earthquakes/stats", r.earthquakeHandler.Stats)
	r.mux.HandleFunc("GET /api/earthquakes/{externalId}", r.earthquakeHandler.GetByExternalID)
	r.mux.HandleFunc("GET /api/proximity", r.earthquakeHandler.Proximity)

	r.mux.HandleFunc("GET /api/stream/earthquakes", r.sseHandler.StreamEarthquakes)
}

// Handler returns the mux wrapped with middleware.
func (r *Router) Handler() http.Handler {
	var handler http.Handler = r.mux
	handler = middleware.CORSMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	return handler
}
