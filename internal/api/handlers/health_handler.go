package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HealthCheck probes one backing dependency by name.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes. Liveness is always OK
// while the process runs; readiness pings every registered dependency.
type HealthHandler struct {
	checks []HealthCheck
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger zerolog.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger.With().Str("component", "health_handler").Logger(),
	}
}

// Live handles GET /health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dependencies := make(map[string]string, len(h.checks))
	ready := true
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			ready = false
			dependencies[check.Name] = err.Error()
			h.logger.Warn().Err(err).Str("dependency", check.Name).Msg("readiness check failed")
			continue
		}
		dependencies[check.Name] = "ok"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	respondWithJSON(w, statusCode, map[string]any{
		"ready":        ready,
		"dependencies": dependencies,
	})
}
