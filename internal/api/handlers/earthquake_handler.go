package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/quakefeed/quakefeed/internal/application/services"
	"github.com/quakefeed/quakefeed/internal/domain/repositories"
	"github.com/quakefeed/quakefeed/internal/geo"
	apperrors "github.com/quakefeed/quakefeed/pkg/errors"
)

// EarthquakeHandler serves the REST surface over stored earthquakes.
type EarthquakeHandler struct {
	ingestion *services.IngestionService
	scheduler *services.SessionScheduler
	repo      repositories.EarthquakeRepository
	analyzer  *geo.ProximityAnalyzer
	logger    zerolog.Logger
}

// NewEarthquakeHandler creates a new earthquake handler.
func NewEarthquakeHandler(
	ingestion *services.IngestionService,
	scheduler *services.SessionScheduler,
	repo repositories.EarthquakeRepository,
	analyzer *geo.ProximityAnalyzer,
	logger zerolog.Logger,
) *EarthquakeHandler {
	return &EarthquakeHandler{
		ingestion: ingestion,
		scheduler: scheduler,
		repo:      repo,
		analyzer:  analyzer,
		logger:    logger.With().Str("component", "earthquake_handler").Logger(),
	}
}

// ListRecent handles GET /api/earthquakes?limit=n
func (h *EarthquakeHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	events, err := h.ingestion.Snapshot(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load snapshot")
		respondWithError(w, http.StatusInternalServerError, "failed to load earthquakes")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"earthquakes": events,
		"count":       len(events),
	})
}

// GetByExternalID handles GET /api/earthquakes/{externalId}
func (h *EarthquakeHandler) GetByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID := r.PathValue("externalId")
	if externalID == "" {
		respondWithError(w, http.StatusBadRequest, "external id is required")
		return
	}

	event, err := h.repo.GetByExternalID(r.Context(), externalID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeNotFound {
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		}
		h.logger.Error().Err(err).Str("external_id", externalID).Msg("failed to get earthquake")
		respondWithError(w, http.StatusInternalServerError, "failed to get earthquake")
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

// Stats handles GET /api/earthquakes/stats
func (h *EarthquakeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.Count(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to count earthquakes")
		respondWithError(w, http.StatusInternalServerError, "failed to count earthquakes")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"stored_events":   count,
		"active_sessions": h.scheduler.ActiveSessions(),
		"boundaries":      h.analyzer.BoundaryCount(),
	})
}

// Proximity handles GET /api/proximity?threshold_km=x — classifies the
// current snapshot against the loaded plate boundaries.
func (h *EarthquakeHandler) Proximity(w http.ResponseWriter, r *http.Request) {
	threshold := geo.DefaultThresholdKm
	if raw := r.URL.Query().Get("threshold_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid threshold_km parameter")
			return
		}
		threshold = parsed
	}

	events, err := h.ingestion.Snapshot(r.Context(), 0)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load snapshot")
		respondWithError(w, http.StatusInternalServerError, "failed to load earthquakes")
		return
	}

	summary := h.analyzer.Summarize(events, threshold)
	respondWithJSON(w, http.StatusOK, summary)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
