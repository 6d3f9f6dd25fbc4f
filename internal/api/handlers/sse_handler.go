package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quakefeed/quakefeed/internal/application/services"
	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/providers"
)

// SSEHandler streams earthquake snapshot updates over Server-Sent Events.
// Each connection gets its own ingestion session: the scheduler runs an
// immediate cycle, then a recurring one, publishing to the session's bus
// channel, which this handler forwards as SSE frames.
type SSEHandler struct {
	eventBus  providers.EventBus
	scheduler *services.SessionScheduler
	logger    zerolog.Logger
}

// NewSSEHandler creates a new SSE handler.
func NewSSEHandler(eventBus providers.EventBus, scheduler *services.SessionScheduler, logger zerolog.Logger) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		scheduler: scheduler,
		logger:    logger.With().Str("component", "sse_handler").Logger(),
	}
}

// StreamEarthquakes handles SSE connections.
// GET /api/stream/earthquakes
func (h *SSEHandler) StreamEarthquakes(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Subscribe before the session starts: the scheduler fires its first
	// cycle immediately, and that cycle's update must not be published into
	// a channel nobody listens on yet.
	sessionID := uuid.New().String()
	channel := providers.GetSessionChannel(sessionID)

	updateChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		h.logger.Error().Err(err).Str("channel", channel).Msg("failed to subscribe")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// The session's cycle loop is bound to the request context: client
	// disconnect cancels the recurring timer.
	session := h.scheduler.StartSession(r.Context(), sessionID)

	// Send initial connection event
	h.sendEvent(w, "connected", map[string]interface{}{
		"session_id": session.ID,
		"timestamp":  time.Now(),
	})
	flusher.Flush()

	// Keep connection alive and forward updates
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info().Str("session_id", session.ID).Msg("client disconnected")
			h.scheduler.StopSession(session.ID)
			return
		case <-ticker.C:
			// Send heartbeat
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case update, open := <-updateChan:
			if !open {
				h.logger.Info().Str("session_id", session.ID).Msg("subscription closed")
				h.scheduler.StopSession(session.ID)
				return
			}
			if update == nil {
				continue
			}
			h.sendEvent(w, entities.QuakeUpdateEvent, update)
			flusher.Flush()
		}
	}
}

// sendEvent sends an SSE event to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
