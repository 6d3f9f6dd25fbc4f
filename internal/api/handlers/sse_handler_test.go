package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakefeed/quakefeed/internal/adapters/database"
	"github.com/quakefeed/quakefeed/internal/adapters/events"
	"github.com/quakefeed/quakefeed/internal/application/services"
	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

type singleEventFeed struct{}

func (singleEventFeed) FetchWindow(ctx context.Context, start, end time.Time) ([]*entities.EarthquakeEvent, error) {
	event := entities.NewEarthquakeEvent("usgs1")
	event.Magnitude = 4.2
	event.OccurredAt = end
	return []*entities.EarthquakeEvent{event}, nil
}

func TestStreamEarthquakes_FirstSnapshotNeedsNoTick(t *testing.T) {
	repo := database.NewMemoryEarthquakeAdapter()
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { bus.Close() })

	ingestion := services.NewIngestionService(singleEventFeed{}, repo, bus, 5, 500, zerolog.Nop())
	scheduler := services.NewSessionScheduler(ingestion, time.Hour, zerolog.Nop())
	handler := NewSSEHandler(bus, scheduler, zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stream/earthquakes", handler.StreamEarthquakes)
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/stream/earthquakes", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The tick interval is an hour: the only update the client can see inside
	// the deadline is the immediate first cycle's, which requires the
	// subscription to exist before the session starts.
	scanner := bufio.NewScanner(resp.Body)
	sawConnected := false
	for scanner.Scan() {
		switch scanner.Text() {
		case "event: connected":
			sawConnected = true
		case "event: " + entities.QuakeUpdateEvent:
			assert.True(t, sawConnected, "connected frame should precede the snapshot")
			return
		}
	}
	t.Fatal("stream ended without a snapshot update")
}
