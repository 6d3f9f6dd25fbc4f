package usgs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"id": "us7000abcd",
			"properties": {
				"mag": 5.4,
				"place": "10km SSW of Somewhere",
				"time": 1756296000000,
				"updated": 1756296060000,
				"detail": "https://earthquake.usgs.gov/fdsnws/event/1/query?eventid=us7000abcd"
			},
			"geometry": {"type": "Point", "coordinates": [142.3, 38.1, 29.5]}
		},
		{
			"id": "us7000efgh",
			"properties": {"mag": null, "place": "", "time": 1756296120000, "updated": 1756296120000},
			"geometry": {"type": "Point", "coordinates": [-120.5, 35.2, 8.0]}
		}
	]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, zerolog.Nop()), server
}

func TestClient_FetchWindowMapsFeatures(t *testing.T) {
	var gotQuery map[string]string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fdsnws/event/1/query", r.URL.Path)
		gotQuery = map[string]string{
			"format":    r.URL.Query().Get("format"),
			"starttime": r.URL.Query().Get("starttime"),
			"endtime":   r.URL.Query().Get("endtime"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedFixture))
	})
	defer server.Close()

	start := time.Date(2026, 8, 27, 11, 55, 0, 0, time.UTC)
	end := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	events, err := client.FetchWindow(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "geojson", gotQuery["format"])
	assert.Equal(t, "2026-08-27T11:55:00Z", gotQuery["starttime"])
	assert.Equal(t, "2026-08-27T12:00:00Z", gotQuery["endtime"])

	first := events[0]
	assert.Equal(t, "us7000abcd", first.ExternalID)
	assert.Equal(t, 5.4, first.Magnitude)
	assert.Equal(t, "10km SSW of Somewhere", first.Place)
	assert.Equal(t, time.UnixMilli(1756296000000).UTC(), first.OccurredAt)
	assert.Equal(t, time.UnixMilli(1756296060000).UTC(), first.UpdatedAt)
	assert.Equal(t, 142.3, first.Longitude)
	assert.Equal(t, 38.1, first.Latitude)
	assert.Equal(t, 29.5, first.DepthKm)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.IngestedAt.IsZero())

	// Null magnitude is a valid feed value, not a malformed record.
	assert.Equal(t, "us7000efgh", events[1].ExternalID)
	assert.Equal(t, 0.0, events[1].Magnitude)
}

func TestClient_FetchWindowDropsMalformedFeatures(t *testing.T) {
	body := `{
		"features": [
			{"id": "", "geometry": {"type": "Point", "coordinates": [1, 2, 3]}},
			{"id": "no-point", "geometry": {"type": "LineString", "coordinates": [1, 2, 3]}},
			{"id": "short", "geometry": {"type": "Point", "coordinates": [1, 2]}},
			{"id": "good", "properties": {"mag": 3.1, "time": 1756296000000, "updated": 1756296000000},
			 "geometry": {"type": "Point", "coordinates": [1, 2, 3]}}
		]
	}`
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	defer server.Close()

	events, err := client.FetchWindow(context.Background(), time.Now().Add(-5*time.Minute), time.Now())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "good", events[0].ExternalID)
}

func TestClient_FetchWindowErrorPaths(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "invalid json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(tt.handler)
			defer server.Close()

			_, err := client.FetchWindow(context.Background(), time.Now().Add(-5*time.Minute), time.Now())
			assert.Error(t, err)
		})
	}
}

func TestClient_FetchWindowHonoursContext(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchWindow(ctx, time.Now().Add(-5*time.Minute), time.Now())
	assert.Error(t, err)
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	client := NewClient("", zerolog.Nop())
	assert.Equal(t, DefaultBaseURL, client.baseURL)

	trimmed := NewClient("http://example.test/", zerolog.Nop())
	assert.Equal(t, "http://example.test", trimmed.baseURL)
}
