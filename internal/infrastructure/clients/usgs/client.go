package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

// DefaultBaseURL is the USGS FDSN event web service.
const DefaultBaseURL = "https://earthquake.usgs.gov"

// Client fetches earthquake events from the USGS fdsnws GeoJSON feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// feature mirrors one GeoJSON feature in the feed response. Times are epoch
// milliseconds; coordinates are a [lon, lat, depth] triple.
type feature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag     *float64 `json:"mag"`
		Place   string   `json:"place"`
		Time    int64    `json:"time"`
		Updated int64    `json:"updated"`
		Detail  string   `json:"detail"`
	} `json:"properties"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type queryResponse struct {
	Features []feature `json:"features"`
}

// NewClient creates a feed client. An empty baseURL selects the public USGS
// endpoint.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("component", "usgs_client").Logger(),
	}
}

// FetchWindow queries the feed for events in [start, end]. Malformed features
// are dropped with a diagnostic; transport failures and non-2xx responses are
// returned as errors for the caller to degrade on.
func (c *Client) FetchWindow(ctx context.Context, start, end time.Time) ([]*entities.EarthquakeEvent, error) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/fdsnws/event/1/query", c.baseURL))
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("format", "geojson")
	query.Set("starttime", start.UTC().Format(time.RFC3339))
	query.Set("endtime", end.UTC().Format(time.RFC3339))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	events := make([]*entities.EarthquakeEvent, 0, len(payload.Features))
	for _, f := range payload.Features {
		event, err := c.toEvent(f)
		if err != nil {
			c.logger.Warn().Err(err).Str("feature_id", f.ID).Msg("dropping malformed feed feature")
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// toEvent validates and converts one feed feature.
func (c *Client) toEvent(f feature) (*entities.EarthquakeEvent, error) {
	if f.ID == "" {
		return nil, fmt.Errorf("feature has no id")
	}
	if f.Geometry.Type != "Point" {
		return nil, fmt.Errorf("unexpected geometry type %q", f.Geometry.Type)
	}
	if len(f.Geometry.Coordinates) != 3 {
		return nil, fmt.Errorf("coordinate triple has %d components", len(f.Geometry.Coordinates))
	}
	for _, v := range f.Geometry.Coordinates {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite coordinate component")
		}
	}

	event := entities.NewEarthquakeEvent(f.ID)
	if f.Properties.Mag != nil {
		event.Magnitude = *f.Properties.Mag
	}
	event.Place = f.Properties.Place
	event.OccurredAt = time.UnixMilli(f.Properties.Time).UTC()
	event.UpdatedAt = time.UnixMilli(f.Properties.Updated).UTC()
	event.DetailURL = f.Properties.Detail
	event.Longitude = f.Geometry.Coordinates[0]
	event.Latitude = f.Geometry.Coordinates[1]
	event.DepthKm = f.Geometry.Coordinates[2]

	return event, nil
}
