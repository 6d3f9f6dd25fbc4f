package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EarthquakeEvent is one seismic event observed from the upstream feed.
// ExternalID is the feed's stable identifier and the natural dedupe key:
// re-ingesting the same ExternalID updates the row in place so that
// feed-side corrections (revised magnitude, relocated epicenter) win.
type EarthquakeEvent struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Magnitude  float64   `json:"magnitude"`
	Place      string    `json:"place"`
	OccurredAt time.Time `json:"occurred_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	DetailURL  string    `json:"detail_url"`
	Longitude  float64   `json:"longitude"`
	Latitude   float64   `json:"latitude"`
	DepthKm    float64   `json:"depth_km"`
	IngestedAt time.Time `json:"ingested_at"`
}

// NewEarthquakeEvent creates an event with a fresh surrogate ID.
func NewEarthquakeEvent(externalID string) *EarthquakeEvent {
	return &EarthquakeEvent{
		ID:         uuid.New().String(),
		ExternalID: externalID,
		IngestedAt: time.Now().UTC(),
	}
}

// Epicenter returns the event's surface coordinate.
func (e *EarthquakeEvent) Epicenter() GeoPoint {
	return GeoPoint{Longitude: e.Longitude, Latitude: e.Latitude}
}

// CoordinateString encodes the epicenter as the legacy "lon,lat,depth" triple
// kept for consumers of the original record shape.
func (e *EarthquakeEvent) CoordinateString() string {
	return fmt.Sprintf("%g,%g,%g", e.Longitude, e.Latitude, e.DepthKm)
}

// ParseCoordinateString decodes a "lon,lat,depth" triple. Anything other than
// exactly three numeric components is rejected.
func ParseCoordinateString(s string) (lon, lat, depth float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("coordinate string %q: want 3 components, got %d", s, len(parts))
	}

	vals := make([]float64, 3)
	for i, part := range parts {
		v, parseErr := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if parseErr != nil {
			return 0, 0, 0, fmt.Errorf("coordinate string %q: component %d: %w", s, i, parseErr)
		}
		vals[i] = v
	}

	return vals[0], vals[1], vals[2], nil
}
