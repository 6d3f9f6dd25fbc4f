package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuakeUpdateEvent is the name of the push event carrying a snapshot.
const QuakeUpdateEvent = "data-update"

// QuakeUpdate is the payload pushed to a subscriber after each ingestion
// cycle. The contract is the full recent snapshot only; clients diff or
// filter on their side.
type QuakeUpdate struct {
	ID             string             `json:"id"`
	SessionID      string             `json:"session_id"`
	Timestamp      time.Time          `json:"timestamp"`
	AllEarthquakes []*EarthquakeEvent `json:"allEarthquakes"`
}

// NewQuakeUpdate builds a snapshot update for one session.
func NewQuakeUpdate(sessionID string, snapshot []*EarthquakeEvent) *QuakeUpdate {
	return &QuakeUpdate{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		Timestamp:      time.Now().UTC(),
		AllEarthquakes: snapshot,
	}
}
