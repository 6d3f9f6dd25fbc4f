package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/repositories"
	apperrors "github.com/quakefeed/quakefeed/pkg/errors"
)

// MemoryEarthquakeAdapter implements EarthquakeRepository in process memory.
// Used by tests and by dev mode when no database is configured. The mutex
// gives Upsert the same atomicity the Postgres adapter gets from its
// conditional insert.
type MemoryEarthquakeAdapter struct {
	mu     sync.RWMutex
	events map[string]*entities.EarthquakeEvent // keyed by external id
}

// NewMemoryEarthquakeAdapter creates an empty in-memory store.
func NewMemoryEarthquakeAdapter() *MemoryEarthquakeAdapter {
	return &MemoryEarthquakeAdapter{
		events: make(map[string]*entities.EarthquakeEvent),
	}
}

// Upsert creates or replaces the record for the event's external id.
func (a *MemoryEarthquakeAdapter) Upsert(ctx context.Context, event *entities.EarthquakeEvent) (*entities.EarthquakeEvent, error) {
	if event == nil {
		return nil, apperrors.NewInternalError("earthquake event is nil", fmt.Errorf("event is nil"))
	}
	if event.ExternalID == "" {
		return nil, apperrors.NewValidationError("earthquake event has no external id")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	stored, exists := a.events[event.ExternalID]
	if !exists {
		stored = &entities.EarthquakeEvent{
			ID:         event.ID,
			ExternalID: event.ExternalID,
			IngestedAt: event.IngestedAt,
		}
		a.events[event.ExternalID] = stored
	}

	stored.Magnitude = event.Magnitude
	stored.Place = event.Place
	stored.OccurredAt = event.OccurredAt
	stored.UpdatedAt = event.UpdatedAt
	stored.DetailURL = event.DetailURL
	stored.Longitude = event.Longitude
	stored.Latitude = event.Latitude
	stored.DepthKm = event.DepthKm

	copied := *stored
	return &copied, nil
}

// ListRecent returns up to limit events ordered by OccurredAt descending.
func (a *MemoryEarthquakeAdapter) ListRecent(ctx context.Context, limit int) ([]*entities.EarthquakeEvent, error) {
	if limit <= 0 {
		return []*entities.EarthquakeEvent{}, nil
	}

	a.mu.RLock()
	events := make([]*entities.EarthquakeEvent, 0, len(a.events))
	for _, stored := range a.events {
		copied := *stored
		events = append(events, &copied)
	}
	a.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// GetByExternalID retrieves one event by its feed identifier.
func (a *MemoryEarthquakeAdapter) GetByExternalID(ctx context.Context, externalID string) (*entities.EarthquakeEvent, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stored, exists := a.events[externalID]
	if !exists {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("earthquake with external id %s not found", externalID))
	}
	copied := *stored
	return &copied, nil
}

// Count returns the number of stored events.
func (a *MemoryEarthquakeAdapter) Count(ctx context.Context) (int64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return int64(len(a.events)), nil
}

var _ repositories.EarthquakeRepository = (*MemoryEarthquakeAdapter)(nil)
