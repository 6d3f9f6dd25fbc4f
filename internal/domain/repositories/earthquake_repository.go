package repositories

import (
	"context"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

// EarthquakeRepository defines persistence for earthquake events.
//
// Upsert is the sole write path. It must be atomic per external ID: two
// concurrent calls with the same ExternalID may not produce two rows, and the
// loser of the race must still observe exactly one row afterwards. This holds
// even when the store is shared across processes, so implementations use a
// conditional write, not read-then-write.
type EarthquakeRepository interface {
	// Upsert creates the event on first observation of its ExternalID and
	// updates all mutable fields on every subsequent observation. Returns
	// the stored state after the write.
	Upsert(ctx context.Context, event *entities.EarthquakeEvent) (*entities.EarthquakeEvent, error)

	// ListRecent returns up to limit events ordered by OccurredAt descending.
	// Reflects every upsert committed before the call returns.
	ListRecent(ctx context.Context, limit int) ([]*entities.EarthquakeEvent, error)

	// GetByExternalID returns the event for the feed identifier, or a
	// NotFound error.
	GetByExternalID(ctx context.Context, externalID string) (*entities.EarthquakeEvent, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) (int64, error)
}
