package providers

import (
	"context"
	"time"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

// FeedProvider fetches earthquake events from an upstream feed for a time
// window. Implementations drop malformed records and report transport or
// non-2xx failures as errors; callers treat a failed fetch as an empty batch
// for that cycle.
type FeedProvider interface {
	FetchWindow(ctx context.Context, start, end time.Time) ([]*entities.EarthquakeEvent, error)
}
