package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/providers"
	"github.com/quakefeed/quakefeed/internal/domain/repositories"
)

// CycleSummary reports one reconciliation cycle.
type CycleSummary struct {
	SessionID    string    `json:"session_id"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	Fetched      int       `json:"fetched"`
	Upserted     int       `json:"upserted"`
	Failed       int       `json:"failed"`
	SnapshotSize int       `json:"snapshot_size"`
}

// IngestionService runs fetch → reconcile → snapshot → broadcast cycles.
//
// The fetch window trails "now" by WindowMinutes so that consecutive cycles
// overlap. The overlap is intentional: it gives at-least-once delivery of
// every upstream event into the reconciliation step, and the repository's
// idempotent upsert keeps the overlap from duplicating rows.
type IngestionService struct {
	feed          providers.FeedProvider
	repo          repositories.EarthquakeRepository
	bus           providers.EventBus
	windowMinutes int
	snapshotLimit int
	logger        zerolog.Logger
	now           func() time.Time
}

// NewIngestionService creates an ingestion service.
func NewIngestionService(
	feed providers.FeedProvider,
	repo repositories.EarthquakeRepository,
	bus providers.EventBus,
	windowMinutes int,
	snapshotLimit int,
	logger zerolog.Logger,
) *IngestionService {
	if windowMinutes <= 0 {
		windowMinutes = 5
	}
	if snapshotLimit <= 0 {
		snapshotLimit = 500
	}
	return &IngestionService{
		feed:          feed,
		repo:          repo,
		bus:           bus,
		windowMinutes: windowMinutes,
		snapshotLimit: snapshotLimit,
		logger:        logger.With().Str("component", "ingestion_service").Logger(),
		now:           time.Now,
	}
}

// RunCycle executes one cycle for a session: a write phase (fetch + upsert
// each record) followed by a read phase (re-query the ordered snapshot and
// publish it to the session's own channel).
//
// Failures degrade, never abort: a failed fetch becomes an empty batch, a
// failed upsert skips that record only, and a failed publish loses one push
// that the next cycle's snapshot supersedes. The returned error is non-nil
// only when the snapshot query itself fails, and even then the caller is
// expected to keep its timer running.
func (s *IngestionService) RunCycle(ctx context.Context, sessionID string) (*CycleSummary, error) {
	return s.runCycle(ctx, sessionID, nil)
}

func (s *IngestionService) runCycle(ctx context.Context, sessionID string, observe func(SessionState)) (*CycleSummary, error) {
	phase := func(state SessionState) {
		if observe != nil {
			observe(state)
		}
	}

	end := s.now().UTC()
	start := end.Add(-time.Duration(s.windowMinutes) * time.Minute)

	summary := &CycleSummary{
		SessionID:   sessionID,
		WindowStart: start,
		WindowEnd:   end,
	}

	phase(SessionStateFetching)
	events, err := s.feed.FetchWindow(ctx, start, end)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Time("window_start", start).
			Time("window_end", end).
			Msg("feed fetch failed, continuing with empty batch")
		events = nil
	}
	summary.Fetched = len(events)

	phase(SessionStateReconciling)
	for _, event := range events {
		if _, err := s.repo.Upsert(ctx, event); err != nil {
			summary.Failed++
			s.logger.Error().Err(err).
				Str("external_id", event.ExternalID).
				Msg("upsert failed, skipping record")
			continue
		}
		summary.Upserted++
	}

	phase(SessionStateBroadcasting)
	snapshot, err := s.repo.ListRecent(ctx, s.snapshotLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("snapshot query failed")
		return summary, err
	}
	summary.SnapshotSize = len(snapshot)

	update := entities.NewQuakeUpdate(sessionID, snapshot)
	if err := s.bus.Publish(ctx, providers.GetSessionChannel(sessionID), update); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("snapshot publish failed")
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int("fetched", summary.Fetched).
		Int("upserted", summary.Upserted).
		Int("failed", summary.Failed).
		Int("snapshot_size", summary.SnapshotSize).
		Msg("ingestion cycle complete")

	return summary, nil
}

// Snapshot returns the current ordered snapshot without running a cycle.
// A non-positive or oversized limit falls back to the configured one.
func (s *IngestionService) Snapshot(ctx context.Context, limit int) ([]*entities.EarthquakeEvent, error) {
	if limit <= 0 || limit > s.snapshotLimit {
		limit = s.snapshotLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

// SnapshotLimit exposes the configured snapshot size for handlers.
func (s *IngestionService) SnapshotLimit() int {
	return s.snapshotLimit
}
