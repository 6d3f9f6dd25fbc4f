package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/repositories"
	"github.com/quakefeed/quakefeed/internal/infrastructure/clients/postgres"
	apperrors "github.com/quakefeed/quakefeed/pkg/errors"
)

const earthquakesTable = "earthquakes"

var earthquakeColumns = []any{
	"id", "external_id", "magnitude", "place", "occurred_at", "updated_at",
	"detail_url", "longitude", "latitude", "depth_km", "ingested_at",
}

// EarthquakeAdapter implements EarthquakeRepository on Postgres.
type EarthquakeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEarthquakeAdapter creates a new earthquake adapter.
func NewEarthquakeAdapter(client *postgres.Client) repositories.EarthquakeRepository {
	return &EarthquakeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert writes the event with a single conditional insert. The conflict
// target is the unique external_id, so concurrent ingestion cycles racing on
// the same feed record converge on one row without a read-then-write window.
func (a *EarthquakeAdapter) Upsert(ctx context.Context, event *entities.EarthquakeEvent) (*entities.EarthquakeEvent, error) {
	if event == nil {
		return nil, apperrors.NewInternalError("earthquake event is nil", fmt.Errorf("event is nil"))
	}
	if event.ExternalID == "" {
		return nil, apperrors.NewValidationError("earthquake event has no external id")
	}

	record := goqu.Record{
		"id":          event.ID,
		"external_id": event.ExternalID,
		"magnitude":   event.Magnitude,
		"place":       event.Place,
		"occurred_at": event.OccurredAt,
		"updated_at":  event.UpdatedAt,
		"detail_url":  event.DetailURL,
		"longitude":   event.Longitude,
		"latitude":    event.Latitude,
		"depth_km":    event.DepthKm,
		"ingested_at": event.IngestedAt,
	}

	query, args, err := a.db.Insert(earthquakesTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("external_id", goqu.Record{
			"magnitude":   event.Magnitude,
			"place":       event.Place,
			"occurred_at": event.OccurredAt,
			"updated_at":  event.UpdatedAt,
			"detail_url":  event.DetailURL,
			"longitude":   event.Longitude,
			"latitude":    event.Latitude,
			"depth_km":    event.DepthKm,
		})).
		Returning(earthquakeColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build earthquake upsert query", err)
	}

	stored := &entities.EarthquakeEvent{}
	row := a.client.DB().QueryRowContext(ctx, query, args...)
	if err := scanEarthquake(row, stored); err != nil {
		return nil, apperrors.NewInternalError("failed to upsert earthquake", err)
	}

	return stored, nil
}

// ListRecent returns up to limit events, newest occurred_at first.
func (a *EarthquakeAdapter) ListRecent(ctx context.Context, limit int) ([]*entities.EarthquakeEvent, error) {
	if limit <= 0 {
		return []*entities.EarthquakeEvent{}, nil
	}

	query, args, err := a.db.From(earthquakesTable).
		Select(earthquakeColumns...).
		Order(goqu.I("occurred_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build earthquake list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list earthquakes", err)
	}
	defer rows.Close()

	events := []*entities.EarthquakeEvent{}
	for rows.Next() {
		event := &entities.EarthquakeEvent{}
		if err := scanEarthquake(rows, event); err != nil {
			return nil, apperrors.NewInternalError("failed to scan earthquake", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating earthquakes", err)
	}

	return events, nil
}

// GetByExternalID retrieves one event by its feed identifier.
func (a *EarthquakeAdapter) GetByExternalID(ctx context.Context, externalID string) (*entities.EarthquakeEvent, error) {
	query, args, err := a.db.From(earthquakesTable).
		Select(earthquakeColumns...).
		Where(goqu.Ex{"external_id": externalID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build earthquake get query", err)
	}

	event := &entities.EarthquakeEvent{}
	row := a.client.DB().QueryRowContext(ctx, query, args...)
	err = scanEarthquake(row, event)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("earthquake with external id %s not found", externalID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get earthquake", err)
	}

	return event, nil
}

// Count returns the number of stored events.
func (a *EarthquakeAdapter) Count(ctx context.Context) (int64, error) {
	query, args, err := a.db.From(earthquakesTable).
		Select(goqu.COUNT("*")).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build earthquake count query", err)
	}

	var count int64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count earthquakes", err)
	}

	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEarthquake(s scanner, event *entities.EarthquakeEvent) error {
	return s.Scan(
		&event.ID,
		&event.ExternalID,
		&event.Magnitude,
		&event.Place,
		&event.OccurredAt,
		&event.UpdatedAt,
		&event.DetailURL,
		&event.Longitude,
		&event.Latitude,
		&event.DepthKm,
		&event.IngestedAt,
	)
}
