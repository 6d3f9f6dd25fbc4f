package geo

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

// DefaultThresholdKm is the distance under which an event counts as near a
// plate boundary.
const DefaultThresholdKm = 500.0

// ProximityAnalyzer classifies earthquake events by distance to the nearest
// tectonic plate boundary. It holds the immutable boundary set loaded at
// startup and mutates neither events nor boundaries.
type ProximityAnalyzer struct {
	boundaries []entities.BoundarySegment
	logger     zerolog.Logger
}

// NewProximityAnalyzer creates an analyzer over a boundary set.
func NewProximityAnalyzer(boundaries []entities.BoundarySegment, logger zerolog.Logger) *ProximityAnalyzer {
	return &ProximityAnalyzer{
		boundaries: boundaries,
		logger:     logger.With().Str("component", "proximity_analyzer").Logger(),
	}
}

// BoundaryCount returns the number of loaded boundary segments.
func (a *ProximityAnalyzer) BoundaryCount() int {
	return len(a.boundaries)
}

// Classify computes, for every event with finite coordinates, the minimum
// vertex-sampled distance across all boundaries and flags events within
// thresholdKm. Events with non-finite coordinates are skipped; boundaries
// with no vertices contribute nothing.
func (a *ProximityAnalyzer) Classify(events []*entities.EarthquakeEvent, thresholdKm float64) []entities.ProximityResult {
	results := make([]entities.ProximityResult, 0, len(events))

	for _, event := range events {
		p := event.Epicenter()
		if math.IsNaN(p.Longitude) || math.IsNaN(p.Latitude) ||
			math.IsInf(p.Longitude, 0) || math.IsInf(p.Latitude, 0) {
			a.logger.Debug().
				Str("external_id", event.ExternalID).
				Msg("skipping event with non-finite coordinates")
			continue
		}

		minDistance := math.Inf(1)
		for _, boundary := range a.boundaries {
			if d := NearestDistanceKm(p, boundary.Vertices); d < minDistance {
				minDistance = d
			}
		}

		result := entities.ProximityResult{
			Event:             event,
			NearestDistanceKm: minDistance,
			IsNear:            minDistance <= thresholdKm,
		}
		if result.IsNear {
			a.logger.Debug().
				Str("place", event.Place).
				Float64("magnitude", event.Magnitude).
				Float64("distance_km", math.Round(minDistance)).
				Msg("earthquake near plate boundary")
		}
		results = append(results, result)
	}

	return results
}

// Summarize runs Classify and reduces the results to near/far counts.
func (a *ProximityAnalyzer) Summarize(events []*entities.EarthquakeEvent, thresholdKm float64) entities.ProximitySummary {
	summary := entities.ProximitySummary{ThresholdKm: thresholdKm}
	for _, result := range a.Classify(events, thresholdKm) {
		if result.IsNear {
			summary.NearCount++
		} else {
			summary.FarCount++
		}
	}
	return summary
}
