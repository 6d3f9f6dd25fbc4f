// Command analyze runs the plate-boundary proximity analysis offline:
// it loads a boundary GeoJSON file plus an earthquake feed dump (GeoJSON
// FeatureCollection in the USGS shape) and prints the near/far breakdown.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/geo"
	"github.com/quakefeed/quakefeed/internal/infrastructure/observability"
)

func main() {
	var (
		boundaryPath = flag.String("boundaries", "", "path to plate boundary GeoJSON file")
		eventsPath   = flag.String("events", "", "path to earthquake GeoJSON file")
		thresholdKm  = flag.Float64("threshold-km", geo.DefaultThresholdKm, "near-boundary distance threshold in km")
		verbose      = flag.Bool("v", false, "print every near event")
	)
	flag.Parse()

	observability.InitLogger("quakefeed-analyze", "development")
	logger := *observability.GetLogger()

	if *boundaryPath == "" || *eventsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -boundaries plates.json -events quakes.json [-threshold-km 500]")
		os.Exit(2)
	}

	boundaries, err := geo.LoadBoundariesFile(*boundaryPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load boundaries")
	}

	events, err := loadEvents(*eventsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load events")
	}

	analyzer := geo.NewProximityAnalyzer(boundaries, logger)
	results := analyzer.Classify(events, *thresholdKm)

	near, far := 0, 0
	for _, result := range results {
		if result.IsNear {
			near++
			if *verbose {
				fmt.Printf("near: %-60s mag=%.1f distance=%.0fkm\n",
					result.Event.Place, result.Event.Magnitude, math.Round(result.NearestDistanceKm))
			}
		} else {
			far++
		}
	}

	fmt.Printf("boundaries: %d segments\n", len(boundaries))
	fmt.Printf("events analyzed: %d\n", len(results))
	fmt.Printf("near (<= %.0f km): %d\n", *thresholdKm, near)
	fmt.Printf("far: %d\n", far)
}

// loadEvents reads a USGS-shaped GeoJSON FeatureCollection from disk.
func loadEvents(path string) ([]*entities.EarthquakeEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var collection struct {
		Features []struct {
			ID         string `json:"id"`
			Properties struct {
				Mag     float64 `json:"mag"`
				Place   string  `json:"place"`
				Time    int64   `json:"time"`
				Updated int64   `json:"updated"`
				Detail  string  `json:"detail"`
			} `json:"properties"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.NewDecoder(f).Decode(&collection); err != nil {
		return nil, err
	}

	events := make([]*entities.EarthquakeEvent, 0, len(collection.Features))
	for _, feature := range collection.Features {
		if feature.ID == "" || feature.Geometry.Type != "Point" || len(feature.Geometry.Coordinates) != 3 {
			continue
		}
		event := entities.NewEarthquakeEvent(feature.ID)
		event.Magnitude = feature.Properties.Mag
		event.Place = feature.Properties.Place
		event.OccurredAt = time.UnixMilli(feature.Properties.Time).UTC()
		event.UpdatedAt = time.UnixMilli(feature.Properties.Updated).UTC()
		event.DetailURL = feature.Properties.Detail
		event.Longitude = feature.Geometry.Coordinates[0]
		event.Latitude = feature.Geometry.Coordinates[1]
		event.DepthKm = feature.Geometry.Coordinates[2]
		events = append(events, event)
	}
	return events, nil
}
