package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

// geoJSONCollection is the subset of a GeoJSON FeatureCollection we read.
// Coordinates stay raw because their nesting depends on the geometry type.
type geoJSONCollection struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// LoadBoundaries parses a GeoJSON FeatureCollection of plate boundaries.
// LineString features become one segment each; MultiLineString features are
// flattened into one segment per line. Features with other geometry types
// are skipped, as are positions with fewer than two components.
func LoadBoundaries(r io.Reader) ([]entities.BoundarySegment, error) {
	var collection geoJSONCollection
	if err := json.NewDecoder(r).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode boundary collection: %w", err)
	}

	segments := []entities.BoundarySegment{}
	for _, feature := range collection.Features {
		name := featureName(feature.Properties)

		switch feature.Geometry.Type {
		case "LineString":
			var coords [][]float64
			if err := json.Unmarshal(feature.Geometry.Coordinates, &coords); err != nil {
				return nil, fmt.Errorf("boundary %q: %w", name, err)
			}
			if segment, ok := buildSegment(name, coords); ok {
				segments = append(segments, segment)
			}
		case "MultiLineString":
			var lines [][][]float64
			if err := json.Unmarshal(feature.Geometry.Coordinates, &lines); err != nil {
				return nil, fmt.Errorf("boundary %q: %w", name, err)
			}
			for _, coords := range lines {
				if segment, ok := buildSegment(name, coords); ok {
					segments = append(segments, segment)
				}
			}
		default:
			// Point or polygon features in the dataset are not boundaries.
		}
	}

	return segments, nil
}

// LoadBoundariesFile loads plate boundaries from a GeoJSON file on disk.
func LoadBoundariesFile(path string) ([]entities.BoundarySegment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open boundary file: %w", err)
	}
	defer f.Close()
	return LoadBoundaries(f)
}

func buildSegment(name string, coords [][]float64) (entities.BoundarySegment, bool) {
	vertices := make([]entities.GeoPoint, 0, len(coords))
	for _, position := range coords {
		if len(position) < 2 {
			continue
		}
		vertices = append(vertices, entities.GeoPoint{Longitude: position[0], Latitude: position[1]})
	}
	if len(vertices) == 0 {
		return entities.BoundarySegment{}, false
	}
	return entities.BoundarySegment{Name: name, Vertices: vertices}, true
}

func featureName(properties map[string]any) string {
	for _, key := range []string{"Name", "name", "PlateName"} {
		if v, ok := properties[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
