package entities

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// BoundarySegment is one tectonic plate boundary, an ordered polyline of
// vertices. Loaded once at startup and never mutated.
type BoundarySegment struct {
	Name     string     `json:"name"`
	Vertices []GeoPoint `json:"vertices"`
}

// ProximityResult classifies one earthquake against the full boundary set.
// Ephemeral: produced fresh on each analysis pass, never persisted.
type ProximityResult struct {
	Event             *EarthquakeEvent `json:"event"`
	NearestDistanceKm float64          `json:"nearest_distance_km"`
	IsNear            bool             `json:"is_near"`
}

// ProximitySummary aggregates one analysis pass.
type ProximitySummary struct {
	ThresholdKm float64 `json:"threshold_km"`
	NearCount   int     `json:"near_count"`
	FarCount    int     `json:"far_count"`
}
