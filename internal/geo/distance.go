package geo

import (
	"math"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

const earthRadiusKm = 6371.0

// DistanceKm calculates the great-circle distance between two points in
// kilometers using the haversine formula. NaN inputs propagate.
func DistanceKm(a, b entities.GeoPoint) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// NearestDistanceKm returns the minimum great-circle distance from p to any
// vertex of the polyline, or +Inf for an empty polyline.
//
// This samples vertices only and does not project onto segment interiors.
// It underestimates nothing but can overestimate the true point-to-segment
// distance on sparse polylines; downstream thresholds are calibrated against
// this behavior, so keep the approximation.
func NearestDistanceKm(p entities.GeoPoint, polyline []entities.GeoPoint) float64 {
	minDistance := math.Inf(1)
	for _, vertex := range polyline {
		if d := DistanceKm(p, vertex); d < minDistance {
			minDistance = d
		}
	}
	return minDistance
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
