package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quakefeed/quakefeed/internal/domain/entities"
)

func TestDistanceKm_IdenticalPointsIsZero(t *testing.T) {
	points := []entities.GeoPoint{
		{Longitude: 0, Latitude: 0},
		{Longitude: 139.69, Latitude: 35.68},
		{Longitude: -122.42, Latitude: 37.77},
		{Longitude: 179.9, Latitude: -45.3},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, DistanceKm(p, p))
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	a := entities.GeoPoint{Longitude: 139.69, Latitude: 35.68}
	b := entities.GeoPoint{Longitude: -122.42, Latitude: 37.77}

	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
}

func TestDistanceKm_OneDegreeAlongEquator(t *testing.T) {
	a := entities.GeoPoint{Longitude: 0, Latitude: 0}
	b := entities.GeoPoint{Longitude: 1, Latitude: 0}

	// One degree of longitude at the equator is ~111.19 km; allow 1%.
	d := DistanceKm(a, b)
	assert.InDelta(t, 111.19, d, 111.19*0.01)
}

func TestDistanceKm_NaNPropagates(t *testing.T) {
	a := entities.GeoPoint{Longitude: math.NaN(), Latitude: 0}
	b := entities.GeoPoint{Longitude: 1, Latitude: 0}

	assert.True(t, math.IsNaN(DistanceKm(a, b)))
}

func TestNearestDistanceKm_EmptyPolylineIsInfinite(t *testing.T) {
	p := entities.GeoPoint{Longitude: 0, Latitude: 0}

	assert.True(t, math.IsInf(NearestDistanceKm(p, nil), 1))
	assert.True(t, math.IsInf(NearestDistanceKm(p, []entities.GeoPoint{}), 1))
}

func TestNearestDistanceKm_PicksClosestVertex(t *testing.T) {
	p := entities.GeoPoint{Longitude: 0, Latitude: 0}
	polyline := []entities.GeoPoint{
		{Longitude: 10, Latitude: 10},
		{Longitude: 0, Latitude: 1},
		{Longitude: -20, Latitude: 5},
	}

	d := NearestDistanceKm(p, polyline)
	assert.InDelta(t, 111.19, d, 111.19*0.01)
}

func TestNearestDistanceKm_LastVertexCounts(t *testing.T) {
	p := entities.GeoPoint{Longitude: 0, Latitude: 0}
	polyline := []entities.GeoPoint{
		{Longitude: 50, Latitude: 50},
		{Longitude: 0, Latitude: 0.5},
	}

	// The closest vertex is the final one; it must not be skipped.
	d := NearestDistanceKm(p, polyline)
	assert.Less(t, d, 60.0)
}
