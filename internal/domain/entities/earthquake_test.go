package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateString_RoundTrip(t *testing.T) {
	event := NewEarthquakeEvent("usgs1")
	event.Longitude = 12.3
	event.Latitude = 45.6
	event.DepthKm = 10.25

	encoded := event.CoordinateString()
	assert.Equal(t, "12.3,45.6,10.25", encoded)

	lon, lat, depth, err := ParseCoordinateString(encoded)
	require.NoError(t, err)
	assert.Equal(t, 12.3, lon)
	assert.Equal(t, 45.6, lat)
	assert.Equal(t, 10.25, depth)
}

func TestParseCoordinateString_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "two components", input: "12.3,45.6"},
		{name: "four components", input: "1,2,3,4"},
		{name: "empty", input: ""},
		{name: "non-numeric component", input: "12.3,abc,10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ParseCoordinateString(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseCoordinateString_TrimsWhitespace(t *testing.T) {
	lon, lat, depth, err := ParseCoordinateString(" -122.4, 37.8 ,8.1")
	require.NoError(t, err)
	assert.Equal(t, -122.4, lon)
	assert.Equal(t, 37.8, lat)
	assert.Equal(t, 8.1, depth)
}

func TestNewEarthquakeEvent(t *testing.T) {
	event := NewEarthquakeEvent("us7000abcd")

	assert.Equal(t, "us7000abcd", event.ExternalID)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.IngestedAt.IsZero())

	other := NewEarthquakeEvent("us7000abcd")
	assert.NotEqual(t, event.ID, other.ID)
}
