// internal/geo/geo_test.go
package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected float64 // km
		delta    float64
	}{
		{name: "london to paris", from: "London", to: "Paris", expected: 344, delta: 15},
		{name: "london to nice", from: "London", to: "Nice", expected: 1030, delta: 40},
		{name: "paris to lyon", from: "Paris", to: "Lyon", expected: 392, delta: 20},
		{name: "milan to rome", from: "Milan", to: "Rome", expected: 477, delta: 25},
		{name: "marseille to nice", from: "Marseille", to: "Nice", expected: 159, delta: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := CityDistance(tt.from, tt.to)
			require.True(t, ok)
			assert.InDelta(t, tt.expected, d, tt.delta)
		})
	}
}

func TestCityDistance_UnknownCity(t *testing.T) {
	_, ok := CityDistance("London", "Atlantis")
	assert.False(t, ok)
}

func TestLocate_CaseInsensitive(t *testing.T) {
	a, okA := Locate("LONDON")
	b, okB := Locate("london")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
}

func TestHasRailRoute_Symmetric(t *testing.T) {
	assert.True(t, HasRailRoute("Paris", "London"))
	assert.True(t, HasRailRoute("London", "Paris"))
	assert.False(t, HasRailRoute("London", "Madrid"))
}
