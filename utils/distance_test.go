package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleDistance(t *testing.T) {
	tests := []struct {
		name     string
		from, to Coordinates
		want     float64
		delta    float64
	}{
		{
			name: "identical points",
			from: Coordinates{Lat: 55.611087, Lng: 37.20829},
			to:   Coordinates{Lat: 55.611087, Lng: 37.20829},
			want: 0,
		},
		{
			name:  "one degree of longitude on the equator",
			from:  Coordinates{Lat: 0, Lng: 0},
			to:    Coordinates{Lat: 0, Lng: 1},
			want:  EarthRadiusMeters * math.Pi / 180,
			delta: 1e-6,
		},
		{
			name:  "quarter meridian",
			from:  Coordinates{Lat: 0, Lng: 10},
			to:    Coordinates{Lat: 90, Lng: 10},
			want:  EarthRadiusMeters * math.Pi / 2,
			delta: 1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GreatCircleDistance(tt.from, tt.to), tt.delta)
		})
	}
}

func TestGreatCircleDistance_Symmetric(t *testing.T) {
	a := Coordinates{Lat: 55.595884, Lng: 37.209755}
	b := Coordinates{Lat: 55.632761, Lng: 37.333324}

	assert.InDelta(t, GreatCircleDistance(a, b), GreatCircleDistance(b, a), 1e-9)
	assert.Greater(t, GreatCircleDistance(a, b), 0.0)
}

func TestVelocityMetersPerMinute(t *testing.T) {
	assert.InDelta(t, 666.6666, VelocityMetersPerMinute(40), 1e-3)
	assert.Equal(t, 1000.0, VelocityMetersPerMinute(60))
}
