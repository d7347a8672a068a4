package utils

import (
	"math"
)

const (
	// EarthRadiusMeters is the sphere radius used for straight-line route lengths.
	EarthRadiusMeters = 6371000.0

	MetersPerKilometer = 1000.0
	MinutesPerHour     = 60.0
)

// Coordinates is a geographic point in degrees.
type Coordinates struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// GreatCircleDistance returns the distance in meters between two points using
// the spherical law of cosines. Identical points are exactly 0 apart.
func GreatCircleDistance(from, to Coordinates) float64 {
	if from == to {
		return 0
	}
	const dr = math.Pi / 180
	cos := math.Sin(from.Lat*dr)*math.Sin(to.Lat*dr) +
		math.Cos(from.Lat*dr)*math.Cos(to.Lat*dr)*math.Cos(math.Abs(from.Lng-to.Lng)*dr)
	// rounding can push nearly identical points just past 1
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * EarthRadiusMeters
}

// VelocityMetersPerMinute converts a km/h speed into meters per minute.
func VelocityMetersPerMinute(kmh float64) float64 {
	return kmh * MetersPerKilometer / MinutesPerHour
}
