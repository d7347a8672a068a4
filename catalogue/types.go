package catalogue

import (
	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

// StopID is the dense, insertion-ordered identity of a stop.
type StopID uint32

// Stop is a named geographic point.
type Stop struct {
	ID          StopID
	Name        string
	Coordinates utils.Coordinates
}

// Route is an ordered sequence of stops served by one bus.
type Route struct {
	Name            string
	Stops           []StopID
	IsRoundTrip     bool
	UniqueStopCount int
}

// BusStat aggregates the statistics of a single route.
type BusStat struct {
	StopCount       int
	UniqueStopCount int
	RouteLength     float64 // meters along road distances
	Curvature       float64 // RouteLength / great-circle length
}

// RoutingSettings parameterise the routing cost model.
type RoutingSettings struct {
	WaitTimeMinutes uint32
	BusVelocityKMH  uint32
}

// Distance is one raw directional entry of the distance table.
type Distance struct {
	From   StopID
	To     StopID
	Meters float64
}
