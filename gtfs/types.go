package gtfs

import (
	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

// Stop is a stops.txt row of location_type 0
type Stop struct {
	ID   string
	Name string
	utils.Coordinates
}

// Route is a routes.txt row
type Route struct {
	ID        string
	ShortName string
	LongName  string
}

// Trip is a trips.txt row
type Trip struct {
	ID          string
	RouteID     string
	DirectionID string
	ShapeID     string
}

// Feed holds the parsed tables of a static feed. Slices keep file order.
type Feed struct {
	Stops     []Stop
	Routes    []Route
	Trips     []Trip
	StopTimes map[string][]string            // trip_id -> stop_ids ordered by stop_sequence
	Shapes    map[string][]utils.Coordinates // shape_id -> points ordered by shape_pt_sequence
}

// Disruptions removes service from the schedule before import.
type Disruptions interface {
	TripCancelled(tripID string) bool
	StopSkipped(tripID, stopID string) bool
	StopClosed(stopID string) bool
	RouteClosed(routeID string) bool
}
