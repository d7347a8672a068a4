package catalogue

import (
	"fmt"

	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

// Catalogue is the sealed, read-only transit network. It is safe for
// concurrent reads.
type Catalogue struct {
	net *network
}

// FindStop looks a stop up by name.
func (c *Catalogue) FindStop(name string) (Stop, bool) {
	id, ok := c.net.stopByName[name]
	if !ok {
		return Stop{}, false
	}
	return c.net.stops[id], true
}

// FindRoute looks a route up by name. The returned stop list is a copy.
func (c *Catalogue) FindRoute(name string) (Route, bool) {
	idx, ok := c.net.routeByName[name]
	if !ok {
		return Route{}, false
	}
	r := c.net.routes[idx]
	r.Stops = append([]StopID(nil), r.Stops...)
	return r, true
}

// Stop returns the stop with the given id.
func (c *Catalogue) Stop(id StopID) (Stop, bool) {
	if !c.net.hasStop(id) {
		return Stop{}, false
	}
	return c.net.stops[id], true
}

func (c *Catalogue) StopCount() int     { return len(c.net.stops) }
func (c *Catalogue) RouteCount() int    { return len(c.net.routes) }
func (c *Catalogue) DistanceCount() int { return c.net.distances.Len() }

// Stops returns a copy of all stops in id order.
func (c *Catalogue) Stops() []Stop {
	out := make([]Stop, len(c.net.stops))
	copy(out, c.net.stops)
	return out
}

// Routes returns a copy of all routes in insertion order.
func (c *Catalogue) Routes() []Route {
	out := make([]Route, len(c.net.routes))
	for i, r := range c.net.routes {
		r.Stops = append([]StopID(nil), r.Stops...)
		out[i] = r
	}
	return out
}

// Distances returns every raw directional distance entry.
func (c *Catalogue) Distances() []Distance { return c.net.distances.Entries() }

// GetDistance returns the road distance from one stop to another, using the
// reverse direction when only that one is known.
func (c *Catalogue) GetDistance(from, to StopID) (float64, bool) {
	return c.net.distances.Get(from, to)
}

// RoutingSettings returns the routing parameters and whether they were set.
func (c *Catalogue) RoutingSettings() (RoutingSettings, bool) {
	return c.net.settings, c.net.hasSettings
}

// GetBusStat computes the statistics of the named route.
func (c *Catalogue) GetBusStat(name string) (BusStat, error) {
	idx, ok := c.net.routeByName[name]
	if !ok {
		return BusStat{}, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	route := &c.net.routes[idx]
	stops := route.Stops
	if len(stops) < 2 {
		return BusStat{}, fmt.Errorf("%w: %q", ErrDegenerateRoute, name)
	}

	stat := BusStat{
		StopCount:       len(stops),
		UniqueStopCount: route.UniqueStopCount,
	}
	straight := 0.0
	for i := 0; i+1 < len(stops); i++ {
		d, err := c.legDistance(stops[i], stops[i+1])
		if err != nil {
			return BusStat{}, fmt.Errorf("route %q: %w", name, err)
		}
		stat.RouteLength += d
		straight += utils.GreatCircleDistance(c.net.stops[stops[i]].Coordinates, c.net.stops[stops[i+1]].Coordinates)
	}

	if !route.IsRoundTrip {
		// the way back can differ: distances are directional
		for i := len(stops) - 1; i > 0; i-- {
			d, err := c.legDistance(stops[i], stops[i-1])
			if err != nil {
				return BusStat{}, fmt.Errorf("route %q: %w", name, err)
			}
			stat.RouteLength += d
		}
		straight *= 2
		stat.StopCount = 2*len(stops) - 1
	}

	if straight == 0 {
		return BusStat{}, fmt.Errorf("%w: %q has zero straight-line length", ErrDegenerateRoute, name)
	}
	stat.Curvature = stat.RouteLength / straight
	return stat, nil
}

// GetBusesByStop returns the sorted names of routes serving the stop. The
// boolean is false only when the stop itself is unknown.
func (c *Catalogue) GetBusesByStop(name string) ([]string, bool) {
	id, ok := c.net.stopByName[name]
	if !ok {
		return nil, false
	}
	buses := make([]string, len(c.net.routesAt[id]))
	copy(buses, c.net.routesAt[id])
	return buses, true
}

func (c *Catalogue) legDistance(from, to StopID) (float64, error) {
	d, ok := c.net.distances.Get(from, to)
	if !ok {
		return 0, fmt.Errorf("%w: %q -> %q", ErrMissingDistance, c.net.stops[from].Name, c.net.stops[to].Name)
	}
	return d, nil
}
