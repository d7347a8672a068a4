package catalogue

import (
	"fmt"
	"math"
	"sort"

	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

// network is the state shared by the loading and query phases.
type network struct {
	stops       []Stop
	stopByName  map[string]StopID
	routes      []Route
	routeByName map[string]int
	routesAt    [][]string // stop id -> names of routes serving it
	distances   *DistanceTable
	settings    RoutingSettings
	hasSettings bool
}

// Loader accepts the network during the load phase. It is not safe for
// concurrent use.
type Loader struct {
	net    *network
	sealed bool
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{net: &network{
		stopByName:  map[string]StopID{},
		routeByName: map[string]int{},
		distances:   newDistanceTable(),
	}}
}

// AddStop appends a stop and returns its id.
func (l *Loader) AddStop(name string, lat, lng float64) (StopID, error) {
	if l.sealed {
		return 0, ErrLoaderSealed
	}
	if _, ok := l.net.stopByName[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateStop, name)
	}
	id := StopID(len(l.net.stops))
	l.net.stops = append(l.net.stops, Stop{
		ID:          id,
		Name:        name,
		Coordinates: utils.Coordinates{Lat: lat, Lng: lng},
	})
	l.net.stopByName[name] = id
	l.net.routesAt = append(l.net.routesAt, nil)
	return id, nil
}

// FindStop resolves a stop name to its id.
func (l *Loader) FindStop(name string) (StopID, bool) {
	id, ok := l.net.stopByName[name]
	return id, ok
}

// SetDistance records the road distance from one stop to another.
func (l *Loader) SetDistance(from, to StopID, meters float64) error {
	if l.sealed {
		return ErrLoaderSealed
	}
	if !l.net.hasStop(from) {
		return fmt.Errorf("%w: id %d", ErrUnknownStop, from)
	}
	if !l.net.hasStop(to) {
		return fmt.Errorf("%w: id %d", ErrUnknownStop, to)
	}
	if meters < 0 || math.IsNaN(meters) || math.IsInf(meters, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, meters)
	}
	l.net.distances.Set(from, to, meters)
	return nil
}

// SetDistanceByName is SetDistance keyed by stop names.
func (l *Loader) SetDistanceByName(from, to string, meters float64) error {
	fromID, ok := l.FindStop(from)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStop, from)
	}
	toID, ok := l.FindStop(to)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStop, to)
	}
	return l.SetDistance(fromID, toID, meters)
}

// AddRoute resolves every stop name and stores the route. Nothing is stored
// if any name is unknown.
func (l *Loader) AddRoute(name string, stopNames []string, isRoundTrip bool) error {
	if l.sealed {
		return ErrLoaderSealed
	}
	if _, ok := l.net.routeByName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateRoute, name)
	}
	if len(stopNames) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyRoute, name)
	}

	ids := make([]StopID, 0, len(stopNames))
	unique := make(map[string]struct{}, len(stopNames))
	for _, stopName := range stopNames {
		id, ok := l.net.stopByName[stopName]
		if !ok {
			return fmt.Errorf("route %q: %w: %q", name, ErrUnknownStop, stopName)
		}
		ids = append(ids, id)
		unique[stopName] = struct{}{}
	}

	l.net.routeByName[name] = len(l.net.routes)
	l.net.routes = append(l.net.routes, Route{
		Name:            name,
		Stops:           ids,
		IsRoundTrip:     isRoundTrip,
		UniqueStopCount: len(unique),
	})
	seen := make(map[StopID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			l.net.routesAt[id] = append(l.net.routesAt[id], name)
		}
	}
	return nil
}

// SetRoutingSettings stores the routing cost parameters. It may be called
// once per loader.
func (l *Loader) SetRoutingSettings(s RoutingSettings) error {
	if l.sealed {
		return ErrLoaderSealed
	}
	if l.net.hasSettings {
		return ErrSettingsAlreadySet
	}
	if s.BusVelocityKMH == 0 {
		return fmt.Errorf("%w: bus velocity must be positive", ErrInvalidSettings)
	}
	l.net.settings = s
	l.net.hasSettings = true
	return nil
}

// Build seals the loader and returns the queryable catalogue. The loader
// rejects every mutation afterwards.
func (l *Loader) Build() (*Catalogue, error) {
	if l.sealed {
		return nil, ErrLoaderSealed
	}
	l.sealed = true
	for _, names := range l.net.routesAt {
		sort.Strings(names)
	}
	return &Catalogue{net: l.net}, nil
}

func (n *network) hasStop(id StopID) bool {
	return int(id) < len(n.stops)
}
