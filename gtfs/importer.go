package gtfs

import (
	"fmt"
	"log/slog"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

// Options controls an import
type Options struct {
	// WaitTime and Velocity become the catalogue routing settings. A zero
	// Velocity leaves the settings unset.
	WaitTime uint32
	Velocity uint32

	// Disruptions, when set, removes service before patterns are chosen.
	Disruptions Disruptions
}

// Summary reports what an import added
type Summary struct {
	Stops     int
	Routes    int
	Distances int
}

// Import loads feed into l. The loader is left unsealed so callers can add
// more before building.
func Import(feed *Feed, l *catalogue.Loader, opts Options) (Summary, error) {
	var sum Summary
	patterns, err := BuildPatterns(feed, opts.Disruptions)
	if err != nil {
		return sum, err
	}

	names := stopNames(feed.Stops)
	ids := make(map[string]catalogue.StopID, len(feed.Stops))
	coords := make(map[string]utils.Coordinates, len(feed.Stops))
	for _, s := range feed.Stops {
		if _, dup := ids[s.ID]; dup {
			return sum, fmt.Errorf("%w: duplicate stop_id %s", ErrInvalidFeed, s.ID)
		}
		id, err := l.AddStop(names[s.ID], s.Lat, s.Lng)
		if err != nil {
			return sum, fmt.Errorf("stop %s: %w", s.ID, err)
		}
		ids[s.ID] = id
		coords[s.ID] = s.Coordinates
		sum.Stops++
	}

	shapeOf := make(map[string]string, len(feed.Trips))
	for _, t := range feed.Trips {
		shapeOf[t.ID] = t.ShapeID
	}

	type pair struct{ from, to catalogue.StopID }
	seen := map[pair]struct{}{}
	for _, p := range patterns {
		pts := make([]utils.Coordinates, len(p.StopIDs))
		for i, stopID := range p.StopIDs {
			pts[i] = coords[stopID]
		}
		legs := legDistances(pts, feed.Shapes[shapeOf[p.TripID]])
		for i, meters := range legs {
			k := pair{ids[p.StopIDs[i]], ids[p.StopIDs[i+1]]}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if err := l.SetDistance(k.from, k.to, meters); err != nil {
				return sum, fmt.Errorf("route %s: %w", p.Name, err)
			}
			sum.Distances++
		}

		routeStops := make([]string, len(p.StopIDs))
		for i, stopID := range p.StopIDs {
			routeStops[i] = names[stopID]
		}
		if err := l.AddRoute(p.Name, routeStops, true); err != nil {
			return sum, fmt.Errorf("route %s: %w", p.RouteID, err)
		}
		sum.Routes++
	}

	if opts.Velocity > 0 {
		err := l.SetRoutingSettings(catalogue.RoutingSettings{
			WaitTimeMinutes: opts.WaitTime,
			BusVelocityKMH:  opts.Velocity,
		})
		if err != nil {
			return sum, err
		}
	}

	slog.Info("gtfs feed imported",
		"stops", sum.Stops,
		"routes", sum.Routes,
		"distances", sum.Distances,
		"trips", len(feed.Trips))
	return sum, nil
}
