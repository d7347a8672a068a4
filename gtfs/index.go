package gtfs

import (
	"fmt"
	"sort"
	"strings"
)

// Pattern is the stop sequence chosen for one route and direction
type Pattern struct {
	Name        string
	RouteID     string
	DirectionID string
	TripID      string   // trip the sequence was taken from
	StopIDs     []string // consecutive duplicates removed
}

// noDisruptions is used when no disruptions are given
type noDisruptions struct{}

func (noDisruptions) TripCancelled(string) bool       { return false }
func (noDisruptions) StopSkipped(string, string) bool { return false }
func (noDisruptions) StopClosed(string) bool          { return false }
func (noDisruptions) RouteClosed(string) bool         { return false }

// BuildPatterns picks the longest running trip of every route and direction.
// Routes keep routes.txt order, directions are ordered by id. Patterns with
// fewer than two stops are dropped. d may be nil.
func BuildPatterns(feed *Feed, d Disruptions) ([]Pattern, error) {
	if d == nil {
		d = noDisruptions{}
	}
	knownStops := make(map[string]struct{}, len(feed.Stops))
	for _, s := range feed.Stops {
		knownStops[s.ID] = struct{}{}
	}
	routeOrder := make(map[string]int, len(feed.Routes))
	for i, r := range feed.Routes {
		routeOrder[r.ID] = i
	}

	type key struct{ route, dir string }
	best := map[key]Pattern{}
	for _, trip := range feed.Trips {
		if _, ok := routeOrder[trip.RouteID]; !ok {
			return nil, fmt.Errorf("%w: trip %s references unknown route %s", ErrInvalidFeed, trip.ID, trip.RouteID)
		}
		if d.RouteClosed(trip.RouteID) || d.TripCancelled(trip.ID) {
			continue
		}

		var stops []string
		for _, stopID := range feed.StopTimes[trip.ID] {
			if _, ok := knownStops[stopID]; !ok {
				return nil, fmt.Errorf("%w: trip %s references unknown stop %s", ErrInvalidFeed, trip.ID, stopID)
			}
			if d.StopSkipped(trip.ID, stopID) || d.StopClosed(stopID) {
				continue
			}
			if n := len(stops); n > 0 && stops[n-1] == stopID {
				continue
			}
			stops = append(stops, stopID)
		}

		// a blank direction_id is the default direction
		dir := trip.DirectionID
		if dir == "" {
			dir = "0"
		}
		k := key{trip.RouteID, dir}
		cur, ok := best[k]
		if !ok || len(stops) > len(cur.StopIDs) ||
			(len(stops) == len(cur.StopIDs) && trip.ID < cur.TripID) {
			best[k] = Pattern{
				RouteID:     trip.RouteID,
				DirectionID: dir,
				TripID:      trip.ID,
				StopIDs:     stops,
			}
		}
	}

	patterns := make([]Pattern, 0, len(best))
	for _, p := range best {
		if len(p.StopIDs) >= 2 {
			patterns = append(patterns, p)
		}
	}
	sort.Slice(patterns, func(i, j int) bool {
		a, b := patterns[i], patterns[j]
		if a.RouteID != b.RouteID {
			return routeOrder[a.RouteID] < routeOrder[b.RouteID]
		}
		return a.DirectionID < b.DirectionID
	})
	namePatterns(feed, patterns)
	return patterns, nil
}

// namePatterns assigns unique catalogue names
func namePatterns(feed *Feed, patterns []Pattern) {
	routes := make(map[string]Route, len(feed.Routes))
	for _, r := range feed.Routes {
		routes[r.ID] = r
	}
	count := map[string]int{}
	for i := range patterns {
		p := &patterns[i]
		r := routes[p.RouteID]
		name := firstNonEmpty(r.ShortName, r.LongName, r.ID)
		if p.DirectionID == "1" {
			name += "/1"
		}
		p.Name = name
		count[name]++
	}
	for i := range patterns {
		p := &patterns[i]
		if count[p.Name] > 1 {
			p.Name = fmt.Sprintf("%s [%s]", p.Name, p.RouteID)
		}
	}
}

// stopNames maps stop ids to unique catalogue names. Clashing or blank
// names get the stop id appended, and a counter when even that is taken.
func stopNames(stops []Stop) map[string]string {
	count := map[string]int{}
	for _, s := range stops {
		count[s.Name]++
	}
	taken := map[string]bool{}
	for _, s := range stops {
		if count[s.Name] == 1 && strings.TrimSpace(s.Name) != "" {
			taken[s.Name] = true
		}
	}
	names := make(map[string]string, len(stops))
	for _, s := range stops {
		name := s.Name
		if !taken[name] {
			base := fmt.Sprintf("%s [%s]", name, s.ID)
			name = base
			for n := 2; taken[name]; n++ {
				name = fmt.Sprintf("%s (%d)", base, n)
			}
			taken[name] = true
		}
		names[s.ID] = name
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
