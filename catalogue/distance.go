package catalogue

import (
	"sort"
)

type stopPair struct {
	from, to StopID
}

// DistanceTable maps ordered stop pairs to road distances in meters.
type DistanceTable struct {
	entries map[stopPair]float64
}

func newDistanceTable() *DistanceTable {
	return &DistanceTable{entries: map[stopPair]float64{}}
}

// Set records the distance from one stop to another. A later call for the
// same ordered pair replaces the earlier value.
func (t *DistanceTable) Set(from, to StopID, meters float64) {
	t.entries[stopPair{from, to}] = meters
}

// Get returns the distance for (from, to), falling back to (to, from).
func (t *DistanceTable) Get(from, to StopID) (float64, bool) {
	if d, ok := t.entries[stopPair{from, to}]; ok {
		return d, true
	}
	d, ok := t.entries[stopPair{to, from}]
	return d, ok
}

// Len is the number of raw directional entries.
func (t *DistanceTable) Len() int { return len(t.entries) }

// Entries returns every raw entry ordered by (From, To).
func (t *DistanceTable) Entries() []Distance {
	out := make([]Distance, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, Distance{From: k.from, To: k.to, Meters: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
