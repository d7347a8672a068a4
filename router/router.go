package router

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/path"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
)

// Leg is one boarding: wait at WaitStop, then ride Route for SpanCount stops.
type Leg struct {
	WaitStop  catalogue.StopID
	Route     string
	SpanCount int
	RideTime  float64 // minutes, wait excluded
}

// RouteInfo is the fastest journey between two stops.
type RouteInfo struct {
	TotalTime float64 // minutes, waits included
	Legs      []Leg
}

// Router answers shortest-time queries over a routing graph. It is safe for
// concurrent use.
type Router struct {
	graph  *Graph
	wait   float64
	search *multi.WeightedDirectedGraph

	mu    sync.Mutex
	trees map[catalogue.StopID]path.Shortest
}

// New builds the routing graph of cat and prepares it for queries.
func New(cat *catalogue.Catalogue) (*Router, error) {
	g, err := BuildGraph(cat)
	if err != nil {
		return nil, err
	}
	settings, _ := cat.RoutingSettings()
	return NewWithGraph(g, settings), nil
}

// NewWithGraph wraps an already derived graph. settings must be the ones the
// graph was built with.
func NewWithGraph(g *Graph, settings catalogue.RoutingSettings) *Router {
	search := multi.NewWeightedDirectedGraph()
	search.EdgeWeightFunc = minLineWeight
	for v := 0; v < g.VertexCount(); v++ {
		search.AddNode(multi.Node(v))
	}
	for id, e := range g.edges {
		if e.From == e.To {
			// a loop back to the boarding stop never shortens a journey
			continue
		}
		search.SetWeightedLine(spanLine{
			from:   multi.Node(e.From),
			to:     multi.Node(e.To),
			id:     int64(id),
			weight: e.Weight,
		})
	}
	return &Router{
		graph:  g,
		wait:   float64(settings.WaitTimeMinutes),
		search: search,
		trees:  map[catalogue.StopID]path.Shortest{},
	}
}

// Graph returns the routing graph the router searches.
func (r *Router) Graph() *Graph { return r.graph }

// FindRoute returns the fastest journey from one stop to another. The
// boolean is false when either stop is unknown or the destination cannot be
// reached. A journey to the starting stop itself has no legs.
func (r *Router) FindRoute(from, to catalogue.StopID) (RouteInfo, bool) {
	n := r.graph.VertexCount()
	if int(from) >= n || int(to) >= n {
		return RouteInfo{}, false
	}

	nodes, weight := r.shortestFrom(from).To(int64(to))
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return RouteInfo{}, false
	}

	info := RouteInfo{TotalTime: weight, Legs: make([]Leg, 0, len(nodes)-1)}
	for k := 0; k+1 < len(nodes); k++ {
		e := r.graph.Edge(r.bestEdge(nodes[k].ID(), nodes[k+1].ID()))
		info.Legs = append(info.Legs, Leg{
			WaitStop:  e.From,
			Route:     e.Route,
			SpanCount: e.SpanCount,
			RideTime:  e.Weight - r.wait,
		})
	}
	return info, true
}

func (r *Router) shortestFrom(from catalogue.StopID) path.Shortest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tree, ok := r.trees[from]; ok {
		return tree
	}
	tree := path.DijkstraFrom(multi.Node(from), r.search)
	r.trees[from] = tree
	return tree
}

// bestEdge picks the cheapest parallel edge between two adjacent vertices of
// a shortest path, preferring the earliest edge on ties.
func (r *Router) bestEdge(uid, vid int64) EdgeID {
	best := EdgeID(-1)
	bestWeight := math.Inf(1)
	lines := r.search.WeightedLines(uid, vid)
	for lines.Next() {
		l := lines.WeightedLine()
		id := EdgeID(l.ID())
		if w := l.Weight(); w < bestWeight || (w == bestWeight && id < best) {
			best, bestWeight = id, w
		}
	}
	return best
}

func minLineWeight(lines graph.WeightedLines) float64 {
	w := math.Inf(1)
	for lines.Next() {
		w = math.Min(w, lines.WeightedLine().Weight())
	}
	return w
}

// spanLine is the gonum view of one Graph edge; its ID is the EdgeID.
type spanLine struct {
	from, to multi.Node
	id       int64
	weight   float64
}

func (l spanLine) From() graph.Node { return l.from }
func (l spanLine) To() graph.Node   { return l.to }
func (l spanLine) ID() int64        { return l.id }
func (l spanLine) Weight() float64  { return l.weight }

func (l spanLine) ReversedLine() graph.Line {
	l.from, l.to = l.to, l.from
	return l
}
