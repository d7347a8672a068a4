package router

import (
	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
)

// EdgeID indexes Graph edges in insertion order.
type EdgeID int

// Edge is one ride on a single route between two stops.
type Edge struct {
	From      catalogue.StopID
	To        catalogue.StopID
	Weight    float64 // minutes, boarding wait included
	SpanCount int     // stop-to-stop hops covered
	Route     string
}

// Graph is a directed weighted multigraph with one vertex per stop.
type Graph struct {
	edges     []Edge
	incidence [][]EdgeID
}

// NewGraph creates a graph with vertexCount vertices and no edges.
func NewGraph(vertexCount int) *Graph {
	return &Graph{incidence: make([][]EdgeID, vertexCount)}
}

// AddEdge appends e and returns its id. Both endpoints must be vertices of g.
func (g *Graph) AddEdge(e Edge) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, e)
	g.incidence[e.From] = append(g.incidence[e.From], id)
	return id
}

func (g *Graph) VertexCount() int { return len(g.incidence) }
func (g *Graph) EdgeCount() int   { return len(g.edges) }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// IncidentEdges returns the ids of the edges leaving v.
func (g *Graph) IncidentEdges(v catalogue.StopID) []EdgeID { return g.incidence[v] }
