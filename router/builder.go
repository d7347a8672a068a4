package router

import (
	"fmt"
	"log/slog"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

// BuildGraph derives the routing graph from cat. It fails if the routing
// settings are absent or a route crosses a stop pair without a distance.
func BuildGraph(cat *catalogue.Catalogue) (*Graph, error) {
	settings, ok := cat.RoutingSettings()
	if !ok {
		return nil, ErrNoRoutingSettings
	}
	velocity := utils.VelocityMetersPerMinute(float64(settings.BusVelocityKMH))
	wait := float64(settings.WaitTimeMinutes)

	g := NewGraph(cat.StopCount())
	for _, route := range cat.Routes() {
		if err := addRouteEdges(g, cat, route, velocity, wait); err != nil {
			return nil, err
		}
	}

	slog.Debug("routing graph built",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"routes", cat.RouteCount())
	return g, nil
}

func addRouteEdges(g *Graph, cat *catalogue.Catalogue, route catalogue.Route, velocity, wait float64) error {
	stops := route.Stops
	for i := 0; i+1 < len(stops); i++ {
		forward, backward := 0.0, 0.0
		for j := i + 1; j < len(stops); j++ {
			d, ok := cat.GetDistance(stops[j-1], stops[j])
			if !ok {
				return missingDistance(cat, route.Name, stops[j-1], stops[j])
			}
			forward += d
			g.AddEdge(Edge{
				From:      stops[i],
				To:        stops[j],
				Weight:    forward/velocity + wait,
				SpanCount: j - i,
				Route:     route.Name,
			})

			if route.IsRoundTrip {
				continue
			}
			back, ok := cat.GetDistance(stops[j], stops[j-1])
			if !ok {
				return missingDistance(cat, route.Name, stops[j], stops[j-1])
			}
			backward += back
			g.AddEdge(Edge{
				From:      stops[j],
				To:        stops[i],
				Weight:    backward/velocity + wait,
				SpanCount: j - i,
				Route:     route.Name,
			})
		}
	}
	return nil
}

func missingDistance(cat *catalogue.Catalogue, route string, from, to catalogue.StopID) error {
	fromStop, _ := cat.Stop(from)
	toStop, _ := cat.Stop(to)
	return fmt.Errorf("route %q: %w: %q -> %q", route, catalogue.ErrMissingDistance, fromStop.Name, toStop.Name)
}
