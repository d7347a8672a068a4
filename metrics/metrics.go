// Package metrics exposes prometheus collectors for catalogue queries.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transit_catalogue"

// Query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder owns a registry and the collectors registered on it.
type Recorder struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	routeSearch   *prometheus.HistogramVec
	stops         prometheus.Gauge
	routes        prometheus.Gauge
	distances     prometheus.Gauge
	graphEdges    prometheus.Gauge
	snapshotBytes prometheus.Gauge
}

// NewRecorder creates a recorder with a private registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		// Labels: type (Bus, Stop, Route, Map), outcome (ok, not_found, error)
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "total",
			Help:      "Stat requests answered, by type and outcome",
		}, []string{"type", "outcome"}),
		// Labels: found (true, false)
		routeSearch: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "search_duration_seconds",
			Help:      "Shortest path search latency in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"found"}),
		stops: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalogue",
			Name:      "stops",
			Help:      "Stops in the loaded catalogue",
		}),
		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalogue",
			Name:      "routes",
			Help:      "Routes in the loaded catalogue",
		}),
		distances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalogue",
			Name:      "distances",
			Help:      "Directional distance entries in the loaded catalogue",
		}),
		graphEdges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "graph_edges",
			Help:      "Edges of the routing graph",
		}),
		snapshotBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "size_bytes",
			Help:      "Size of the last snapshot written or read",
		}),
	}
}

// Registry returns the registry for exposition.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordQuery counts one answered stat request.
func (r *Recorder) RecordQuery(requestType, outcome string) {
	r.queries.WithLabelValues(requestType, outcome).Inc()
}

// RecordRouteSearch records the latency of one shortest path search.
func (r *Recorder) RecordRouteSearch(d time.Duration, found bool) {
	r.routeSearch.WithLabelValues(fmt.Sprint(found)).Observe(d.Seconds())
}

// SetCatalogueSize publishes the size of the loaded catalogue.
func (r *Recorder) SetCatalogueSize(stops, routes, distances int) {
	r.stops.Set(float64(stops))
	r.routes.Set(float64(routes))
	r.distances.Set(float64(distances))
}

// SetGraphEdges publishes the edge count of the routing graph.
func (r *Recorder) SetGraphEdges(n int) { r.graphEdges.Set(float64(n)) }

// SetSnapshotSize publishes the encoded size of a snapshot.
func (r *Recorder) SetSnapshotSize(n int) { r.snapshotBytes.Set(float64(n)) }

// WriteTextfile dumps every metric in the text exposition format, for
// pickup by the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
