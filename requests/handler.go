package requests

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transit-catalogue/metrics"
	"github.com/theoremus-urban-solutions/transit-catalogue/router"
)

var tracer = otel.Tracer("transit-catalogue/requests")

// Handler answers stat requests against a sealed catalogue.
type Handler struct {
	cat     *catalogue.Catalogue
	router  *router.Router
	metrics *metrics.Recorder
	wait    float64
}

// NewHandler creates a handler. rt may be nil when the catalogue has no
// routing settings; Route requests then report an error. rec may be nil.
func NewHandler(cat *catalogue.Catalogue, rt *router.Router, rec *metrics.Recorder) *Handler {
	h := &Handler{cat: cat, router: rt, metrics: rec}
	if s, ok := cat.RoutingSettings(); ok {
		h.wait = float64(s.WaitTimeMinutes)
	}
	return h
}

// Process answers reqs in order. Every request yields exactly one response.
func (h *Handler) Process(ctx context.Context, reqs []StatRequest) []any {
	ctx, span := tracer.Start(ctx, "Handler.Process",
		trace.WithAttributes(attribute.Int("requests.count", len(reqs))))
	defer span.End()

	out := make([]any, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, h.Answer(ctx, req))
	}
	return out
}

// Answer answers a single request.
func (h *Handler) Answer(ctx context.Context, req StatRequest) any {
	_, span := tracer.Start(ctx, "Handler.Answer", trace.WithAttributes(
		attribute.Int("request.id", req.ID),
		attribute.String("request.type", req.Type),
	))
	defer span.End()

	var resp any
	switch req.Type {
	case StatBus:
		resp = h.bus(req)
	case StatStop:
		resp = h.stop(req)
	case StatRoute:
		resp = h.route(req)
	default:
		resp = ErrorResponse{RequestID: req.ID, ErrorMessage: MessageNotSupported}
	}

	outcome := metrics.OutcomeOK
	if e, ok := resp.(ErrorResponse); ok {
		outcome = metrics.OutcomeError
		if e.ErrorMessage == MessageNotFound {
			outcome = metrics.OutcomeNotFound
		} else {
			span.SetStatus(codes.Error, e.ErrorMessage)
		}
	}
	span.SetAttributes(attribute.String("request.outcome", outcome))
	if h.metrics != nil {
		h.metrics.RecordQuery(req.Type, outcome)
	}
	slog.Debug("stat request answered", "id", req.ID, "type", req.Type, "outcome", outcome)
	return resp
}

func (h *Handler) bus(req StatRequest) any {
	stat, err := h.cat.GetBusStat(req.Name)
	if errors.Is(err, catalogue.ErrUnknownRoute) {
		return notFound(req)
	}
	if err != nil {
		return ErrorResponse{RequestID: req.ID, ErrorMessage: err.Error()}
	}
	return BusResponse{
		RequestID:       req.ID,
		Curvature:       stat.Curvature,
		RouteLength:     stat.RouteLength,
		StopCount:       stat.StopCount,
		UniqueStopCount: stat.UniqueStopCount,
	}
}

func (h *Handler) stop(req StatRequest) any {
	buses, ok := h.cat.GetBusesByStop(req.Name)
	if !ok {
		return notFound(req)
	}
	return StopResponse{RequestID: req.ID, Buses: buses}
}

func (h *Handler) route(req StatRequest) any {
	if h.router == nil {
		return ErrorResponse{RequestID: req.ID, ErrorMessage: router.ErrNoRoutingSettings.Error()}
	}
	from, ok := h.cat.FindStop(req.From)
	if !ok {
		return notFound(req)
	}
	to, ok := h.cat.FindStop(req.To)
	if !ok {
		return notFound(req)
	}

	start := time.Now()
	info, found := h.router.FindRoute(from.ID, to.ID)
	if h.metrics != nil {
		h.metrics.RecordRouteSearch(time.Since(start), found)
	}
	if !found {
		return notFound(req)
	}

	items := make([]RouteItem, 0, 2*len(info.Legs))
	for _, leg := range info.Legs {
		stop, _ := h.cat.Stop(leg.WaitStop)
		items = append(items,
			RouteItem{Type: "Wait", StopName: stop.Name, Time: h.wait},
			RouteItem{Type: "Bus", Bus: leg.Route, SpanCount: leg.SpanCount, Time: leg.RideTime},
		)
	}
	return RouteResponse{RequestID: req.ID, TotalTime: info.TotalTime, Items: items}
}

func notFound(req StatRequest) ErrorResponse {
	return ErrorResponse{RequestID: req.ID, ErrorMessage: MessageNotFound}
}
