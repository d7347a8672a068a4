package gtfsrt

import (
	"errors"
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/transit-catalogue/gtfs"
)

var _ gtfs.Disruptions = (*Disruptions)(nil)

// ErrInvalidFeed is returned when a payload is not a GTFS-Realtime FeedMessage.
var ErrInvalidFeed = errors.New("gtfsrt: invalid feed message")

// Disruptions collects the service removed by one or more realtime feeds.
// A nil *Disruptions reports no disruption.
type Disruptions struct {
	at time.Time

	cancelledTrips map[string]struct{}
	skippedStops   map[string]map[string]struct{} // trip_id -> stop_id
	closedStops    map[string]struct{}
	closedRoutes   map[string]struct{}

	headerTimestamp int64
}

// NewDisruptions creates an empty set. Alerts are only applied when one of
// their active periods contains at; a zero at applies every alert.
func NewDisruptions(at time.Time) *Disruptions {
	return &Disruptions{
		at:             at,
		cancelledTrips: map[string]struct{}{},
		skippedStops:   map[string]map[string]struct{}{},
		closedStops:    map[string]struct{}{},
		closedRoutes:   map[string]struct{}{},
	}
}

// Add decodes a FeedMessage and merges its disruptions.
func (d *Disruptions) Add(data []byte) error {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFeed, err)
	}
	d.Merge(&fm)
	return nil
}

// Merge adds the disruptions of an already decoded message.
func (d *Disruptions) Merge(fm *gtfsrtpb.FeedMessage) {
	if ts := int64(fm.GetHeader().GetTimestamp()); ts > d.headerTimestamp {
		d.headerTimestamp = ts
	}
	for _, e := range fm.GetEntity() {
		if tu := e.GetTripUpdate(); tu != nil {
			d.addTripUpdate(tu)
		}
		if a := e.GetAlert(); a != nil {
			d.addAlert(a)
		}
	}
}

func (d *Disruptions) addTripUpdate(tu *gtfsrtpb.TripUpdate) {
	tripID := tu.GetTrip().GetTripId()
	if tripID == "" {
		return
	}
	if tu.GetTrip().GetScheduleRelationship() == gtfsrtpb.TripDescriptor_CANCELED {
		d.cancelledTrips[tripID] = struct{}{}
		return
	}
	for _, stu := range tu.GetStopTimeUpdate() {
		if stu.GetStopId() == "" ||
			stu.GetScheduleRelationship() != gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED {
			continue
		}
		if d.skippedStops[tripID] == nil {
			d.skippedStops[tripID] = map[string]struct{}{}
		}
		d.skippedStops[tripID][stu.GetStopId()] = struct{}{}
	}
}

func (d *Disruptions) addAlert(a *gtfsrtpb.Alert) {
	if a.GetEffect() != gtfsrtpb.Alert_NO_SERVICE || !d.active(a.GetActivePeriod()) {
		return
	}
	for _, ie := range a.GetInformedEntity() {
		switch {
		case ie.GetTrip().GetTripId() != "":
			d.cancelledTrips[ie.GetTrip().GetTripId()] = struct{}{}
		case ie.GetStopId() != "":
			d.closedStops[ie.GetStopId()] = struct{}{}
		case ie.GetRouteId() != "":
			d.closedRoutes[ie.GetRouteId()] = struct{}{}
		}
	}
}

// active reports whether any period contains d.at. No periods means always.
func (d *Disruptions) active(periods []*gtfsrtpb.TimeRange) bool {
	if d.at.IsZero() || len(periods) == 0 {
		return true
	}
	now := uint64(d.at.Unix())
	for _, p := range periods {
		if p.Start != nil && now < p.GetStart() {
			continue
		}
		if p.End != nil && now > p.GetEnd() {
			continue
		}
		return true
	}
	return false
}

// TripCancelled reports whether the whole trip is removed
func (d *Disruptions) TripCancelled(tripID string) bool {
	if d == nil {
		return false
	}
	_, ok := d.cancelledTrips[tripID]
	return ok
}

// StopSkipped reports whether the trip no longer calls at stopID
func (d *Disruptions) StopSkipped(tripID, stopID string) bool {
	if d == nil {
		return false
	}
	_, ok := d.skippedStops[tripID][stopID]
	return ok
}

// StopClosed reports whether no service calls at stopID
func (d *Disruptions) StopClosed(stopID string) bool {
	if d == nil {
		return false
	}
	_, ok := d.closedStops[stopID]
	return ok
}

// RouteClosed reports whether the route runs no service
func (d *Disruptions) RouteClosed(routeID string) bool {
	if d == nil {
		return false
	}
	_, ok := d.closedRoutes[routeID]
	return ok
}

// Count returns the number of cancelled trips, skipped calls, closed stops
// and closed routes.
func (d *Disruptions) Count() (trips, skipped, stops, routes int) {
	if d == nil {
		return 0, 0, 0, 0
	}
	for _, m := range d.skippedStops {
		skipped += len(m)
	}
	return len(d.cancelledTrips), skipped, len(d.closedStops), len(d.closedRoutes)
}

// GetTimestampForFeedMessage returns the newest header timestamp seen
func (d *Disruptions) GetTimestampForFeedMessage() int64 {
	if d == nil {
		return 0
	}
	return d.headerTimestamp
}
