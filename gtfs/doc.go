/*
Package gtfs imports a GTFS static feed into a transit catalogue.

The feed is read from a zip archive (a path, raw bytes or an io.ReaderAt).
stops.txt, routes.txt, trips.txt and stop_times.txt are required;
shapes.txt is used when present.

# Mapping

Every stop of location_type 0 becomes a catalogue stop named after its
stop_name. Names shared by several stops are disambiguated as
"name [stop_id]".

Every (route, direction) pair becomes one catalogue route built from the
stop sequence of its longest trip. Routes are named by route_short_name
(falling back to route_long_name, then route_id), with "/1" appended for
direction 1. They are stored as round trips, so they are travelled in the
listed order only; the opposite direction is its own route.

Road distances between consecutive stops are measured along the trip's
shape when one exists, otherwise as the great-circle distance, rounded to
whole meters.

# Disruptions

An optional Disruptions value removes service before patterns are chosen:
cancelled trips, skipped stops, closed stops and closed routes. The gtfsrt
package builds one from GTFS-Realtime feeds.

# Usage

	feed, err := gtfs.ReadFeedFromFile("feed.zip")
	if err != nil {
	    return err
	}
	l := catalogue.NewLoader()
	summary, err := gtfs.Import(feed, l, gtfs.Options{WaitTime: 6, Velocity: 40})
	if err != nil {
	    return err
	}
	cat, err := l.Build()
*/
package gtfs
