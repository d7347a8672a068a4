// Package gtfsrt reads GTFS-Realtime feeds and turns them into service
// disruptions for the GTFS importer.
//
// Three kinds of disruption are recognised:
//   - trip updates whose trip is CANCELED
//   - stop time updates marked SKIPPED
//   - alerts with a NO_SERVICE effect on a stop or a route
//
// The main type is Disruptions, which implements gtfs.Disruptions.
package gtfsrt
