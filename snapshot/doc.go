// Package snapshot persists a sealed catalogue as a compact binary record
// stream and restores an equivalent catalogue from it.
//
// The stream is one protobuf message written with protowire:
//
//	1  header           version, build id
//	2  stop (repeated)  id, name, latitude, longitude
//	3  distance         from id, to id, meters
//	4  route            name, round trip flag, packed stop ids
//	5  routing settings wait minutes, velocity km/h
//	6  render settings  opaque bytes
//
// Records are replayed through catalogue.Loader in encoded order, so a
// restored catalogue answers every query the same way the original did. The
// routing graph is not stored; callers rebuild it with router.New.
//
// Snapshots are kept in a Store. FileStore writes plain files atomically and
// BadgerStore keeps them in a badger key-value database.
package snapshot
