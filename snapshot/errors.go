package snapshot

import "errors"

var (
	// ErrCorruptSnapshot is returned for any snapshot that cannot be decoded
	// into a consistent catalogue.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrSnapshotNotFound is returned by a Store that holds no snapshot under
	// the requested name.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrNoCatalogue = errors.New("snapshot has no catalogue")
)
