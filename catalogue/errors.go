package catalogue

import "errors"

var (
	ErrUnknownStop        = errors.New("unknown stop")
	ErrUnknownRoute       = errors.New("unknown route")
	ErrDuplicateStop      = errors.New("duplicate stop name")
	ErrDuplicateRoute     = errors.New("duplicate route name")
	ErrEmptyRoute         = errors.New("route has no stops")
	ErrInvalidDistance    = errors.New("invalid distance")
	ErrMissingDistance    = errors.New("missing distance between stops")
	ErrDegenerateRoute    = errors.New("route is too short to compute curvature")
	ErrInvalidSettings    = errors.New("invalid routing settings")
	ErrSettingsAlreadySet = errors.New("routing settings already set")
	ErrLoaderSealed       = errors.New("loader already built")
)
