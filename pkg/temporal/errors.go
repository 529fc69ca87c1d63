package temporal

import "errors"

// Error taxonomy for the temporal store. Structural invariant violations are
// surfaced to the caller immediately; lookups on absent entities return empty
// results instead of errors.
var (
	// ErrInvalidInterval indicates a malformed or zero-length interval.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidRange indicates ill-formed slice bounds (from > to).
	ErrInvalidRange = errors.New("invalid range")

	// ErrNoSuchInteraction indicates a removal target that does not exist or
	// has no presence covering the requested timestamp.
	ErrNoSuchInteraction = errors.New("no such interaction")

	// ErrUnsupportedOperation indicates a removal (or bounded insertion) on a
	// graph built without removal support.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)
