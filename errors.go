package offsetpager

import "errors"

var (
	// ErrOutOfBounds is returned by Load when the requested key is at or beyond
	// the end of a non-empty dataset. The key is not silently clamped because
	// that would desynchronize the consumer's notion of position from the true
	// shape of the dataset.
	ErrOutOfBounds = errors.New("requested key is out of dataset bounds")

	// ErrInvalidated is returned by Load once the source has been invalidated by
	// a table change. The store is not touched; build a fresh source instead.
	ErrInvalidated = errors.New("paging source is invalidated")
)
