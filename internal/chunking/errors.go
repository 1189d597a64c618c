package chunking

import "errors"

var (
	// ErrNoSections is returned when a transcript has nothing to partition.
	ErrNoSections = errors.New("transcript has no sections")
	// ErrInvalidLimit is returned for a non-positive token ceiling.
	ErrInvalidLimit = errors.New("max tokens per chunk must be > 0")
	// ErrUnknownStrategy is returned for an unsupported strategy name.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")
)
