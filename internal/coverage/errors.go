package coverage

import "errors"

// Precondition errors. Malformed geometry never produces an error; it
// degrades to an empty search area instead.
var (
	// ErrInvalidAgentCount indicates a non-positive number of agents.
	ErrInvalidAgentCount = errors.New("coverage: agent count must be positive")

	// ErrInvalidResolution indicates a non-positive grid resolution.
	ErrInvalidResolution = errors.New("coverage: grid resolution must be positive")

	// ErrInvalidPadding indicates a negative boundary padding.
	ErrInvalidPadding = errors.New("coverage: boundary padding must not be negative")
)
