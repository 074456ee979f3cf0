package runner

import "errors"

var (
	ErrNegativeSteps = errors.New("runner: max steps must not be negative")
	ErrCanceled      = errors.New("runner: simulation canceled")
)
