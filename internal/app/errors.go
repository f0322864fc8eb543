package app

import "errors"

// Sentinel kinds for workflow usage errors. Callers match with errors.Is.
var (
	ErrMissingField = errors.New("missing required field")
)
