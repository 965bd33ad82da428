package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not finish before its deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
