package resilience

import "errors"

// ErrBulkheadFull is returned when no read slot became available in time.
var ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")
