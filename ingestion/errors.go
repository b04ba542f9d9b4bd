package ingestion

import "errors"

var (
	// ErrWarehouseRequired is returned when a warehouse is not provided.
	ErrWarehouseRequired = errors.New("warehouse required")

	// ErrInvalidMaxAttempts is returned when a retry attempt count is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
