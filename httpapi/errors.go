package httpapi

import "errors"

var (
	// ErrOrchestratorRequired is returned when a search orchestrator is not provided.
	ErrOrchestratorRequired = errors.New("search orchestrator required")

	// ErrWarehouseRequired is returned when a warehouse is not provided.
	ErrWarehouseRequired = errors.New("warehouse required")
)
