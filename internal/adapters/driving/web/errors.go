package web

import "errors"

var (
	// ErrInvalidPorts is returned when no ports are provided.
	ErrInvalidPorts = errors.New("web: invalid ports configuration")

	// ErrMissingTreeService is returned when the tree service is not provided.
	ErrMissingTreeService = errors.New("web: tree service is required")

	// ErrMissingCloneOrchestrator is returned when the clone orchestrator is not provided.
	ErrMissingCloneOrchestrator = errors.New("web: clone orchestrator is required")

	// ErrMissingSessionStore is returned when the session store is not provided.
	ErrMissingSessionStore = errors.New("web: session store is required")
)
