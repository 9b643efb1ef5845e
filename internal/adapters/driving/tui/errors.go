package tui

import "errors"

// ErrMissingTreeService is returned when the tree service is not provided.
var ErrMissingTreeService = errors.New("tui: tree service is required")

// ErrMissingCloneOrchestrator is returned when the clone orchestrator is not provided.
var ErrMissingCloneOrchestrator = errors.New("tui: clone orchestrator is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
