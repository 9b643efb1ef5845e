package mcp

import (
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tree loads page trees.
	Tree driving.TreeService

	// Clone runs clone operations.
	Clone driving.CloneOrchestrator

	// Runs exposes the run history. Optional.
	Runs driving.RunService

	// Pages renders page previews. Optional.
	Pages driving.PageService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tree == nil {
		return ErrMissingTreeService
	}
	if p.Clone == nil {
		return ErrMissingCloneOrchestrator
	}
	return nil
}
