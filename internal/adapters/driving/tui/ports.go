// Package tui provides an interactive terminal user interface for confclone.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tree loads page trees.
	Tree driving.TreeService

	// Clone runs clone operations.
	Clone driving.CloneOrchestrator

	// Settings provides form defaults. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Tree == nil {
		return ErrMissingTreeService
	}
	if p.Clone == nil {
		return ErrMissingCloneOrchestrator
	}
	return nil
}
