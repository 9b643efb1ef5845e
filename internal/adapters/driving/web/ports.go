package web

import (
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// Ports aggregates the services the web API drives.
type Ports struct {
	// Tree loads page trees.
	Tree driving.TreeService

	// Clone runs clone operations.
	Clone driving.CloneOrchestrator

	// Sessions keeps the loaded tree of each browser session.
	Sessions driven.SessionStore

	// Runs exposes the run history. Optional.
	Runs driving.RunService

	// Pages renders page previews. Optional.
	Pages driving.PageService
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
	if p.Sessions == nil {
		return ErrMissingSessionStore
	}
	return nil
}
