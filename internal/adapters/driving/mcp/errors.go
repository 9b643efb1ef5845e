// Package mcp provides an MCP (Model Context Protocol) server adapter for confclone.
// It lets AI assistants load page trees, clone selections and read the run history.
package mcp

import "errors"

// ErrMissingTreeService is returned when the tree service is not provided.
var ErrMissingTreeService = errors.New("mcp: tree service is required")

// ErrMissingCloneOrchestrator is returned when the clone orchestrator is not provided.
var ErrMissingCloneOrchestrator = errors.New("mcp: clone orchestrator is required")
