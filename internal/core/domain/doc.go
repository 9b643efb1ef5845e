// Package domain defines the core business entities for confclone.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: A page record as returned by the content gateway
//   - PageNode: A node of the page forest rebuilt from page ancestors
//   - TreeState: The caller-owned result of one tree load
//   - RunReport: The outcome of one clone run
//   - Settings: User-facing configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
