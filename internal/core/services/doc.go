// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The clone core lives here: tree.go rebuilds the page forest and
// clone.go walks a selection of it onto a target parent.
package services
