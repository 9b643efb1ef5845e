// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ContentGateway: Reads and writes Confluence pages
//   - ConfigStore: Application configuration
//   - RunStore: Clone run history
//   - SessionStore: Per-session page tree state for the web API
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
