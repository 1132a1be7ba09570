// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentHost: The host API owning documents (read, watch, replace-edit)
//   - Channel: Ordered, asynchronous, disposable message pipe to a surface
//   - Notifier: Surfaces user-visible notices for recoverable failures
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
