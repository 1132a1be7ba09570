// Package driving defines interfaces that external actors (the CLI,
// the surface-hosting web server, the terminal surface) use to drive
// core services. These are the "driving" ports in hexagonal
// architecture terminology.
//
// Implementations of these interfaces live in internal/core/services.
package driving
