// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The session manager here is the synchronisation controller: it owns
// the lifecycle of each document↔surface pairing and keeps the two
// eventually consistent without ever letting the surface become a
// second authority for the document text.
package services
