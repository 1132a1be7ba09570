// Package tui is a terminal surface implementation following the Elm
// architecture. It honours the surface-side contract: a full-refresh
// replaces the entire rendered state, and every local edit is sent to
// the controller as a field-update instead of mutating any local
// authoritative copy; the rendered tree is only ever a projection.
package tui
