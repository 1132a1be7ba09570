// Package web hosts surfaces over HTTP. It serves the surface shell
// page and upgrades websocket connections into transport channels,
// creating one sync session per connected surface.
package web
