// Package file provides the TOML-backed implementation of the config
// store port. Configuration lives in a single file under the facet
// config directory and is addressed with dot-notation keys.
package file
