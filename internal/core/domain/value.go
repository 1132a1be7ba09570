package domain

import (
	"fmt"
	"strings"
)

// Value is the parsed tree form of a document's text: an open-ended
// mapping of string keys to scalars, sequences and nested mappings.
// No schema is enforced. Value is ephemeral: it is reconstructed
// from the document text on demand and never cached as the authority.
type Value map[string]any

// SetPath sets the value at a dot-separated locator, creating
// intermediate mappings as needed. Descending through an existing
// non-mapping value fails with ErrInvalidPath.
func (v Value) SetPath(path string, val any) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	keys := strings.Split(path, ".")
	current := map[string]any(v)

	for i, key := range keys[:len(keys)-1] {
		next, ok := current[key]
		if !ok {
			child := map[string]any{}
			current[key] = child
			current = child
			continue
		}

		child, ok := asMap(next)
		if !ok {
			return fmt.Errorf("%w: %q is not a mapping", ErrInvalidPath, strings.Join(keys[:i+1], "."))
		}
		current[key] = child
		current = child
	}

	current[keys[len(keys)-1]] = val
	return nil
}

// GetPath returns the value at a dot-separated locator.
// The second return is false if any segment is missing or a
// non-mapping value is traversed.
func (v Value) GetPath(path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	keys := strings.Split(path, ".")
	current := map[string]any(v)

	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key]
		if !ok {
			return nil, false
		}
		child, ok := asMap(next)
		if !ok {
			return nil, false
		}
		current = child
	}

	val, ok := current[keys[len(keys)-1]]
	return val, ok
}

// asMap normalises the two mapping representations that can appear in
// a decoded tree (Value from our own helpers, map[string]any from the
// JSON decoder).
func asMap(val any) (map[string]any, bool) {
	switch m := val.(type) {
	case map[string]any:
		return m, true
	case Value:
		return map[string]any(m), true
	default:
		return nil, false
	}
}
