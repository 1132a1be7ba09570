// Package codec converts between a document's raw text and its parsed
// Value tree. It is pure and stateless: no I/O, no package state, safe
// to call from any goroutine without synchronisation.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/facet/internal/core/domain"
)

// maxErrorExcerpt bounds how much offending text is carried in a
// malformed-document error.
const maxErrorExcerpt = 120

// Decode parses document text into a Value tree.
//
// Empty or all-whitespace text yields an empty mapping: an empty
// document is valid initial state, not an error. Non-empty text that
// fails to parse yields an error wrapping domain.ErrMalformedDocument
// carrying an excerpt of the offending text; a corrupt tree is never
// partially returned.
//
// Numbers are decoded as json.Number so their literals survive a
// decode/encode cycle unchanged.
func Decode(text string) (domain.Value, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Value{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v domain.Value
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %s (text: %q)", domain.ErrMalformedDocument, err, excerpt(text))
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document (text: %q)", domain.ErrMalformedDocument, excerpt(text))
	}
	// A literal null decodes into a nil map without error. Documents
	// are mappings; reject it like any other non-mapping value.
	if v == nil {
		return nil, fmt.Errorf("%w: document is null (text: %q)", domain.ErrMalformedDocument, excerpt(text))
	}
	return v, nil
}

// Encode serialises a Value tree as canonical document text: two-space
// indentation, deterministic key order, trailing newline. The output
// is human-diffable and stable, so Encode(Decode(Encode(v))) equals
// Encode(v) for every well-formed v.
func Encode(v domain.Value) (string, error) {
	if v == nil {
		v = domain.Value{}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(data) + "\n", nil
}

func excerpt(text string) string {
	if len(text) <= maxErrorExcerpt {
		return text
	}
	return text[:maxErrorExcerpt] + "..."
}
