package domain

import (
	"encoding/json"
	"fmt"
)

// MessageKind discriminates messages on the transport channel.
// The set is open-ended: unknown kinds must be ignored by receivers,
// never rejected, so older cores tolerate newer surfaces.
type MessageKind string

// Recognised message kinds.
const (
	// KindFullRefresh instructs the surface to discard and replace its
	// entire rendered state from Content. Host to surface.
	KindFullRefresh MessageKind = "full-refresh"

	// KindFieldUpdate requests a mutation of the document at Path.
	// Surface to host. An empty Path replaces the whole document
	// from Value.
	KindFieldUpdate MessageKind = "field-update"
)

// Message is the tagged envelope flowing over a transport channel.
// Only the fields relevant to the kind are populated.
type Message struct {
	// Kind discriminates the message. Unrecognised kinds are ignored.
	Kind MessageKind `json:"kind"`

	// Content is the full document text for a full-refresh.
	Content string `json:"content,omitempty"`

	// Path is the dot-separated field locator for a field-update.
	// Empty means whole-document replace.
	Path string `json:"path,omitempty"`

	// Value is the new value for a field-update.
	Value any `json:"value,omitempty"`
}

// FullRefresh builds a host-to-surface snapshot message.
func FullRefresh(content string) Message {
	return Message{Kind: KindFullRefresh, Content: content}
}

// FieldUpdate builds a surface-to-host mutation request.
func FieldUpdate(path string, value any) Message {
	return Message{Kind: KindFieldUpdate, Path: path, Value: value}
}

// EncodeMessage serialises a message for the wire. Messages are plain
// JSON so any surface runtime can produce and consume them.
func EncodeMessage(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

// DecodeMessage parses a wire message. A missing or unknown kind is
// not an error here; the controller decides what to ignore.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}
