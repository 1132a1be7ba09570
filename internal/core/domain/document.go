package domain

// DocumentID is a stable handle to a host-managed document.
// For the file-backed host this is an absolute file path; other
// hosts may use URIs. The controller never owns the document, it
// only holds the ID and a change subscription.
type DocumentID string

// String returns the string representation.
func (id DocumentID) String() string {
	return string(id)
}

// ChangeEvent signals that a document's text was mutated, by any
// editor including a session's own write-back. It carries no delta:
// consumers are expected to re-read the current text.
type ChangeEvent struct {
	// DocumentID identifies the changed document.
	DocumentID DocumentID
}
