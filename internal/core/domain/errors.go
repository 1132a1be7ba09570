package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrDocumentNotFound indicates the requested document does not exist
	// on the host.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrMalformedDocument indicates the document text does not parse as
	// structured data. Recovered at the write-back site: the pending edit
	// is abandoned and the document is left untouched.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrEditRejected indicates the host declined a replace-edit, for
	// example because the document was closed or locked underneath us.
	// Rejected edits are surfaced, never retried automatically.
	ErrEditRejected = errors.New("edit rejected")

	// ErrChannelClosed indicates a send or receive on a disposed channel.
	// Sends after disposal are no-ops by contract, so this error is
	// handled silently inside the controller.
	ErrChannelClosed = errors.New("channel closed")

	// ErrChannelFull indicates a send against a full backlog. The
	// channel is still open; the message is simply not enqueued. For
	// snapshot pushes this is recoverable, since the next refresh
	// carries the whole document again.
	ErrChannelFull = errors.New("channel backlog full")

	// ErrInvalidPath indicates a field locator that cannot be applied to
	// the value tree, such as descending through a scalar.
	ErrInvalidPath = errors.New("invalid path")
)
