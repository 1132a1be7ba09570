package driven

// Notifier surfaces user-visible notices. The controller converts
// recoverable failures (malformed documents, rejected edits) into
// notices instead of propagating them as faults.
type Notifier interface {
	// Notify reports a notice to the user. Must not block.
	Notify(message string)
}
