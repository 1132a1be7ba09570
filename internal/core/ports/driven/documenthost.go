package driven

import (
	"context"

	"github.com/custodia-labs/facet/internal/core/domain"
)

// DocumentHost is the host-side document API. The host owns every
// document; the core holds only IDs and change subscriptions. All
// mutation goes through ApplyEdit so the host's own serialised edit
// application remains the single writer of document text.
type DocumentHost interface {
	// Text returns the current full text of the document.
	// Fails with domain.ErrDocumentNotFound for unknown IDs.
	Text(ctx context.Context, id domain.DocumentID) (string, error)

	// Watch subscribes to change notifications for the document.
	// Events are delivered on the returned channel in occurrence order
	// and cover every mutation, including this process's own edits.
	// The cancel function releases the subscription and closes the
	// channel; it is idempotent.
	Watch(id domain.DocumentID) (events <-chan domain.ChangeEvent, cancel func(), err error)

	// ApplyEdit replaces the entire document text. A declined edit
	// fails with an error wrapping domain.ErrEditRejected; callers
	// report it and do not retry, since a retry could race with a
	// legitimate concurrent external change.
	ApplyEdit(ctx context.Context, id domain.DocumentID, text string) error
}
