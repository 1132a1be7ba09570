package driving

import (
	"context"

	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
)

// Session is the handle for one live document↔surface pairing.
// It is created when the host opens a document in a surface and
// disposed when the host tears the surface down.
type Session interface {
	// ID returns the unique session identifier.
	ID() string

	// DocumentID returns the document this session is bound to.
	DocumentID() domain.DocumentID

	// Dispose releases the change subscription and closes the channel.
	// Idempotent: disposing twice is a no-op, not an error.
	Dispose()

	// Done is closed once the session is fully disposed.
	Done() <-chan struct{}
}

// SessionManager is the factory hook the host invokes when a document
// of the recognised kind is opened in a surface. The host supplies the
// transport channel; the manager pairs it with the document and keeps
// the two eventually consistent until disposal.
type SessionManager interface {
	// Create binds a document to a surface channel, pushes the initial
	// full snapshot, and starts synchronisation. The returned session
	// must be disposed when the surface goes away; closing the channel
	// from the surface side disposes it too.
	Create(ctx context.Context, id domain.DocumentID, ch driven.Channel) (Session, error)

	// Sessions reports the IDs of live sessions.
	Sessions() []string

	// Close disposes every live session.
	Close()
}
