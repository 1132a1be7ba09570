package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/facet/internal/codec"
	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
	"github.com/custodia-labs/facet/internal/core/ports/driving"
	"github.com/custodia-labs/facet/internal/logger"
)

// Ensure SessionManager implements the interface.
var _ driving.SessionManager = (*SessionManager)(nil)

// SessionManager pairs documents with surface channels and runs one
// synchronisation session per pairing. Sessions are independent; the
// manager keeps a registry only so Close can tear everything down.
type SessionManager struct {
	host     driven.DocumentHost
	notifier driven.Notifier

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a session manager over a document host.
// The notifier receives user-visible notices for recoverable failures;
// it must not be nil.
func NewSessionManager(host driven.DocumentHost, notifier driven.Notifier) *SessionManager {
	return &SessionManager{
		host:     host,
		notifier: notifier,
		sessions: make(map[string]*Session),
	}
}

// Create binds a document to a surface channel and starts the session.
//
// The initial full snapshot is pushed before the event loop starts, so
// the surface always sees a full-refresh before any other traffic.
func (m *SessionManager) Create(ctx context.Context, id domain.DocumentID, ch driven.Channel) (driving.Session, error) {
	events, cancel, err := m.host.Watch(id)
	if err != nil {
		return nil, fmt.Errorf("watch document %s: %w", id, err)
	}

	s := &Session{
		id:       uuid.NewString(),
		docID:    id,
		host:     m.host,
		ch:       ch,
		notifier: m.notifier,
		unwatch:  cancel,
		done:     make(chan struct{}),
	}

	if err := s.pushRefresh(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("initial refresh for %s: %w", id, err)
	}

	// onDisposed must be set before the session is registered: a
	// concurrent Close may dispose it as soon as it is visible.
	s.onDisposed = func() { m.remove(s.id) }
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	go s.run(ctx, events)

	logger.Info("session %s opened on %s", s.id, id)
	return s, nil
}

// Sessions reports the IDs of live sessions.
func (m *SessionManager) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Close disposes every live session.
func (m *SessionManager) Close() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Dispose()
	}
}

func (m *SessionManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Ensure Session implements the interface.
var _ driving.Session = (*Session)(nil)

// Session synchronises one document with one surface. All state
// transitions run on the session's own goroutine, which reacts to
// exactly two event sources: the document change subscription and the
// channel's inbound messages. That serialisation is the concurrency
// model; the session itself takes no locks.
type Session struct {
	id       string
	docID    domain.DocumentID
	host     driven.DocumentHost
	ch       driven.Channel
	notifier driven.Notifier

	unwatch    func()
	onDisposed func()

	disposeOnce sync.Once
	done        chan struct{}
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// DocumentID returns the document this session is bound to.
func (s *Session) DocumentID() domain.DocumentID {
	return s.docID
}

// Done is closed once the session is fully disposed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Dispose releases the change subscription and closes the channel.
// Idempotent. In-flight work on the session goroutine is allowed to
// finish; nothing reaches the surface afterwards because the channel
// is already closed.
func (s *Session) Dispose() {
	s.disposeOnce.Do(func() {
		s.unwatch()
		_ = s.ch.Close()
		if s.onDisposed != nil {
			s.onDisposed()
		}
		close(s.done)
		logger.Info("session %s on %s disposed", s.id, s.docID)
	})
}

// run is the session event loop. It exits when either event source
// terminates or the session is disposed, and always leaves the
// session disposed.
func (s *Session) run(ctx context.Context, events <-chan domain.ChangeEvent) {
	defer s.Dispose()

	for {
		select {
		case <-s.done:
			return

		case <-ctx.Done():
			return

		case _, ok := <-events:
			if !ok {
				return
			}
			// Any external mutation, including our own write-back echo,
			// triggers an unconditional snapshot push. The surface
			// applies a full-refresh as a full replace, so redundant
			// deliveries are harmless.
			if err := s.pushRefresh(ctx); err != nil {
				logger.Warn("session %s: refresh failed: %v", s.id, err)
			}

		case msg, ok := <-s.ch.Receive():
			if !ok {
				return
			}
			s.handleMessage(ctx, msg)
		}
	}
}

// pushRefresh sends the current document text to the surface.
// A closed channel is not an error: the session is being torn down
// and the message is lost by design. A full backlog drops the
// refresh; the next one carries the whole document again.
func (s *Session) pushRefresh(ctx context.Context) error {
	text, err := s.host.Text(ctx, s.docID)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	if err := s.ch.Send(domain.FullRefresh(text)); err != nil {
		switch {
		case errors.Is(err, domain.ErrChannelClosed):
			return nil
		case errors.Is(err, domain.ErrChannelFull):
			logger.Debug("session %s: refresh dropped, surface backlog full", s.id)
			return nil
		}
		return fmt.Errorf("send refresh: %w", err)
	}
	return nil
}

// handleMessage dispatches one inbound surface message. Unrecognised
// kinds are ignored for forward compatibility.
func (s *Session) handleMessage(ctx context.Context, msg domain.Message) {
	switch msg.Kind {
	case domain.KindFieldUpdate:
		if err := s.applyUpdate(ctx, msg); err != nil {
			s.notifier.Notify(fmt.Sprintf("document %s: %v", s.docID, err))
			logger.Warn("session %s: update abandoned: %v", s.id, err)
		}
	default:
		logger.Debug("session %s: ignoring message kind %q", s.id, msg.Kind)
	}
}

// applyUpdate performs the write-back for a surface-originated
// mutation: decode current text, apply the change, re-encode, replace
// the full document. The host's change notification then re-enters
// the refresh path, closing the loop. On any failure the document is
// left unmodified.
func (s *Session) applyUpdate(ctx context.Context, msg domain.Message) error {
	text, err := s.host.Text(ctx, s.docID)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	value, err := codec.Decode(text)
	if err != nil {
		return err
	}

	if msg.Path == "" {
		replacement, ok := msg.Value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: whole-document update value must be a mapping", domain.ErrInvalidPath)
		}
		value = domain.Value(replacement)
	} else if err := value.SetPath(msg.Path, msg.Value); err != nil {
		return err
	}

	encoded, err := codec.Encode(value)
	if err != nil {
		return err
	}

	if err := s.host.ApplyEdit(ctx, s.docID, encoded); err != nil {
		return fmt.Errorf("write back: %w", err)
	}

	logger.Debug("session %s: applied update at %q", s.id, msg.Path)
	return nil
}
