package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
)

// Watcher channels are buffered; when a watcher falls behind, newer
// events are dropped because a single pending event already forces a
// full re-read of the current text.
const watchBuffer = 16

// Ensure DocumentHost implements the interface.
var _ driven.DocumentHost = (*DocumentHost)(nil)

// DocumentHost is an in-memory implementation of driven.DocumentHost.
// SetText plays the role of an external editor; ApplyEdit is the
// serialised edit application the core uses for write-backs. Both
// notify every watcher, so a write-back echoes into its own session's
// change subscription exactly like the real host.
type DocumentHost struct {
	mu        sync.Mutex
	texts     map[domain.DocumentID]string
	watchers  map[domain.DocumentID]map[int]chan domain.ChangeEvent
	nextWatch int
	editErr   error
}

// NewDocumentHost creates an empty in-memory document host.
func NewDocumentHost() *DocumentHost {
	return &DocumentHost{
		texts:    make(map[domain.DocumentID]string),
		watchers: make(map[domain.DocumentID]map[int]chan domain.ChangeEvent),
	}
}

// SetText creates or replaces a document as an external editor would,
// notifying all watchers.
func (h *DocumentHost) SetText(id domain.DocumentID, text string) {
	h.mu.Lock()
	h.texts[id] = text
	h.notifyLocked(id)
	h.mu.Unlock()
}

// Text returns the current full text of the document.
func (h *DocumentHost) Text(_ context.Context, id domain.DocumentID) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	text, ok := h.texts[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return text, nil
}

// Watch subscribes to change notifications for the document.
func (h *DocumentHost) Watch(id domain.DocumentID) (<-chan domain.ChangeEvent, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.texts[id]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}

	events := make(chan domain.ChangeEvent, watchBuffer)
	handle := h.nextWatch
	h.nextWatch++

	if h.watchers[id] == nil {
		h.watchers[id] = make(map[int]chan domain.ChangeEvent)
	}
	h.watchers[id][handle] = events

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.watchers[id], handle)
			h.mu.Unlock()
			close(events)
		})
	}
	return events, cancel, nil
}

// ApplyEdit replaces the entire document text and notifies watchers.
// Returns the configured rejection error if RejectEdits was set.
func (h *DocumentHost) ApplyEdit(_ context.Context, id domain.DocumentID, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.editErr != nil {
		return h.editErr
	}
	if _, ok := h.texts[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}

	h.texts[id] = text
	h.notifyLocked(id)
	return nil
}

// RejectEdits makes every subsequent ApplyEdit fail with err.
// Pass nil to accept edits again. Used to exercise the
// edit-rejected path in tests.
func (h *DocumentHost) RejectEdits(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.editErr = err
}

// notifyLocked fans a change event out to every watcher of id.
// Caller must hold h.mu. Sends never block: a full watcher buffer
// means a refresh is already pending.
func (h *DocumentHost) notifyLocked(id domain.DocumentID) {
	for _, events := range h.watchers[id] {
		select {
		case events <- domain.ChangeEvent{DocumentID: id}:
		default:
		}
	}
}
