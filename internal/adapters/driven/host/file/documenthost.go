// Package file provides a filesystem-backed implementation of the
// document host port. Document IDs are file paths; external editors
// are observed through filesystem notifications.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
	"github.com/custodia-labs/facet/internal/logger"
)

// defaultRefreshLimit throttles change notifications per watched
// document. Editors that write in bursts (truncate, write, rename)
// collapse into few events; consumers re-read the current text on
// each event so coalescing loses nothing.
var defaultRefreshLimit = rate.Every(25 * time.Millisecond)

// Ensure DocumentHost implements the interface.
var _ driven.DocumentHost = (*DocumentHost)(nil)

// DocumentHost serves documents from the local filesystem.
// ApplyEdit writes through the same path the watcher observes, so a
// write-back re-triggers the change subscription exactly like an
// external edit; the controller relies on that loop.
type DocumentHost struct {
	refreshLimit rate.Limit
}

// NewDocumentHost creates a filesystem document host with the default
// notification throttle.
func NewDocumentHost() *DocumentHost {
	return &DocumentHost{refreshLimit: defaultRefreshLimit}
}

// NewDocumentHostWithLimit creates a host with a custom notification
// throttle. rate.Inf disables throttling; tests use this.
func NewDocumentHostWithLimit(limit rate.Limit) *DocumentHost {
	return &DocumentHost{refreshLimit: limit}
}

// Text returns the current contents of the file.
func (h *DocumentHost) Text(_ context.Context, id domain.DocumentID) (string, error) {
	data, err := os.ReadFile(filepath.Clean(string(id)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return "", fmt.Errorf("read %s: %w", id, err)
	}
	return string(data), nil
}

// ApplyEdit replaces the file contents. Failures surface as rejected
// edits; the caller reports them and leaves the document alone.
func (h *DocumentHost) ApplyEdit(_ context.Context, id domain.DocumentID, text string) error {
	path := filepath.Clean(string(id))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return fmt.Errorf("%w: %v", domain.ErrEditRejected, err)
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEditRejected, err)
	}
	return nil
}

// Watch subscribes to filesystem notifications for the file. The
// parent directory is watched so rename-replace saves (the common
// editor strategy) are still observed.
func (h *DocumentHost) Watch(id domain.DocumentID) (<-chan domain.ChangeEvent, func(), error) {
	path := filepath.Clean(string(id))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, nil, fmt.Errorf("watch %s: %w", path, err)
	}

	// Capacity one: a pending event already forces a full re-read, so
	// anything beyond it is redundant.
	events := make(chan domain.ChangeEvent, 1)
	stop := make(chan struct{})

	go h.forward(id, path, watcher, events, stop)

	var once sync.Once
	cancel := func() {
		once.Do(func() { close(stop) })
	}
	return events, cancel, nil
}

// forward pumps filesystem notifications into change events until the
// subscription is cancelled.
func (h *DocumentHost) forward(
	id domain.DocumentID,
	path string,
	watcher *fsnotify.Watcher,
	events chan domain.ChangeEvent,
	stop <-chan struct{},
) {
	defer close(events)
	defer watcher.Close()

	limiter := rate.NewLimiter(h.refreshLimit, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	for {
		select {
		case <-stop:
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case events <- domain.ChangeEvent{DocumentID: id}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", path, err)
		}
	}
}
