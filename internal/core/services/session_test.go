package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/facet/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/facet/internal/codec"
	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driving"
)

const testDoc = domain.DocumentID("mem://config.json")

// recordingNotifier captures user-visible notices for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, message)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notes...)
}

// rig wires a manager over the in-memory host with one open session.
type rig struct {
	host     *memory.DocumentHost
	manager  *SessionManager
	notifier *recordingNotifier
	surface  *memory.Channel
	session  driving.Session
}

func newRig(t *testing.T, initialText string) *rig {
	t.Helper()

	host := memory.NewDocumentHost()
	host.SetText(testDoc, initialText)
	notifier := &recordingNotifier{}
	manager := NewSessionManager(host, notifier)

	controllerEnd, surfaceEnd := memory.NewChannelPair()
	session, err := manager.Create(context.Background(), testDoc, controllerEnd)
	require.NoError(t, err)
	t.Cleanup(session.Dispose)

	return &rig{
		host:     host,
		manager:  manager,
		notifier: notifier,
		surface:  surfaceEnd,
		session:  session,
	}
}

func receiveMessage(t *testing.T, ch *memory.Channel) domain.Message {
	t.Helper()
	select {
	case msg, ok := <-ch.Receive():
		require.True(t, ok, "channel closed while a message was expected")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return domain.Message{}
	}
}

func assertSilent(t *testing.T, ch *memory.Channel) {
	t.Helper()
	select {
	case msg, ok := <-ch.Receive():
		if ok {
			t.Fatalf("unexpected message: %+v", msg)
		}
	case <-time.After(150 * time.Millisecond):
	}
}

func TestSessionManager_InitialSync(t *testing.T) {
	r := newRig(t, `{"a": 1}`)

	first := receiveMessage(t, r.surface)

	assert.Equal(t, domain.KindFullRefresh, first.Kind)
	assert.Equal(t, `{"a": 1}`, first.Content)
	assertSilent(t, r.surface)
}

func TestSessionManager_CreateFailsForUnknownDocument(t *testing.T) {
	host := memory.NewDocumentHost()
	manager := NewSessionManager(host, &recordingNotifier{})
	controllerEnd, _ := memory.NewChannelPair()

	_, err := manager.Create(context.Background(), "mem://missing.json", controllerEnd)

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestSession_ExternalEditPushesRefresh(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface) // initial snapshot

	r.host.SetText(testDoc, `{"a": 99}`)

	refresh := receiveMessage(t, r.surface)
	assert.Equal(t, domain.KindFullRefresh, refresh.Kind)
	assert.Equal(t, `{"a": 99}`, refresh.Content)
}

func TestSession_EchoConvergence(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface) // initial snapshot

	require.NoError(t, r.surface.Send(domain.FieldUpdate("a", 2)))

	// The write-back re-enters the external-edit path, which echoes a
	// refresh back to the requesting surface. That is the loop closing,
	// not a feedback runaway.
	refresh := receiveMessage(t, r.surface)
	require.Equal(t, domain.KindFullRefresh, refresh.Kind)

	fromRefresh, err := codec.Decode(refresh.Content)
	require.NoError(t, err)
	assert.Equal(t, json.Number("2"), fromRefresh["a"])

	text, err := r.host.Text(context.Background(), testDoc)
	require.NoError(t, err)
	fromDoc, err := codec.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, json.Number("2"), fromDoc["a"])

	// Exactly one write-back, exactly one echo: nothing further arrives.
	assertSilent(t, r.surface)
	assert.Empty(t, r.notifier.all())
}

func TestSession_NestedFieldUpdate(t *testing.T) {
	r := newRig(t, `{"spec": {"size": {"width": 1}}}`)
	receiveMessage(t, r.surface)

	require.NoError(t, r.surface.Send(domain.FieldUpdate("spec.size.width", 7)))
	refresh := receiveMessage(t, r.surface)

	value, err := codec.Decode(refresh.Content)
	require.NoError(t, err)
	got, ok := value.GetPath("spec.size.width")
	require.True(t, ok)
	assert.Equal(t, json.Number("7"), got)
}

func TestSession_WholeDocumentReplace(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface)

	replacement := map[string]any{"b": "fresh"}
	require.NoError(t, r.surface.Send(domain.Message{Kind: domain.KindFieldUpdate, Value: replacement}))

	refresh := receiveMessage(t, r.surface)
	value, err := codec.Decode(refresh.Content)
	require.NoError(t, err)
	assert.Equal(t, "fresh", value["b"])
	_, hasOld := value["a"]
	assert.False(t, hasOld, "replace must drop old keys")
}

func TestSession_WholeDocumentReplaceRequiresMapping(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface)

	require.NoError(t, r.surface.Send(domain.Message{Kind: domain.KindFieldUpdate, Value: "scalar"}))

	require.Eventually(t, func() bool {
		return len(r.notifier.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	text, err := r.host.Text(context.Background(), testDoc)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, text, "document must be untouched")
	assertSilent(t, r.surface)
}

func TestSession_MalformedDocumentAbandonsWriteBack(t *testing.T) {
	r := newRig(t, "{not json")
	receiveMessage(t, r.surface) // refresh is a text passthrough, it still flows

	require.NoError(t, r.surface.Send(domain.FieldUpdate("a", 2)))

	require.Eventually(t, func() bool {
		return len(r.notifier.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, r.notifier.all()[0], "malformed document")

	text, err := r.host.Text(context.Background(), testDoc)
	require.NoError(t, err)
	assert.Equal(t, "{not json", text, "document must not be overwritten with corrupt content")

	// No write-back means no change event and no further refresh.
	assertSilent(t, r.surface)
}

func TestSession_NullDocumentAbandonsWriteBack(t *testing.T) {
	// "null" is well-formed JSON but not a mapping; an update against
	// it must be abandoned like any other malformed document, never
	// crash the session goroutine.
	r := newRig(t, "null")
	receiveMessage(t, r.surface)

	require.NoError(t, r.surface.Send(domain.FieldUpdate("a", 2)))

	require.Eventually(t, func() bool {
		return len(r.notifier.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, r.notifier.all()[0], "malformed document")

	text, err := r.host.Text(context.Background(), testDoc)
	require.NoError(t, err)
	assert.Equal(t, "null", text, "document must be untouched")

	// The session survived the bad update.
	r.host.SetText(testDoc, `{"a": 1}`)
	refresh := receiveMessage(t, r.surface)
	assert.Equal(t, domain.KindFullRefresh, refresh.Kind)
}

func TestSession_EditRejectedIsSurfacedNotRetried(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface)

	r.host.RejectEdits(domain.ErrEditRejected)
	require.NoError(t, r.surface.Send(domain.FieldUpdate("a", 2)))

	require.Eventually(t, func() bool {
		return len(r.notifier.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, r.notifier.all()[0], "edit rejected")

	text, err := r.host.Text(context.Background(), testDoc)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, text)

	// A retry would show up as a second notice or a refresh.
	assertSilent(t, r.surface)
	assert.Len(t, r.notifier.all(), 1)
}

func TestSession_UnknownMessageKindIgnored(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface)

	require.NoError(t, r.surface.Send(domain.Message{Kind: "telemetry", Value: 42}))
	assertSilent(t, r.surface)
	assert.Empty(t, r.notifier.all())

	// The session is still healthy afterwards.
	require.NoError(t, r.surface.Send(domain.FieldUpdate("a", 5)))
	refresh := receiveMessage(t, r.surface)
	assert.Equal(t, domain.KindFullRefresh, refresh.Kind)
}

func TestSession_DisposalIdempotent(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface)

	r.session.Dispose()
	r.session.Dispose()

	select {
	case <-r.session.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after disposal")
	}

	// Document changes after disposal must not reach the surface.
	r.host.SetText(testDoc, `{"a": 2}`)
	_, open := <-r.surface.Receive()
	assert.False(t, open, "surface channel must be closed after disposal")

	assert.Empty(t, r.manager.Sessions())
}

func TestSession_SurfaceClosingChannelDisposesSession(t *testing.T) {
	r := newRig(t, `{"a": 1}`)
	receiveMessage(t, r.surface)

	require.NoError(t, r.surface.Close())

	select {
	case <-r.session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session not disposed after the surface went away")
	}
	assert.Empty(t, r.manager.Sessions())
}

func TestSessionManager_MultiSessionIsolation(t *testing.T) {
	docA := domain.DocumentID("mem://a.json")
	docB := domain.DocumentID("mem://b.json")

	host := memory.NewDocumentHost()
	host.SetText(docA, `{"doc": "a"}`)
	host.SetText(docB, `{"doc": "b"}`)
	manager := NewSessionManager(host, &recordingNotifier{})
	defer manager.Close()

	ctrlA, surfaceA := memory.NewChannelPair()
	ctrlB, surfaceB := memory.NewChannelPair()

	_, err := manager.Create(context.Background(), docA, ctrlA)
	require.NoError(t, err)
	_, err = manager.Create(context.Background(), docB, ctrlB)
	require.NoError(t, err)

	assert.Equal(t, `{"doc": "a"}`, receiveMessage(t, surfaceA).Content)
	assert.Equal(t, `{"doc": "b"}`, receiveMessage(t, surfaceB).Content)

	host.SetText(docA, `{"doc": "a2"}`)

	assert.Equal(t, `{"doc": "a2"}`, receiveMessage(t, surfaceA).Content)
	assertSilent(t, surfaceB)
}

func TestSessionManager_CloseRacesCreate(t *testing.T) {
	// Close may run while sessions are still being created; every
	// session that Create returned must end up disposed.
	host := memory.NewDocumentHost()
	host.SetText(testDoc, "{}")
	manager := NewSessionManager(host, &recordingNotifier{})

	var wg sync.WaitGroup
	sessions := make(chan driving.Session, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl, _ := memory.NewChannelPair()
			if s, err := manager.Create(context.Background(), testDoc, ctrl); err == nil {
				sessions <- s
			}
		}()
	}

	manager.Close()
	wg.Wait()
	manager.Close()
	close(sessions)

	for s := range sessions {
		s.Dispose()
		select {
		case <-s.Done():
		case <-time.After(time.Second):
			t.Fatal("session left undisposed")
		}
	}
	assert.Empty(t, manager.Sessions())
}

func TestSessionManager_CloseDisposesEverything(t *testing.T) {
	host := memory.NewDocumentHost()
	host.SetText(testDoc, "{}")
	manager := NewSessionManager(host, &recordingNotifier{})

	var sessions []driving.Session
	for i := 0; i < 3; i++ {
		ctrl, surface := memory.NewChannelPair()
		s, err := manager.Create(context.Background(), testDoc, ctrl)
		require.NoError(t, err)
		receiveMessage(t, surface)
		sessions = append(sessions, s)
	}
	assert.Len(t, manager.Sessions(), 3)

	manager.Close()

	for _, s := range sessions {
		select {
		case <-s.Done():
		case <-time.After(time.Second):
			t.Fatal("session not disposed by manager Close")
		}
	}
	assert.Empty(t, manager.Sessions())
}
