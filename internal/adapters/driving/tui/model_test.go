package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/facet/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/facet/internal/core/domain"
)

const panelDoc = domain.DocumentID("mem://panel.json")

func refreshed(t *testing.T, m Model, content string) Model {
	t.Helper()
	next, cmd := m.Update(surfaceMsg(domain.FullRefresh(content)))
	require.NotNil(t, cmd, "model must re-arm the channel listener")
	return next.(Model)
}

func TestModel_FullRefreshReplacesRenderedState(t *testing.T) {
	_, surfaceEnd := memory.NewChannelPair()
	m := NewModel(panelDoc, surfaceEnd)

	m = refreshed(t, m, `{"name": "widget", "count": 3}`)
	view := m.View()
	assert.Contains(t, view, "name")
	assert.Contains(t, view, "widget")
	assert.Contains(t, view, "count")

	// A second refresh fully replaces the first, it does not merge.
	m = refreshed(t, m, `{"other": true}`)
	view = m.View()
	assert.Contains(t, view, "other")
	assert.NotContains(t, view, "widget")
}

func TestModel_MalformedRefreshShowsRawText(t *testing.T) {
	_, surfaceEnd := memory.NewChannelPair()
	m := NewModel(panelDoc, surfaceEnd)

	m = refreshed(t, m, "{not json")

	view := m.View()
	assert.Contains(t, view, "malformed document")
	assert.Contains(t, view, "{not json")
}

func TestModel_UnknownKindIgnored(t *testing.T) {
	_, surfaceEnd := memory.NewChannelPair()
	m := NewModel(panelDoc, surfaceEnd)
	m = refreshed(t, m, `{"a": 1}`)

	next, cmd := m.Update(surfaceMsg(domain.Message{Kind: "telemetry"}))

	require.NotNil(t, cmd)
	assert.Equal(t, m.View(), next.(Model).View())
}

func TestModel_EnterSendsFieldUpdate(t *testing.T) {
	controllerEnd, surfaceEnd := memory.NewChannelPair()
	m := NewModel(panelDoc, surfaceEnd)
	m = refreshed(t, m, `{"a": 1}`)

	m.input.SetValue("a = 2")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	select {
	case msg := <-controllerEnd.Receive():
		assert.Equal(t, domain.KindFieldUpdate, msg.Kind)
		assert.Equal(t, "a", msg.Path)
		assert.EqualValues(t, 2, msg.Value)
	case <-time.After(time.Second):
		t.Fatal("no field-update sent")
	}

	// The rendered state must not change until the echo refresh lands.
	assert.Contains(t, m.View(), "1")
	assert.Contains(t, m.View(), "update sent: a")
}

func TestModel_StringValuesPassThrough(t *testing.T) {
	controllerEnd, surfaceEnd := memory.NewChannelPair()
	m := NewModel(panelDoc, surfaceEnd)

	m.input.SetValue(`title = hello world`)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := <-controllerEnd.Receive()
	assert.Equal(t, "hello world", msg.Value)
}

func TestModel_RejectsInputWithoutAssignment(t *testing.T) {
	_, surfaceEnd := memory.NewChannelPair()
	m := NewModel(panelDoc, surfaceEnd)

	m.input.SetValue("no equals sign")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, next.(Model).View(), "expected path = value")
}

func TestModel_ChannelCloseQuits(t *testing.T) {
	controllerEnd, surfaceEnd := memory.NewChannelPair()
	m := NewModel(panelDoc, surfaceEnd)
	require.NoError(t, controllerEnd.Close())

	// The listener observes the closed stream and reports it.
	msg := listen(surfaceEnd)()
	assert.IsType(t, channelClosedMsg{}, msg)

	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestParseAssignment(t *testing.T) {
	t.Run("json number", func(t *testing.T) {
		path, value, err := parseAssignment("count = 3")
		require.NoError(t, err)
		assert.Equal(t, "count", path)
		assert.EqualValues(t, 3, value)
	})

	t.Run("boolean", func(t *testing.T) {
		_, value, err := parseAssignment("enabled = true")
		require.NoError(t, err)
		assert.Equal(t, true, value)
	})

	t.Run("nested path", func(t *testing.T) {
		path, _, err := parseAssignment("spec.size.width = 7")
		require.NoError(t, err)
		assert.Equal(t, "spec.size.width", path)
	})

	t.Run("quoted string stays a string", func(t *testing.T) {
		_, value, err := parseAssignment(`name = "3"`)
		require.NoError(t, err)
		assert.Equal(t, "3", value)
	})

	t.Run("missing path fails", func(t *testing.T) {
		_, _, err := parseAssignment("= 3")
		assert.Error(t, err)
	})
}
