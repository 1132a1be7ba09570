package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/facet/internal/codec"
	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/ports/driven"
)

// surfaceMsg wraps an inbound channel message for the Bubbletea loop.
type surfaceMsg domain.Message

// channelClosedMsg signals that the controller side disposed the pipe.
type channelClosedMsg struct{}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// Model is the surface state. The rendered tree is rebuilt from every
// full-refresh; nothing here is authoritative.
type Model struct {
	docID  domain.DocumentID
	ch     driven.Channel
	styles *Styles

	content   string
	value     domain.Value
	parseNote string

	input  textinput.Model
	status string
	width  int
}

// NewModel creates a surface model over a transport channel.
func NewModel(docID domain.DocumentID, ch driven.Channel) Model {
	input := textinput.New()
	input.Placeholder = "path = value"
	input.Prompt = "> "
	input.Focus()

	return Model{
		docID:  docID,
		ch:     ch,
		styles: DefaultStyles(),
		input:  input,
	}
}

// listen waits for the next message from the controller.
func listen(ch driven.Channel) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch.Receive()
		if !ok {
			return channelClosedMsg{}
		}
		return surfaceMsg(msg)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listen(m.ch))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case surfaceMsg:
		return m.handleSurfaceMessage(domain.Message(msg))

	case channelClosedMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			_ = m.ch.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submitEdit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSurfaceMessage applies one controller message. A full-refresh
// discards and replaces the whole rendered state; unknown kinds are
// ignored.
func (m Model) handleSurfaceMessage(msg domain.Message) (tea.Model, tea.Cmd) {
	if msg.Kind != domain.KindFullRefresh {
		return m, listen(m.ch)
	}

	m.content = msg.Content
	m.parseNote = ""
	value, err := codec.Decode(msg.Content)
	if err != nil {
		m.value = nil
		m.parseNote = err.Error()
	} else {
		m.value = value
	}
	return m, listen(m.ch)
}

// submitEdit parses the input line and sends a field-update. The
// local state is not touched; the controller's echo refresh is the
// only way an edit becomes visible.
func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	path, value, err := parseAssignment(m.input.Value())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	if err := m.ch.Send(domain.FieldUpdate(path, value)); err != nil {
		m.status = fmt.Sprintf("send failed: %v", err)
		return m, nil
	}

	m.status = fmt.Sprintf("update sent: %s", path)
	m.input.SetValue("")
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("facet: "+m.docID.String()) + "\n\n")

	switch {
	case m.parseNote != "":
		b.WriteString(m.styles.Error.Render(m.parseNote) + "\n")
		b.WriteString(m.content + "\n")
	case len(m.value) == 0:
		b.WriteString(m.styles.Status.Render("(empty document)") + "\n")
	default:
		keys := make([]string, 0, len(m.value))
		for k := range m.value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("%s: %v\n", m.styles.Key.Render(k), renderValue(m.value[k])))
		}
	}

	b.WriteString("\n" + m.input.View() + "\n")
	if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status) + "\n")
	}
	b.WriteString(m.styles.Help.Render("enter: send update • esc: quit"))
	return b.String()
}

// renderValue flattens nested values for single-line display.
func renderValue(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// parseAssignment splits "path = value" input. The value part is
// parsed as JSON when possible so numbers, booleans and nested
// literals survive; anything else is sent as a string.
func parseAssignment(line string) (string, any, error) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("expected path = value")
	}

	path := strings.TrimSpace(parts[0])
	if path == "" {
		return "", nil, fmt.Errorf("expected path = value")
	}

	raw := strings.TrimSpace(parts[1])
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	return path, value, nil
}
