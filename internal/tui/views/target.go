package views

import (
	"strings"

	"github.com/buemura/recon/internal/tui/styles"
	"github.com/buemura/recon/pkg/types"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TargetModel is the view model for target input.
type TargetModel struct {
	textInput textinput.Model
	err       string
}

// NewTargetModel creates a new target input view.
func NewTargetModel() TargetModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. example.com, 192.168.1.1:8080 or https://example.com"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50
	ti.PromptStyle = styles.CursorStyle
	ti.TextStyle = styles.SelectedStyle

	return TargetModel{textInput: ti}
}

// Init returns the text input blink command.
func (m TargetModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events. Enter only validates; the root model decides
// whether to start a scan.
func (m TargetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if _, err := m.ValidatedTarget(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.err = ""
	return m, cmd
}

// View renders the target input form.
func (m TargetModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("recon: interactive mode"))
	b.WriteString("\n\n")
	b.WriteString(styles.HeaderStyle.Render("Enter a hostname, host:port or URL:"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(m.err))
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter scan • ctrl+c quit"))

	return b.String()
}

// Value returns the raw input with surrounding whitespace removed.
func (m TargetModel) Value() string {
	return strings.TrimSpace(m.textInput.Value())
}

// SetValue replaces the input text.
func (m *TargetModel) SetValue(v string) {
	m.textInput.SetValue(v)
}

// ValidatedTarget parses the input so obviously bad targets are rejected
// before a scan starts.
func (m TargetModel) ValidatedTarget() (types.Target, error) {
	return types.ParseTarget(m.Value())
}
