// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
)

// Field wraps a bubbles textinput with a fixed-width label.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewField creates a labelled input. charLimit <= 0 means no limit.
func NewField(s *styles.Styles, label, placeholder string, charLimit int) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Width = 30
	// The shell does not route blink ticks to inactive tabs.
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     44,
	}
}

// Init initialises the field.
func (f *Field) Init() tea.Cmd {
	return nil
}

// Update forwards messages to the input while focused.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	if !f.textinput.Focused() {
		return f, nil
	}
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and input on one line.
func (f *Field) View() string {
	label := f.styles.Label.Render(f.label)
	box := f.styles.Normal.Render(f.textinput.View())
	if f.textinput.Focused() {
		label = f.styles.Label.Bold(true).Foreground(f.styles.Theme().Primary).Render(f.label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, box)
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the field including its label.
func (f *Field) SetWidth(width int) {
	f.width = width
	inputWidth := width - 14
	if inputWidth < 10 {
		inputWidth = 10
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the input.
func (f *Field) Reset() {
	f.textinput.Reset()
}
