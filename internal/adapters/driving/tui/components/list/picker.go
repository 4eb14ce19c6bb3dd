// Package list provides list selection components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
)

// Picker selects one option from a list with the arrow keys.
type Picker struct {
	styles   *styles.Styles
	label    string
	empty    string
	options  []string
	selected int
	focused  bool
	visible  int
}

// NewPicker creates a picker. empty is shown when there are no options.
func NewPicker(s *styles.Styles, label, empty string) *Picker {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Picker{
		styles:  s,
		label:   label,
		empty:   empty,
		visible: 5,
	}
}

// Init initialises the picker.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update moves the selection while focused. changed reports whether
// the selected value differs afterwards.
func (p *Picker) Update(msg tea.Msg) (picker *Picker, changed bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return p, false
	}

	before := p.selected
	//nolint:exhaustive // handling only relevant key types
	switch keyMsg.Type {
	case tea.KeyUp:
		p.MoveUp()
	case tea.KeyDown:
		p.MoveDown()
	case tea.KeyHome:
		p.selected = 0
	case tea.KeyEnd:
		if len(p.options) > 0 {
			p.selected = len(p.options) - 1
		}
	default:
	}
	return p, p.selected != before
}

// View renders the label with the current choice, followed by a window
// of neighbouring options while focused.
func (p *Picker) View() string {
	label := p.styles.Label.Render(p.label)
	if p.focused {
		label = p.styles.Label.Bold(true).Foreground(p.styles.Theme().Primary).Render(p.label)
	}

	if len(p.options) == 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, p.styles.Muted.Render(p.empty))
	}

	current := p.styles.Normal.Render("◀ " + p.options[p.selected] + " ▶")
	if !p.focused {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, current)
	}

	start, end := p.window()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == p.selected {
			lines = append(lines, p.styles.Selected.Render("> "+p.options[i]))
			continue
		}
		lines = append(lines, p.styles.Muted.Render("  "+p.options[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, strings.Join(lines, "\n"))
}

// window returns the visible option range around the selection.
func (p *Picker) window() (start, end int) {
	n := len(p.options)
	if n <= p.visible {
		return 0, n
	}
	start = p.selected - p.visible/2
	if start < 0 {
		start = 0
	}
	if start+p.visible > n {
		start = n - p.visible
	}
	return start, start + p.visible
}

// SetOptions replaces the options and selects the first one.
func (p *Picker) SetOptions(options []string) {
	p.options = append([]string(nil), options...)
	p.selected = 0
}

// Options returns the current options.
func (p *Picker) Options() []string {
	return p.options
}

// Select selects value if present and reports whether it was found.
func (p *Picker) Select(value string) bool {
	for i, o := range p.options {
		if o == value {
			p.selected = i
			return true
		}
	}
	return false
}

// Value returns the selected option, or "" when there are none.
func (p *Picker) Value() string {
	if len(p.options) == 0 {
		return ""
	}
	return p.options[p.selected]
}

// MoveUp selects the previous option.
func (p *Picker) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown selects the next option.
func (p *Picker) MoveDown() {
	if p.selected < len(p.options)-1 {
		p.selected++
	}
}

// Focus gives the picker keyboard focus.
func (p *Picker) Focus() {
	p.focused = true
}

// Blur removes keyboard focus.
func (p *Picker) Blur() {
	p.focused = false
}

// Focused returns whether the picker has focus.
func (p *Picker) Focused() bool {
	return p.focused
}

// Label returns the picker label.
func (p *Picker) Label() string {
	return p.label
}
