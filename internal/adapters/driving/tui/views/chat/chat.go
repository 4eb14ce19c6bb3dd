// Package chat provides the AI question tab.
package chat

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/aptview/internal/core/domain"
)

// View is the chat tab.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	question *input.Field
	answer   viewport.Model

	asked   string
	text    string
	hasData bool
	width   int
	height  int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	q := input.NewField(s, domain.FieldQuestion, "예: 가장 비싸게 거래된 아파트는?", 500)
	q.Focus()

	return &View{
		styles:   s,
		keymap:   km,
		question: q,
		answer:   viewport.New(80, 10),
		width:    80,
		height:   24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ResultsChanged:
		v.hasData = len(msg.Trades) > 0
		v.SetAnswer("", "")
		return v, nil

	case messages.ChatAnswered:
		if msg.Err == nil {
			v.SetAnswer(msg.Question, msg.Answer)
			v.question.Reset()
		}
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		if keymap.Matches(keyStr, v.keymap.Submit) {
			question := v.question.Value()
			return v, func() tea.Msg {
				return messages.ChatRequested{Question: question}
			}
		}
		if keymap.Matches(keyStr, v.keymap.Up) || keymap.Matches(keyStr, v.keymap.Down) {
			var cmd tea.Cmd
			v.answer, cmd = v.answer.Update(msg)
			return v, cmd
		}
		var cmd tea.Cmd
		v.question, cmd = v.question.Update(msg)
		return v, cmd
	}
	return v, nil
}

// SetAnswer replaces the displayed exchange.
func (v *View) SetAnswer(question, answer string) {
	v.asked = question
	v.text = answer
	v.refresh()
}

func (v *View) refresh() {
	wrapped := lipgloss.NewStyle().Width(v.answer.Width).Render(v.text)
	v.answer.SetContent(wrapped)
	v.answer.GotoTop()
}

// Answer returns the displayed answer.
func (v *View) Answer() string {
	return v.text
}

// View renders the chat view.
func (v *View) View() string {
	sections := []string{v.question.View(), ""}

	switch {
	case v.text != "":
		sections = append(sections,
			v.styles.Subtitle.Render("Q. "+v.asked),
			v.styles.Border.Render(v.answer.View()),
		)
	case v.hasData:
		sections = append(sections, v.styles.Muted.Render("조회된 거래에 대해 질문하고 enter를 누르세요."))
	default:
		sections = append(sections, v.styles.Muted.Render("먼저 조회 탭에서 거래를 조회하세요."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.question.SetWidth(width)

	v.answer.Width = width - 2
	v.answer.Height = height - 6
	if v.answer.Height < 3 {
		v.answer.Height = 3
	}
	v.refresh()
}
