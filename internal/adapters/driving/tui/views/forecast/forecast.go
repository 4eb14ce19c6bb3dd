// Package forecast provides the forecast tab: horizon input, merged
// actual/predicted chart and a month-by-month table.
package forecast

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/chart"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/services"
)

// MaxPeriods bounds the horizon accepted by the form.
const MaxPeriods = domain.MaxForecastPeriods

const fieldPeriods = domain.FieldPeriods

// View is the forecast tab.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	periods *input.Field
	table   table.Model

	rows    []domain.ForecastRow
	hasData bool
	width   int
	height  int
}

// NewView creates a new forecast view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	periods := input.NewField(s, fieldPeriods, "개월", 2)
	periods.SetValue(strconv.Itoa(domain.DefaultForecastPeriods))
	periods.Focus()

	return &View{
		styles:  s,
		keymap:  km,
		periods: periods,
		table: table.New(
			table.WithColumns([]table.Column{
				{Title: "년월", Width: 8},
				{Title: "실거래 평균", Width: 16},
				{Title: "예측", Width: 16},
			}),
			table.WithHeight(8),
		),
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the forecast view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ResultsChanged:
		v.hasData = len(msg.Trades) > 0
		v.SetResult(nil)
		return v, nil

	case messages.ForecastCompleted:
		if msg.Err == nil {
			v.SetResult(msg.Result)
		}
		return v, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), v.keymap.Submit) {
			return v, v.submit()
		}
		if keymap.Matches(msg.String(), v.keymap.Up) || keymap.Matches(msg.String(), v.keymap.Down) {
			var cmd tea.Cmd
			v.table, cmd = v.table.Update(msg)
			return v, cmd
		}
		var cmd tea.Cmd
		v.periods, cmd = v.periods.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) submit() tea.Cmd {
	periods, err := v.Periods()
	if err != nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: err}
		}
	}
	return func() tea.Msg {
		return messages.ForecastRequested{Periods: periods}
	}
}

// Periods parses the horizon field. Blank means the default.
func (v *View) Periods() (int, error) {
	text := strings.TrimSpace(v.periods.Value())
	if text == "" {
		return domain.DefaultForecastPeriods, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, domain.ValidatePeriods(0)
	}
	if err := domain.ValidatePeriods(n); err != nil {
		return 0, err
	}
	return n, nil
}

// SetResult replaces the displayed forecast. nil clears it.
func (v *View) SetResult(result *domain.ForecastResult) {
	v.rows = services.MergeForecast(result)

	tableRows := make([]table.Row, len(v.rows))
	for i, r := range v.rows {
		tableRows[i] = table.Row{r.Month, formatValue(r.Actual), formatValue(r.Predicted)}
	}
	v.table.SetRows(tableRows)
	v.table.GotoTop()
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return domain.FormatManwon(*v)
}

// Rows returns the merged forecast rows on display.
func (v *View) Rows() []domain.ForecastRow {
	return v.rows
}

// View renders the forecast view.
func (v *View) View() string {
	sections := []string{v.periods.View(), ""}

	switch {
	case len(v.rows) > 0:
		if c := chart.ForecastChart(v.rows, v.width, v.chartHeight()); c != "" {
			sections = append(sections, c, "")
		}
		sections = append(sections, v.table.View())
	case v.hasData:
		sections = append(sections, v.styles.Muted.Render("enter를 눌러 조회된 거래로 가격을 예측합니다."))
	default:
		sections = append(sections, v.styles.Muted.Render("먼저 조회 탭에서 거래를 조회하세요."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) chartHeight() int {
	h := v.height - v.table.Height() - 6
	if h > 12 {
		h = 12
	}
	return h
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.periods.SetWidth(30)

	tableHeight := height / 3
	if tableHeight < 3 {
		tableHeight = 3
	}
	v.table.SetHeight(tableHeight)
}
