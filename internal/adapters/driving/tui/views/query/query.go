// Package query provides the search form, results table and price chart.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/chart"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/services"
)

// maxColumnWidth caps a results column; longer cells are truncated.
const maxColumnWidth = 24

// formHeight is the number of lines the form occupies when blurred.
const formHeight = 9

var now = time.Now

// focusSlot identifies the focused control.
type focusSlot int

const (
	focusCity focusSlot = iota
	focusDistrict
	focusStart
	focusEnd
	focusApartment
	focusMinArea
	focusMaxArea
	focusResults
	focusCount
)

// View is the query tab.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	city      *list.Picker
	district  *list.Picker
	start     *input.Field
	end       *input.Field
	apartment *input.Field
	minArea   *input.Field
	maxArea   *input.Field

	table    table.Model
	columns  []domain.Column
	averages []domain.MonthlyAverage
	rowCount int
	codes    domain.CodeMap

	focus  focusSlot
	width  int
	height int
}

// NewView creates a new query view with the period fields prefilled.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		city:      list.NewPicker(s, domain.FieldCity, "지역 코드를 불러오는 중…"),
		district:  list.NewPicker(s, domain.FieldDistrict, "시/도를 먼저 선택하세요"),
		start:     input.NewField(s, domain.FieldStartPeriod, "YYYYMM", 6),
		end:       input.NewField(s, domain.FieldEndPeriod, "YYYYMM", 6),
		apartment: input.NewField(s, "아파트명", "선택", 64),
		minArea:   input.NewField(s, "최소면적", "m², 선택", 8),
		maxArea:   input.NewField(s, "최대면적", "m², 선택", 8),
		table: table.New(
			table.WithFocused(false),
			table.WithHeight(8),
		),
		width:  80,
		height: 24,
	}

	from, to := domain.DefaultPeriods(now())
	v.start.SetValue(from)
	v.end.SetValue(to)
	v.city.Focus()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the query view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.CodeMapLoaded:
		if msg.Err != nil {
			return v, nil
		}
		v.codes = msg.Codes
		v.city.SetOptions(msg.Codes.Cities())
		return v, v.cityChanged()

	case messages.DistrictsLoaded:
		if msg.Err == nil && msg.City == v.city.Value() {
			v.district.SetOptions(msg.Districts)
		}
		return v, nil

	case messages.ResultsChanged:
		v.SetResults(msg.Trades, msg.Policy)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.NextField):
		return v, v.setFocus((v.focus + 1) % focusCount)
	case keymap.Matches(keyStr, v.keymap.PrevField):
		return v, v.setFocus((v.focus + focusCount - 1) % focusCount)
	case keymap.Matches(keyStr, v.keymap.Submit) && v.focus != focusResults:
		return v, v.submit()
	}

	var cmd tea.Cmd
	switch v.focus {
	case focusCity:
		var changed bool
		if v.city, changed = v.city.Update(msg); changed {
			cmd = v.cityChanged()
		}
	case focusDistrict:
		v.district, _ = v.district.Update(msg)
	case focusResults:
		v.table, cmd = v.table.Update(msg)
	case focusStart, focusEnd, focusApartment, focusMinArea, focusMaxArea:
		_, cmd = v.fieldFor(v.focus).Update(msg)
	case focusCount:
	}
	return v, cmd
}

// cityChanged shows the cached districts of the selected city and asks
// the shell for a fresh list.
func (v *View) cityChanged() tea.Cmd {
	city := v.city.Value()
	if city == "" {
		return nil
	}
	v.district.SetOptions(v.codes.Districts(city))
	return func() tea.Msg {
		return messages.CityChanged{City: city}
	}
}

func (v *View) submit() tea.Cmd {
	criteria, err := v.Criteria()
	if err != nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: err}
		}
	}
	return func() tea.Msg {
		return messages.SearchRequested{Criteria: criteria}
	}
}

// Criteria reads the form. Only the area fields can fail here; every
// other check belongs to the search pipeline.
func (v *View) Criteria() (domain.QueryCriteria, error) {
	minArea, err := parseArea(v.minArea.Value())
	if err != nil {
		return domain.QueryCriteria{}, err
	}
	maxArea, err := parseArea(v.maxArea.Value())
	if err != nil {
		return domain.QueryCriteria{}, err
	}

	return domain.QueryCriteria{
		City:          v.city.Value(),
		District:      v.district.Value(),
		StartPeriod:   v.start.Value(),
		EndPeriod:     v.end.Value(),
		ApartmentName: v.apartment.Value(),
		Area:          domain.AreaRange{Min: minArea, Max: maxArea},
	}, nil
}

func parseArea(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []string{domain.FieldArea}, Reason: "면적은 숫자로 입력해 주세요"}
	}
	return &f, nil
}

// SetResults rebuilds the table and chart from rows.
func (v *View) SetResults(rows []domain.TransactionRecord, policy domain.ColumnPolicy) {
	v.columns = services.DisplayColumns(rows, policy)
	v.averages = services.MonthlyAverages(rows)
	v.rowCount = len(rows)

	projected := services.ProjectRows(rows, v.columns)
	tableRows := make([]table.Row, len(projected))
	for i, r := range projected {
		tableRows[i] = r
	}

	// Rows must go first: the table re-renders on SetColumns and would
	// index old rows against the new columns.
	v.table.SetRows(nil)
	v.table.SetColumns(tableColumns(v.columns, projected))
	v.table.SetRows(tableRows)
	v.table.GotoTop()
}

func tableColumns(columns []domain.Column, rows [][]string) []table.Column {
	out := make([]table.Column, len(columns))
	for i, c := range columns {
		width := lipgloss.Width(c.Label)
		for _, r := range rows {
			if w := lipgloss.Width(r[i]); w > width {
				width = w
			}
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		out[i] = table.Column{Title: c.Label, Width: width}
	}
	return out
}

func (v *View) fieldFor(slot focusSlot) *input.Field {
	switch slot {
	case focusStart:
		return v.start
	case focusEnd:
		return v.end
	case focusApartment:
		return v.apartment
	case focusMinArea:
		return v.minArea
	case focusMaxArea:
		return v.maxArea
	case focusCity, focusDistrict, focusResults, focusCount:
	}
	return nil
}

func (v *View) setFocus(slot focusSlot) tea.Cmd {
	v.city.Blur()
	v.district.Blur()
	for _, f := range v.fields() {
		f.Blur()
	}
	v.table.Blur()

	v.focus = slot
	switch slot {
	case focusCity:
		v.city.Focus()
	case focusDistrict:
		v.district.Focus()
	case focusResults:
		v.table.Focus()
	case focusStart, focusEnd, focusApartment, focusMinArea, focusMaxArea:
		return v.fieldFor(slot).Focus()
	case focusCount:
	}
	return nil
}

func (v *View) fields() []*input.Field {
	return []*input.Field{v.start, v.end, v.apartment, v.minArea, v.maxArea}
}

// Focus returns the focused control index.
func (v *View) Focus() int {
	return int(v.focus)
}

// RowCount returns the number of rows in the table.
func (v *View) RowCount() int {
	return v.rowCount
}

// Columns returns the current table columns.
func (v *View) Columns() []domain.Column {
	return v.columns
}

// View renders the query view.
func (v *View) View() string {
	form := lipgloss.JoinVertical(lipgloss.Left,
		v.city.View(),
		v.district.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, v.start.View(), "  ", v.end.View()),
		v.apartment.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, v.minArea.View(), "  ", v.maxArea.View()),
	)

	sections := []string{form, ""}

	if v.rowCount == 0 {
		sections = append(sections, v.styles.Muted.Render("조회 결과가 없습니다. 조건을 입력하고 enter를 누르세요."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections,
		v.styles.Subtitle.Render(fmt.Sprintf("거래 %d건", v.rowCount)),
		v.table.View(),
	)
	if c := chart.PriceChart(v.averages, v.width, v.chartHeight()); c != "" {
		sections = append(sections, "", c)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) chartHeight() int {
	h := v.height - formHeight - v.table.Height() - 6
	if h > 10 {
		h = 10
	}
	return h
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	half := width/2 - 2
	for _, f := range []*input.Field{v.start, v.end, v.minArea, v.maxArea} {
		f.SetWidth(half)
	}
	v.apartment.SetWidth(width)

	tableHeight := (height - formHeight) / 2
	if tableHeight < 3 {
		tableHeight = 3
	}
	v.table.SetHeight(tableHeight)
	v.table.SetWidth(width)
}
