package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/views/forecast"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/views/mapview"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/views/query"
	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/logger"
)

// chromeHeight is the lines used by the tab bar, banner and status bar.
const chromeHeight = 4

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is passed to every service call.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	queryView    *query.View
	mapView      *mapview.View
	forecastView *forecast.View
	chatView     *chat.View

	// activeTab is the tab receiving key input.
	activeTab messages.TabType

	// inFlight tracks running actions; a busy action ignores new requests.
	inFlight map[messages.Action]bool

	// Loaded entities. A new search replaces all of them.
	trades   []domain.TransactionRecord
	geocoded []domain.GeocodedTransaction
	forecast *domain.ForecastResult
	answer   string

	// err is the banner error, replaced on each error and cleared when
	// an action starts.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		statusbar:    status.NewBar(s, km),
		queryView:    query.NewView(s, km),
		mapView:      mapview.NewView(s, ports.Map),
		forecastView: forecast.NewView(s, km),
		chatView:     chat.NewView(s, km),
		activeTab:    messages.TabQuery,
		inFlight:     make(map[messages.Action]bool),
		width:        80,
		height:       24,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model. It mounts the map region and loads the
// code map.
func (a *App) Init() tea.Cmd {
	a.ports.Map.Mount(a.mapView)
	a.statusbar.SetHints(a.keymap.FormHelp())

	return tea.Batch(
		tea.SetWindowTitle("aptview - 아파트 실거래가"),
		a.start(messages.ActionCodes, a.loadCodeMap()),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		a.statusbar, cmd = a.statusbar.Update(msg)
		return a, cmd

	case messages.CodeMapLoaded:
		a.finish(messages.ActionCodes, msg.Err)
		a.queryView, cmd = a.queryView.Update(msg)
		return a, cmd

	case messages.CityChanged:
		return a, a.start(messages.ActionDistricts, a.loadDistricts(msg.City))

	case messages.DistrictsLoaded:
		a.finish(messages.ActionDistricts, msg.Err)
		a.queryView, cmd = a.queryView.Update(msg)
		return a, cmd

	case messages.SearchRequested:
		if a.inFlight[messages.ActionSearch] {
			return a, nil
		}
		// Invalid input never reaches the pipeline and keeps the old results.
		if err := msg.Criteria.Normalized().Validate(a.ports.Reference.CodeMap()); err != nil {
			a.setError(err)
			return a, nil
		}
		a.setResults(nil, nil)
		return a, a.start(messages.ActionSearch, a.search(msg.Criteria))

	case messages.SearchCompleted:
		a.finish(messages.ActionSearch, msg.Err)
		if msg.Outcome != nil {
			a.setResults(msg.Outcome.Trades, msg.Outcome.Geocoded)
			a.statusbar.SetResultCount(len(a.trades))
		}
		return a, nil

	case messages.ForecastRequested:
		if a.inFlight[messages.ActionForecast] {
			return a, nil
		}
		return a, a.start(messages.ActionForecast, a.runForecast(msg.Periods))

	case messages.ForecastCompleted:
		a.finish(messages.ActionForecast, msg.Err)
		if msg.Err == nil {
			a.forecast = msg.Result
		}
		a.forecastView, cmd = a.forecastView.Update(msg)
		return a, cmd

	case messages.ChatRequested:
		if a.inFlight[messages.ActionChat] {
			return a, nil
		}
		return a, a.start(messages.ActionChat, a.ask(msg.Question))

	case messages.ChatAnswered:
		a.finish(messages.ActionChat, msg.Err)
		if msg.Err == nil {
			a.answer = msg.Answer
		}
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ConfigReloaded:
		logger.Info("configuration reloaded")
		if a.ports.FlushCache != nil {
			a.ports.FlushCache()
		}
		a.queryView.SetResults(a.trades, a.ports.columnPolicy())
		a.syncMap()
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil
	}

	return a, nil
}

// handleKeyMsg routes global keys and forwards the rest to the active tab.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		a.Shutdown()
		return a, tea.Quit
	case keymap.Matches(keyStr, a.keymap.NextTab):
		a.setTab((a.activeTab + 1) % messages.TabType(len(messages.Tabs)))
		return a, nil
	case keymap.Matches(keyStr, a.keymap.PrevTab):
		n := messages.TabType(len(messages.Tabs))
		a.setTab((a.activeTab + n - 1) % n)
		return a, nil
	case keymap.Matches(keyStr, a.keymap.TabQuery):
		a.setTab(messages.TabQuery)
		return a, nil
	case keymap.Matches(keyStr, a.keymap.TabMap):
		a.setTab(messages.TabMap)
		return a, nil
	case keymap.Matches(keyStr, a.keymap.TabForecast):
		a.setTab(messages.TabForecast)
		return a, nil
	case keymap.Matches(keyStr, a.keymap.TabChat):
		a.setTab(messages.TabChat)
		return a, nil
	}

	var cmd tea.Cmd
	switch a.activeTab {
	case messages.TabQuery:
		a.queryView, cmd = a.queryView.Update(msg)
	case messages.TabMap:
		a.mapView, cmd = a.mapView.Update(msg)
	case messages.TabForecast:
		a.forecastView, cmd = a.forecastView.Update(msg)
	case messages.TabChat:
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

func (a *App) setTab(tab messages.TabType) {
	a.activeTab = tab
	if tab == messages.TabQuery {
		a.statusbar.SetHints(a.keymap.FormHelp())
		return
	}
	a.statusbar.SetHints(nil)
}

// start marks action in flight, clears the banner and starts the spinner.
func (a *App) start(action messages.Action, cmd tea.Cmd) tea.Cmd {
	a.inFlight[action] = true
	a.err = nil
	return tea.Batch(a.statusbar.StartBusy(action.Label()), cmd)
}

// finish clears action and shows err, if any, in the banner.
func (a *App) finish(action messages.Action, err error) {
	delete(a.inFlight, action)

	if err != nil {
		a.setError(err)
	}
	if len(a.inFlight) > 0 {
		return
	}
	if a.err != nil {
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(domain.UserMessage(a.err))
		return
	}
	a.statusbar.SetState(status.StateResults)
	a.statusbar.SetMessage("")
}

func (a *App) setError(err error) {
	a.err = err
	logger.Warn("%v", err)
	if len(a.inFlight) == 0 {
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(domain.UserMessage(err))
	}
}

// setResults replaces the loaded trades and coordinates, drops the
// forecast and answer derived from the old ones and rebuilds the map.
func (a *App) setResults(trades []domain.TransactionRecord, geocoded []domain.GeocodedTransaction) {
	a.trades = trades
	a.geocoded = geocoded
	a.forecast = nil
	a.answer = ""
	a.ports.Forecast.Clear()
	a.ports.Chat.Clear()
	a.statusbar.SetResultCount(len(trades))

	changed := messages.ResultsChanged{
		Trades:   trades,
		Geocoded: geocoded,
		Policy:   a.ports.columnPolicy(),
	}
	a.queryView, _ = a.queryView.Update(changed)
	a.mapView, _ = a.mapView.Update(changed)
	a.forecastView, _ = a.forecastView.Update(changed)
	a.chatView, _ = a.chatView.Update(changed)

	a.syncMap()
}

func (a *App) syncMap() {
	if err := a.ports.Map.Sync(a.geocoded); err != nil {
		a.setError(err)
	}
}

func (a *App) loadCodeMap() tea.Cmd {
	return func() tea.Msg {
		codes, err := a.ports.Reference.LoadCodeMap(a.ctx)
		return messages.CodeMapLoaded{Codes: codes, Err: err}
	}
}

func (a *App) loadDistricts(city string) tea.Cmd {
	return func() tea.Msg {
		districts, err := a.ports.Reference.LoadDistricts(a.ctx, city)
		return messages.DistrictsLoaded{City: city, Districts: districts, Err: err}
	}
}

func (a *App) search(criteria domain.QueryCriteria) tea.Cmd {
	return func() tea.Msg {
		outcome, err := a.ports.Search.Search(a.ctx, criteria)
		return messages.SearchCompleted{Outcome: outcome, Err: err}
	}
}

func (a *App) runForecast(periods int) tea.Cmd {
	rows := a.trades
	return func() tea.Msg {
		result, err := a.ports.Forecast.Run(a.ctx, rows, periods)
		return messages.ForecastCompleted{Result: result, Err: err}
	}
}

func (a *App) ask(question string) tea.Cmd {
	rows := a.trades
	return func() tea.Msg {
		answer, err := a.ports.Chat.Ask(a.ctx, rows, question)
		return messages.ChatAnswered{Question: strings.TrimSpace(question), Answer: answer, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{a.renderTabs()}
	if a.err != nil {
		sections = append(sections, a.styles.Banner.Render(domain.UserMessage(a.err)))
	} else {
		sections = append(sections, "")
	}

	var content string
	switch a.activeTab {
	case messages.TabQuery:
		content = a.queryView.View()
	case messages.TabMap:
		content = a.mapView.View()
	case messages.TabForecast:
		content = a.forecastView.View()
	case messages.TabChat:
		content = a.chatView.View()
	}
	sections = append(sections,
		lipgloss.NewStyle().Height(a.contentHeight()).MaxHeight(a.contentHeight()).Render(content),
		a.statusbar.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(messages.Tabs))
	for _, tab := range messages.Tabs {
		label := tab.Title()
		if tab == a.activeTab {
			tabs = append(tabs, a.styles.ActiveTab.Render(label))
			continue
		}
		tabs = append(tabs, a.styles.Tab.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) contentHeight() int {
	h := a.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

// Program builds the Bubbletea program for the app.
func (a *App) Program() *tea.Program {
	return tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
}

// Run starts the TUI application and releases the map on exit.
func (a *App) Run() error {
	defer a.Shutdown()
	_, err := a.Program().Run()
	return err
}

// Shutdown releases the map widget and detaches its region. Safe to call
// more than once.
func (a *App) Shutdown() {
	a.ports.Map.Close()
	a.ports.Map.Unmount()
}

// ActiveTab returns the active tab.
func (a *App) ActiveTab() messages.TabType {
	return a.activeTab
}

// Busy reports whether action is in flight.
func (a *App) Busy(action messages.Action) bool {
	return a.inFlight[action]
}

// Trades returns the loaded transaction rows.
func (a *App) Trades() []domain.TransactionRecord {
	return a.trades
}

// Geocoded returns the loaded rows with coordinates.
func (a *App) Geocoded() []domain.GeocodedTransaction {
	return a.geocoded
}

// Forecast returns the loaded forecast, or nil.
func (a *App) Forecast() *domain.ForecastResult {
	return a.forecast
}

// Answer returns the last answer.
func (a *App) Answer() string {
	return a.answer
}

// Err returns the banner error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and sizes every tab.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	h := a.contentHeight()
	a.queryView.SetDimensions(width, h)
	a.mapView.SetDimensions(width, h)
	a.forecastView.SetDimensions(width, h)
	a.chatView.SetDimensions(width, h)
	a.statusbar.SetWidth(width)
}
