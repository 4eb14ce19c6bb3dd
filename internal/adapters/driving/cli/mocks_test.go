package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
)

// MockReferenceService implements driving.ReferenceService for CLI tests.
type MockReferenceService struct {
	LoadCodeMapFunc   func(ctx context.Context) (domain.CodeMap, error)
	LoadDistrictsFunc func(ctx context.Context, city string) ([]string, error)
	Codes             domain.CodeMap
	loaded            bool
}

func (m *MockReferenceService) LoadCodeMap(ctx context.Context) (domain.CodeMap, error) {
	if m.LoadCodeMapFunc != nil {
		return m.LoadCodeMapFunc(ctx)
	}
	m.loaded = true
	return m.Codes, nil
}

func (m *MockReferenceService) LoadDistricts(ctx context.Context, city string) ([]string, error) {
	if m.LoadDistrictsFunc != nil {
		return m.LoadDistrictsFunc(ctx, city)
	}
	return m.Codes.Districts(city), nil
}

func (m *MockReferenceService) CodeMap() domain.CodeMap {
	if !m.loaded {
		return domain.CodeMap{}
	}
	return m.Codes
}

func (m *MockReferenceService) Districts() []string { return nil }
func (m *MockReferenceService) Err() error          { return nil }

// MockSearchService implements driving.SearchService for CLI tests.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, criteria domain.QueryCriteria) (*domain.SearchOutcome, error)
	criteria   domain.QueryCriteria
	calls      int
}

func (m *MockSearchService) Search(ctx context.Context, criteria domain.QueryCriteria) (*domain.SearchOutcome, error) {
	m.calls++
	m.criteria = criteria
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, criteria)
	}
	return testOutcome(), nil
}

func (m *MockSearchService) State() domain.SearchState      { return domain.SearchIdle }
func (m *MockSearchService) Outcome() *domain.SearchOutcome { return nil }
func (m *MockSearchService) Reset() error                   { return nil }

// MockForecastService implements driving.ForecastService for CLI tests.
type MockForecastService struct {
	RunFunc func(ctx context.Context, rows []domain.TransactionRecord, periods int) (*domain.ForecastResult, error)
	periods int
}

func (m *MockForecastService) Run(
	ctx context.Context, rows []domain.TransactionRecord, periods int,
) (*domain.ForecastResult, error) {
	m.periods = periods
	if m.RunFunc != nil {
		return m.RunFunc(ctx, rows, periods)
	}
	return testForecast(), nil
}

func (m *MockForecastService) Result() *domain.ForecastResult { return nil }
func (m *MockForecastService) Clear()                         {}

// MockChatService implements driving.ChatService for CLI tests.
type MockChatService struct {
	AskFunc func(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error)
}

func (m *MockChatService) Ask(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, rows, question)
	}
	return "", nil
}

func (m *MockChatService) Answer() string { return "" }
func (m *MockChatService) Clear()         {}

// MockMapService implements driving.MapService for CLI tests.
type MockMapService struct{}

func (m *MockMapService) Mount(driven.MountPoint)                  {}
func (m *MockMapService) Unmount()                                 {}
func (m *MockMapService) Sync([]domain.GeocodedTransaction) error { return nil }
func (m *MockMapService) Render() (string, bool)                   { return "", false }
func (m *MockMapService) Close()                                   {}

var (
	_ driving.ReferenceService = (*MockReferenceService)(nil)
	_ driving.SearchService    = (*MockSearchService)(nil)
	_ driving.ForecastService  = (*MockForecastService)(nil)
	_ driving.ChatService      = (*MockChatService)(nil)
	_ driving.MapService       = (*MockMapService)(nil)
)

func testCodes() domain.CodeMap {
	return domain.NewCodeMap(
		[]string{"서울특별시", "부산광역시"},
		map[string][]string{
			"서울특별시": {"강남구", "서초구"},
			"부산광역시": {"해운대구"},
		},
	)
}

func testOutcome() *domain.SearchOutcome {
	first := domain.TransactionRecord{AptNm: "래미안", DealYear: "2024", DealMonth: "1", DealAmount: "85,000"}
	second := domain.TransactionRecord{AptNm: "자이", DealYear: "2024", DealMonth: "1", DealAmount: "95,000"}
	return &domain.SearchOutcome{
		DistrictCode: "11680",
		Trades:       []domain.TransactionRecord{first, second},
		Geocoded: []domain.GeocodedTransaction{
			{TransactionRecord: first},
			{TransactionRecord: second},
		},
		State: domain.SearchDone,
	}
}

func testForecast() *domain.ForecastResult {
	jan := domain.ForecastDate{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	feb := domain.ForecastDate{Time: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	return &domain.ForecastResult{
		Historical: []domain.HistoricalPoint{{DS: jan, Y: 90000}},
		Forecast:   []domain.ForecastPoint{{DS: feb, Yhat: 92000}},
	}
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	reference *MockReferenceService
	search    *MockSearchService
	forecast  *MockForecastService
	chat      *MockChatService
}

// setupTestServices installs mock services and resets every flag.
// The returned function restores the previous state.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		reference: &MockReferenceService{Codes: testCodes()},
		search:    &MockSearchService{},
		forecast:  &MockForecastService{},
		chat:      &MockChatService{},
	}

	prevServices, prevBootstrap, prevNow := services, bootstrap, now
	services = &Services{
		Reference: ts.reference,
		Search:    ts.search,
		Forecast:  ts.forecast,
		Chat:      ts.chat,
		Map:       &MockMapService{},
	}
	bootstrap = nil
	now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	resetFlags()

	return ts, func() {
		services, bootstrap, now = prevServices, prevBootstrap, prevNow
		resetFlags()
	}
}

// resetFlags restores flag variables to their defaults between executions.
func resetFlags() {
	opts = Options{}
	searchQuery, searchGeocode, searchJSON = queryFlags{}, false, false
	forecastQuery, forecastPeriods, forecastJSON = queryFlags{}, domain.DefaultForecastPeriods, false
	askQuery, askJSON = queryFlags{}, false
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
