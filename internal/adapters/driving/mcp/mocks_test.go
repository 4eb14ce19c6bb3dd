package mcp

import (
	"context"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
)

// mockReferenceService is a mock implementation of driving.ReferenceService.
type mockReferenceService struct {
	codes     domain.CodeMap
	loaded    bool
	loadCalls int
	err       error
}

func (m *mockReferenceService) LoadCodeMap(_ context.Context) (domain.CodeMap, error) {
	m.loadCalls++
	if m.err != nil {
		return domain.CodeMap{}, m.err
	}
	m.loaded = true
	return m.codes, nil
}

func (m *mockReferenceService) LoadDistricts(_ context.Context, city string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.codes.Districts(city), nil
}

func (m *mockReferenceService) CodeMap() domain.CodeMap {
	if !m.loaded {
		return domain.CodeMap{}
	}
	return m.codes
}

func (m *mockReferenceService) Districts() []string { return nil }
func (m *mockReferenceService) Err() error          { return m.err }

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	outcome  *domain.SearchOutcome
	err      error
	criteria domain.QueryCriteria
}

func (m *mockSearchService) Search(_ context.Context, criteria domain.QueryCriteria) (*domain.SearchOutcome, error) {
	m.criteria = criteria
	return m.outcome, m.err
}

func (m *mockSearchService) State() domain.SearchState      { return domain.SearchIdle }
func (m *mockSearchService) Outcome() *domain.SearchOutcome { return m.outcome }
func (m *mockSearchService) Reset() error                   { return nil }

// mockForecastService is a mock implementation of driving.ForecastService.
type mockForecastService struct {
	result  *domain.ForecastResult
	err     error
	rows    int
	periods int
}

func (m *mockForecastService) Run(
	_ context.Context, rows []domain.TransactionRecord, periods int,
) (*domain.ForecastResult, error) {
	m.rows = len(rows)
	m.periods = periods
	return m.result, m.err
}

func (m *mockForecastService) Result() *domain.ForecastResult { return m.result }
func (m *mockForecastService) Clear()                         { m.result = nil }

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer   string
	err      error
	question string
}

func (m *mockChatService) Ask(_ context.Context, _ []domain.TransactionRecord, question string) (string, error) {
	m.question = question
	return m.answer, m.err
}

func (m *mockChatService) Answer() string { return m.answer }
func (m *mockChatService) Clear()         { m.answer = "" }

var (
	_ driving.ReferenceService = (*mockReferenceService)(nil)
	_ driving.SearchService    = (*mockSearchService)(nil)
	_ driving.ForecastService  = (*mockForecastService)(nil)
	_ driving.ChatService      = (*mockChatService)(nil)
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
	lon, lat := 127.05, 37.5
	first := domain.TransactionRecord{
		AptNm: "래미안", UmdNm: "개포동", DealYear: "2024", DealMonth: "1", DealDay: "15",
		DealAmount: "85,000", ExcluUseAr: "84.97", Floor: "12",
	}
	second := domain.TransactionRecord{AptNm: "자이", DealYear: "2024", DealMonth: "2", DealAmount: "95,000"}
	return &domain.SearchOutcome{
		DistrictCode: "11680",
		Trades:       []domain.TransactionRecord{first, second},
		Geocoded: []domain.GeocodedTransaction{
			{TransactionRecord: first, Longitude: &lon, Latitude: &lat},
			{TransactionRecord: second},
		},
		State: domain.SearchDone,
	}
}

func testQuery() QueryInput {
	return QueryInput{City: "서울특별시", District: "강남구", StartYM: "202401", EndYM: "202402"}
}
