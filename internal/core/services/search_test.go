package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

type staticCodes domain.CodeMap

func (s staticCodes) CodeMap() domain.CodeMap { return domain.CodeMap(s) }

func searchCodes() staticCodes {
	return staticCodes(domain.NewCodeMap(
		[]string{"서울특별시"},
		map[string][]string{"서울특별시": {"강남구"}},
	))
}

func searchCriteria() domain.QueryCriteria {
	return domain.QueryCriteria{
		City:        "서울특별시",
		District:    "강남구",
		StartPeriod: "202401",
		EndPeriod:   "202402",
	}
}

func happyBackend() *mockBackend {
	return &mockBackend{
		DistrictCodeFunc: func(_ context.Context, _, _ string) (string, error) {
			return "11680", nil
		},
		TradeDataFunc: func(_ context.Context, _ string, _ domain.QueryCriteria) ([]domain.TransactionRecord, error) {
			return []domain.TransactionRecord{trade("2024", "1", "100,000")}, nil
		},
		GeocodeFunc: func(_ context.Context, rows []domain.TransactionRecord) ([]domain.GeocodedTransaction, error) {
			return []domain.GeocodedTransaction{located(127.0, 37.5)}, nil
		},
	}
}

func TestSearchOrchestrator_HappyPath(t *testing.T) {
	backend := happyBackend()
	var gotCode string
	backend.TradeDataFunc = func(_ context.Context, code string, c domain.QueryCriteria) ([]domain.TransactionRecord, error) {
		gotCode = code
		assert.Equal(t, "202401", c.StartPeriod)
		return []domain.TransactionRecord{trade("2024", "1", "100,000")}, nil
	}
	s := NewSearchOrchestrator(backend, searchCodes())

	outcome, err := s.Search(context.Background(), searchCriteria())
	require.NoError(t, err)

	assert.Equal(t, "11680", gotCode)
	assert.Equal(t, "11680", outcome.DistrictCode)
	assert.Len(t, outcome.Trades, 1)
	assert.Len(t, outcome.Geocoded, 1)
	assert.Equal(t, domain.SearchDone, outcome.State)
	assert.Equal(t, domain.SearchDone, s.State())
	assert.Same(t, outcome, s.Outcome())
	assert.Equal(t, []string{"DistrictCode", "TradeData", "Geocode"}, backend.calls)
}

func TestSearchOrchestrator_ValidationBlocksNetwork(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.QueryCriteria
	}{
		{"empty", domain.QueryCriteria{}},
		{"no district", domain.QueryCriteria{City: "서울특별시", StartPeriod: "202401", EndPeriod: "202401"}},
		{"no periods", domain.QueryCriteria{City: "서울특별시", District: "강남구"}},
		{"swapped", domain.QueryCriteria{City: "서울특별시", District: "강남구", StartPeriod: "202405", EndPeriod: "202401"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			s := NewSearchOrchestrator(backend, searchCodes())

			outcome, err := s.Search(context.Background(), tt.criteria)
			assert.Nil(t, outcome)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Empty(t, backend.calls)
			assert.Equal(t, domain.SearchIdle, s.State())
		})
	}
}

func TestSearchOrchestrator_EmptyTradesSkipsGeocode(t *testing.T) {
	backend := happyBackend()
	backend.TradeDataFunc = func(_ context.Context, _ string, _ domain.QueryCriteria) ([]domain.TransactionRecord, error) {
		return []domain.TransactionRecord{}, nil
	}
	s := NewSearchOrchestrator(backend, nil)

	outcome, err := s.Search(context.Background(), searchCriteria())
	require.NoError(t, err)
	assert.Empty(t, outcome.Trades)
	assert.NotNil(t, outcome.Geocoded)
	assert.Empty(t, outcome.Geocoded)
	assert.Equal(t, domain.SearchDone, s.State())
	assert.NotContains(t, backend.calls, "Geocode")
}

func TestSearchOrchestrator_CodeFailure(t *testing.T) {
	backend := happyBackend()
	backend.DistrictCodeFunc = func(_ context.Context, _, _ string) (string, error) {
		return "", &domain.NetworkError{Op: "GET /district-code", StatusCode: 404, Detail: "없는 지역"}
	}
	s := NewSearchOrchestrator(backend, searchCodes())

	outcome, err := s.Search(context.Background(), searchCriteria())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
	assert.Equal(t, "없는 지역", domain.UserMessage(err))
	assert.Equal(t, domain.SearchError, s.State())
	assert.Equal(t, domain.SearchError, outcome.State)
	assert.Empty(t, outcome.Trades)
	assert.Equal(t, []string{"DistrictCode"}, backend.calls)
	assert.Equal(t, err, s.Err())
}

func TestSearchOrchestrator_GeocodeFailureKeepsTrades(t *testing.T) {
	backend := happyBackend()
	backend.GeocodeFunc = func(_ context.Context, _ []domain.TransactionRecord) ([]domain.GeocodedTransaction, error) {
		return nil, &domain.NetworkError{Op: "POST /geocode-trade-history", StatusCode: 500}
	}
	s := NewSearchOrchestrator(backend, searchCodes())

	outcome, err := s.Search(context.Background(), searchCriteria())
	require.Error(t, err)
	require.NotNil(t, outcome)
	assert.Len(t, outcome.Trades, 1)
	assert.Empty(t, outcome.Geocoded)
	assert.Equal(t, domain.SearchError, s.State())
}

func TestSearchOrchestrator_RejectsConcurrentSearch(t *testing.T) {
	backend := happyBackend()
	var s *SearchOrchestrator
	var nestedErr error
	backend.DistrictCodeFunc = func(ctx context.Context, _, _ string) (string, error) {
		_, nestedErr = s.Search(ctx, searchCriteria())
		return "11680", nil
	}
	s = NewSearchOrchestrator(backend, searchCodes())

	_, err := s.Search(context.Background(), searchCriteria())
	require.NoError(t, err)
	assert.True(t, errors.Is(nestedErr, domain.ErrSearchInProgress))
}

func TestSearchOrchestrator_NewSearchClearsPriorOutcome(t *testing.T) {
	backend := happyBackend()
	s := NewSearchOrchestrator(backend, searchCodes())

	_, err := s.Search(context.Background(), searchCriteria())
	require.NoError(t, err)

	var outcomeDuringSearch *domain.SearchOutcome
	backend.DistrictCodeFunc = func(_ context.Context, _, _ string) (string, error) {
		outcomeDuringSearch = s.Outcome()
		return "", errors.New("down")
	}
	_, err = s.Search(context.Background(), searchCriteria())
	require.Error(t, err)
	assert.Nil(t, outcomeDuringSearch)
}

func TestSearchOrchestrator_Reset(t *testing.T) {
	s := NewSearchOrchestrator(happyBackend(), searchCodes())
	require.NoError(t, s.Reset())

	_, err := s.Search(context.Background(), searchCriteria())
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	assert.Equal(t, domain.SearchIdle, s.State())
	assert.Nil(t, s.Outcome())
}
