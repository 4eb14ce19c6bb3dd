package driven

import (
	"context"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

// Backend is the remote service that owns every data operation.
// The client never computes codes, coordinates, forecasts or answers itself.
//
// Failures are returned as *domain.NetworkError.
type Backend interface {
	// LawdCodes returns the full city to district map.
	LawdCodes(ctx context.Context) (domain.CodeMap, error)

	// Districts returns the district names of one city.
	Districts(ctx context.Context, city string) ([]string, error)

	// DistrictCode resolves a city/district pair to its 5-digit code.
	DistrictCode(ctx context.Context, city, district string) (string, error)

	// TradeData fetches transactions for a district code and the criteria's
	// period, apartment name and area filters. Unset filters are omitted.
	TradeData(ctx context.Context, code string, criteria domain.QueryCriteria) ([]domain.TransactionRecord, error)

	// Geocode attaches coordinates to the given rows.
	Geocode(ctx context.Context, rows []domain.TransactionRecord) ([]domain.GeocodedTransaction, error)

	// Forecast fits a model to the rows and predicts periods months ahead.
	Forecast(ctx context.Context, rows []domain.TransactionRecord, periods int) (*domain.ForecastResult, error)

	// Chat answers a natural-language question about the rows.
	Chat(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error)
}
