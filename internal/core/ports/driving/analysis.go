package driving

import (
	"context"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
)

// ForecastService requests price forecasts for a loaded result set.
type ForecastService interface {
	// Run forecasts periods months ahead. periods <= 0 means the default.
	Run(ctx context.Context, rows []domain.TransactionRecord, periods int) (*domain.ForecastResult, error)

	// Result returns the last successful forecast, or nil.
	Result() *domain.ForecastResult

	// Clear drops the stored forecast.
	Clear()
}

// ChatService answers questions about a loaded result set.
type ChatService interface {
	// Ask sends question with the rows and returns the answer.
	Ask(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error)

	// Answer returns the last successful answer.
	Answer() string

	// Clear drops the stored answer.
	Clear()
}

// MapService owns the single live map widget.
type MapService interface {
	// Mount attaches the screen region maps are drawn into.
	Mount(m driven.MountPoint)

	// Unmount detaches the region and releases any live widget.
	Unmount()

	// Sync rebuilds the map for rows, or releases it when rows is empty.
	Sync(rows []domain.GeocodedTransaction) error

	// Render draws the live widget. ok is false when none exists.
	Render() (view string, ok bool)

	// Close releases any live widget.
	Close()
}
