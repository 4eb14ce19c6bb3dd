package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
	"github.com/custodia-labs/aptview/internal/logger"
)

// Ensure ForecastOrchestrator implements the interface.
var _ driving.ForecastService = (*ForecastOrchestrator)(nil)

// ForecastOrchestrator requests forecasts and keeps the latest result.
type ForecastOrchestrator struct {
	backend driven.Backend

	mu     sync.Mutex
	busy   bool
	result *domain.ForecastResult
}

// NewForecastOrchestrator creates a forecast orchestrator.
func NewForecastOrchestrator(backend driven.Backend) *ForecastOrchestrator {
	return &ForecastOrchestrator{backend: backend}
}

// Run posts rows for a forecast of periods months. A successful result
// replaces the previous one; a failure leaves it untouched.
func (f *ForecastOrchestrator) Run(
	ctx context.Context, rows []domain.TransactionRecord, periods int,
) (*domain.ForecastResult, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNoData
	}
	if periods <= 0 {
		periods = domain.DefaultForecastPeriods
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, domain.ErrForecastInProgress
	}
	f.busy = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	logger.Debug("forecast: %d rows, %d periods", len(rows), periods)
	result, err := f.backend.Forecast(ctx, rows, periods)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if result == nil {
		result = &domain.ForecastResult{}
	}

	f.mu.Lock()
	f.result = result
	f.mu.Unlock()
	return result, nil
}

// Result returns the last successful forecast.
func (f *ForecastOrchestrator) Result() *domain.ForecastResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Busy reports whether a forecast is in flight.
func (f *ForecastOrchestrator) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Clear drops the stored forecast, e.g. after a new search.
func (f *ForecastOrchestrator) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = nil
}
