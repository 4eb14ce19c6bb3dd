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

// Ensure SearchOrchestrator implements the interface.
var _ driving.SearchService = (*SearchOrchestrator)(nil)

// CodeMapSource supplies the code map used for district membership checks.
type CodeMapSource interface {
	CodeMap() domain.CodeMap
}

// SearchOrchestrator drives the search state machine:
// resolve code, fetch trades, geocode.
type SearchOrchestrator struct {
	backend driven.Backend
	codes   CodeMapSource

	mu      sync.Mutex
	state   domain.SearchState
	outcome *domain.SearchOutcome
	lastErr error
}

// NewSearchOrchestrator creates an orchestrator. codes may be nil, in which
// case district membership is not checked.
func NewSearchOrchestrator(backend driven.Backend, codes CodeMapSource) *SearchOrchestrator {
	return &SearchOrchestrator{backend: backend, codes: codes}
}

// Search validates criteria and runs the pipeline.
func (s *SearchOrchestrator) Search(ctx context.Context, criteria domain.QueryCriteria) (*domain.SearchOutcome, error) {
	logger.Section("Search")
	criteria = criteria.Normalized()

	var codes domain.CodeMap
	if s.codes != nil {
		codes = s.codes.CodeMap()
	}
	if err := criteria.Validate(codes); err != nil {
		logger.Debug("criteria rejected: %v", err)
		return nil, err
	}

	outcome, err := s.begin(criteria)
	if err != nil {
		return nil, err
	}

	code, err := s.backend.DistrictCode(ctx, criteria.City, criteria.District)
	if err != nil {
		return s.fail(outcome, fmt.Errorf("resolve district code: %w", err))
	}
	outcome.DistrictCode = code
	if err := s.advance(domain.EventCodeResolved); err != nil {
		return nil, err
	}
	logger.Debug("district code: %s", code)

	trades, err := s.backend.TradeData(ctx, code, criteria)
	if err != nil {
		return s.fail(outcome, fmt.Errorf("fetch trades: %w", err))
	}
	outcome.Trades = trades
	logger.Debug("trades fetched: %d", len(trades))

	if len(trades) == 0 {
		outcome.Geocoded = []domain.GeocodedTransaction{}
		if err := s.advance(domain.EventTradesEmpty); err != nil {
			return nil, err
		}
		return s.finish(outcome), nil
	}
	if err := s.advance(domain.EventTradesFound); err != nil {
		return nil, err
	}

	geocoded, err := s.backend.Geocode(ctx, trades)
	if err != nil {
		return s.fail(outcome, fmt.Errorf("geocode trades: %w", err))
	}
	outcome.Geocoded = geocoded
	if err := s.advance(domain.EventGeocoded); err != nil {
		return nil, err
	}
	logger.Debug("rows geocoded: %d", len(geocoded))
	return s.finish(outcome), nil
}

// begin claims the machine for a new search and clears the prior outcome.
func (s *SearchOrchestrator) begin(criteria domain.QueryCriteria) (*domain.SearchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.InFlight() {
		return nil, domain.ErrSearchInProgress
	}
	next, err := s.state.Next(domain.EventSubmit)
	if err != nil {
		return nil, err
	}
	logger.Debug("search state: %s -> %s", s.state, next)
	s.state = next
	s.outcome = nil
	s.lastErr = nil
	return &domain.SearchOutcome{Criteria: criteria, State: next}, nil
}

func (s *SearchOrchestrator) advance(e domain.SearchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Next(e)
	if err != nil {
		return err
	}
	logger.Debug("search state: %s -> %s", s.state, next)
	s.state = next
	return nil
}

// fail moves to Error. The partial outcome is kept so fetched trades
// survive a geocoding failure.
func (s *SearchOrchestrator) fail(outcome *domain.SearchOutcome, cause error) (*domain.SearchOutcome, error) {
	if err := s.advance(domain.EventFailed); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	outcome.State = s.state
	s.outcome = outcome
	s.lastErr = cause
	logger.Warn("search failed: %v", cause)
	return outcome, cause
}

func (s *SearchOrchestrator) finish(outcome *domain.SearchOutcome) *domain.SearchOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcome.State = s.state
	s.outcome = outcome
	return outcome
}

// State returns the current state.
func (s *SearchOrchestrator) State() domain.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns the last outcome, or nil.
func (s *SearchOrchestrator) Outcome() *domain.SearchOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Err returns the error of the last search, or nil.
func (s *SearchOrchestrator) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Reset returns a finished machine to Idle and drops the outcome.
func (s *SearchOrchestrator) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.SearchIdle {
		return nil
	}
	next, err := s.state.Next(domain.EventReset)
	if err != nil {
		return err
	}
	s.state = next
	s.outcome = nil
	s.lastErr = nil
	return nil
}
