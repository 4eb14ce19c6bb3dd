package driving

import (
	"context"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

// SearchService runs the code → trades → coordinates pipeline.
type SearchService interface {
	// Search validates criteria and runs the pipeline. A geocoding failure
	// returns the outcome with its trades alongside the error.
	Search(ctx context.Context, criteria domain.QueryCriteria) (*domain.SearchOutcome, error)

	// State returns the current state of the pipeline.
	State() domain.SearchState

	// Outcome returns the last outcome, or nil before the first search.
	Outcome() *domain.SearchOutcome

	// Reset returns a finished pipeline to idle.
	Reset() error
}
