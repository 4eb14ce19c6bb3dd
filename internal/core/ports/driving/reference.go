package driving

import (
	"context"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

// ReferenceService loads the city/district reference data for the form.
type ReferenceService interface {
	// LoadCodeMap fetches the full code map. On failure the map stays empty
	// and the error is kept for Err.
	LoadCodeMap(ctx context.Context) (domain.CodeMap, error)

	// LoadDistricts fetches the districts of city. An empty city is a no-op.
	// On failure the previous list is kept.
	LoadDistricts(ctx context.Context, city string) ([]string, error)

	// CodeMap returns the loaded code map, possibly empty.
	CodeMap() domain.CodeMap

	// Districts returns the current district list.
	Districts() []string

	// Err returns the last load error, or nil.
	Err() error
}
