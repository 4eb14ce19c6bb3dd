package mcp

import (
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Reference loads the city/district code map.
	Reference driving.ReferenceService

	// Search runs the transaction pipeline.
	Search driving.SearchService

	// Forecast predicts monthly prices. Optional.
	Forecast driving.ForecastService

	// Chat answers questions about trades. Optional.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Reference == nil {
		return ErrMissingReferenceService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Forecast and Chat only gate their own tools
	return nil
}
