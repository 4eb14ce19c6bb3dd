// Package tui provides an interactive terminal user interface for aptview.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Reference loads cities and districts for the form.
	Reference driving.ReferenceService

	// Search runs the code → trades → coordinates pipeline.
	Search driving.SearchService

	// Forecast requests price forecasts.
	Forecast driving.ForecastService

	// Chat answers questions about the loaded trades.
	Chat driving.ChatService

	// Map owns the map widget drawn in the map tab.
	Map driving.MapService

	// ColumnPolicy selects the table column policy. Optional; it is
	// re-read when the configuration reloads.
	ColumnPolicy func() domain.ColumnPolicy

	// FlushCache drops cached reference lookups. Optional; called when
	// the configuration reloads.
	FlushCache func()
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Reference == nil {
		return ErrMissingReferenceService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Forecast == nil {
		return ErrMissingForecastService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Map == nil {
		return ErrMissingMapService
	}
	return nil
}

// columnPolicy returns the configured policy, defaulting to the deny-list.
func (p *Ports) columnPolicy() domain.ColumnPolicy {
	if p.ColumnPolicy == nil {
		return domain.ColumnsDenyList
	}
	return p.ColumnPolicy()
}
