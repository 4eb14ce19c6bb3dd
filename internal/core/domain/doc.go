// Package domain defines the core entities of the apartment trade client.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - CodeMap: cities and their districts, loaded once per session
//   - QueryCriteria: the search form and its validation
//   - TransactionRecord: one apartment sale, wire order preserved
//   - GeocodedTransaction: a sale with map coordinates
//   - ForecastResult: historical and predicted monthly prices
//   - SearchState: the search orchestrator's state machine
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
