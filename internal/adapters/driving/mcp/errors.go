// Package mcp provides an MCP (Model Context Protocol) server adapter for aptview.
// It lets AI assistants query apartment transactions, forecasts and
// answers through the same orchestrators the TUI uses.
package mcp

import "errors"

var (
	// ErrMissingReferenceService is returned when the reference service is not provided.
	ErrMissingReferenceService = errors.New("mcp: reference service is required")

	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")
)
