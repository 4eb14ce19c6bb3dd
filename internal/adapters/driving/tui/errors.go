package tui

import "errors"

// ErrMissingReferenceService is returned when the reference service is not provided.
var ErrMissingReferenceService = errors.New("tui: reference service is required")

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrMissingForecastService is returned when the forecast service is not provided.
var ErrMissingForecastService = errors.New("tui: forecast service is required")

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")

// ErrMissingMapService is returned when the map service is not provided.
var ErrMissingMapService = errors.New("tui: map service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
