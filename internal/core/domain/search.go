package domain

import "fmt"

// SearchState is a state of the search orchestrator.
type SearchState int

const (
	// SearchIdle means no search has run or the last one was reset.
	SearchIdle SearchState = iota
	// SearchResolving means the district code lookup is in flight.
	SearchResolving
	// SearchFetching means the transaction fetch is in flight.
	SearchFetching
	// SearchGeocoding means the geocode request is in flight.
	SearchGeocoding
	// SearchDone means the last search finished.
	SearchDone
	// SearchError means the last search failed.
	SearchError
)

// String returns the state name.
func (s SearchState) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchResolving:
		return "resolving"
	case SearchFetching:
		return "fetching"
	case SearchGeocoding:
		return "geocoding"
	case SearchDone:
		return "done"
	case SearchError:
		return "error"
	default:
		return "unknown"
	}
}

// Label returns the localized progress text for the state.
func (s SearchState) Label() string {
	switch s {
	case SearchResolving:
		return "법정동 코드 확인 중…"
	case SearchFetching:
		return "실거래 데이터 조회 중…"
	case SearchGeocoding:
		return "좌표 변환 중…"
	case SearchDone:
		return "조회 완료"
	case SearchError:
		return "조회 실패"
	default:
		return "대기"
	}
}

// InFlight reports whether a network call is outstanding in this state.
func (s SearchState) InFlight() bool {
	return s == SearchResolving || s == SearchFetching || s == SearchGeocoding
}

// SearchEvent drives the search state machine.
type SearchEvent int

const (
	// EventSubmit starts a search from a resting state.
	EventSubmit SearchEvent = iota
	// EventCodeResolved means the district code arrived.
	EventCodeResolved
	// EventTradesEmpty means the fetch returned no rows.
	EventTradesEmpty
	// EventTradesFound means the fetch returned rows.
	EventTradesFound
	// EventGeocoded means coordinates arrived.
	EventGeocoded
	// EventFailed means the in-flight call failed.
	EventFailed
	// EventReset returns a resting machine to idle.
	EventReset
)

// String returns the event name.
func (e SearchEvent) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventCodeResolved:
		return "code_resolved"
	case EventTradesEmpty:
		return "trades_empty"
	case EventTradesFound:
		return "trades_found"
	case EventGeocoded:
		return "geocoded"
	case EventFailed:
		return "failed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// searchTransitions is the complete transition table. Anything absent is illegal.
var searchTransitions = map[SearchState]map[SearchEvent]SearchState{
	SearchIdle: {
		EventSubmit: SearchResolving,
	},
	SearchResolving: {
		EventCodeResolved: SearchFetching,
		EventFailed:       SearchError,
	},
	SearchFetching: {
		EventTradesEmpty: SearchDone,
		EventTradesFound: SearchGeocoding,
		EventFailed:      SearchError,
	},
	SearchGeocoding: {
		EventGeocoded: SearchDone,
		EventFailed:   SearchError,
	},
	SearchDone: {
		EventSubmit: SearchResolving,
		EventReset:  SearchIdle,
	},
	SearchError: {
		EventSubmit: SearchResolving,
		EventReset:  SearchIdle,
	},
}

// Next returns the state reached from s on e.
func (s SearchState) Next(e SearchEvent) (SearchState, error) {
	if next, ok := searchTransitions[s][e]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, s, e)
}

// SearchOutcome is everything one search produced.
type SearchOutcome struct {
	// Criteria is the validated input.
	Criteria QueryCriteria

	// DistrictCode is the resolved administrative code.
	DistrictCode string

	// Trades are the transaction rows in backend order.
	Trades []TransactionRecord

	// Geocoded are the rows with coordinates; empty when Trades is empty.
	Geocoded []GeocodedTransaction

	// State is the terminal state the search reached.
	State SearchState
}
