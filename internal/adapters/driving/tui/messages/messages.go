// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/aptview/internal/core/domain"
)

// TabType identifies which tab is currently active.
type TabType int

const (
	// TabQuery is the search form, results table and price chart.
	TabQuery TabType = iota
	// TabMap is the marker map.
	TabMap
	// TabForecast is the forecast chart and table.
	TabForecast
	// TabChat is the question box and answer.
	TabChat
)

// Tabs lists every tab in display order.
var Tabs = []TabType{TabQuery, TabMap, TabForecast, TabChat}

// String returns the string representation of the tab.
func (t TabType) String() string {
	switch t {
	case TabQuery:
		return "query"
	case TabMap:
		return "map"
	case TabForecast:
		return "forecast"
	case TabChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Title returns the localized tab label.
func (t TabType) Title() string {
	switch t {
	case TabQuery:
		return "조회"
	case TabMap:
		return "지도"
	case TabForecast:
		return "예측"
	case TabChat:
		return "AI 질의"
	default:
		return "?"
	}
}

// Action identifies a long-running operation.
type Action int

const (
	// ActionCodes loads the code map.
	ActionCodes Action = iota
	// ActionDistricts loads a district list.
	ActionDistricts
	// ActionSearch runs the search pipeline.
	ActionSearch
	// ActionForecast requests a forecast.
	ActionForecast
	// ActionChat asks a question.
	ActionChat
)

// Label returns the localized progress text for the action.
func (a Action) Label() string {
	switch a {
	case ActionCodes:
		return "지역 코드 불러오는 중…"
	case ActionDistricts:
		return "시/군/구 목록 불러오는 중…"
	case ActionSearch:
		return "실거래 조회 중…"
	case ActionForecast:
		return "가격 예측 중…"
	case ActionChat:
		return "답변 생성 중…"
	default:
		return "처리 중…"
	}
}

// CodeMapLoaded carries the reference code map.
type CodeMapLoaded struct {
	Codes domain.CodeMap
	Err   error
}

// CityChanged is sent when the form's city selection changes.
type CityChanged struct {
	City string
}

// DistrictsLoaded carries the district list of a city.
type DistrictsLoaded struct {
	City      string
	Districts []string
	Err       error
}

// SearchRequested asks the shell to run a search.
type SearchRequested struct {
	Criteria domain.QueryCriteria
}

// SearchCompleted carries a search outcome. Outcome may be non-nil
// alongside Err when trades were fetched but geocoding failed.
type SearchCompleted struct {
	Outcome *domain.SearchOutcome
	Err     error
}

// ResultsChanged tells views the loaded result set changed.
type ResultsChanged struct {
	Trades   []domain.TransactionRecord
	Geocoded []domain.GeocodedTransaction
	Policy   domain.ColumnPolicy
}

// ForecastRequested asks the shell to run a forecast.
type ForecastRequested struct {
	Periods int
}

// ForecastCompleted carries a forecast result.
type ForecastCompleted struct {
	Result *domain.ForecastResult
	Err    error
}

// ChatRequested asks the shell to send a question.
type ChatRequested struct {
	Question string
}

// ChatAnswered carries the answer to a question.
type ChatAnswered struct {
	Question string
	Answer   string
	Err      error
}

// ConfigReloaded is sent when the configuration file changed on disk.
type ConfigReloaded struct{}

// ErrorOccurred is sent when an error should be displayed.
type ErrorOccurred struct {
	Err error
}
