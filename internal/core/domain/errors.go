package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent failures the user can act on.
// Typed errors below wrap one of these so callers can use errors.Is.
var (
	// ErrValidation indicates the form is incomplete or inconsistent.
	// No network call is made when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration indicates a required setting or credential is absent.
	ErrConfiguration = errors.New("configuration error")

	// ErrNetwork indicates the backend returned a non-2xx status or could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrNoData indicates an action needs a loaded transaction set and none exists.
	ErrNoData = errors.New("no transaction data loaded")

	// ErrSearchInProgress indicates a search is already in flight.
	ErrSearchInProgress = errors.New("search in progress")

	// ErrForecastInProgress indicates a forecast request is already in flight.
	ErrForecastInProgress = errors.New("forecast in progress")

	// ErrChatInProgress indicates a question is already being answered.
	ErrChatInProgress = errors.New("chat in progress")

	// ErrInvalidTransition indicates an event that the search state machine does not accept.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Localized fallback messages shown when no better text is available.
const (
	MsgGenericNetwork = "서버와 통신하는 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	MsgNoData         = "먼저 거래 데이터를 조회해 주세요."
	MsgBusy           = "이전 요청을 처리하는 중입니다."
)

// ValidationError lists the form fields that blocked an action.
type ValidationError struct {
	// Fields holds the display names of missing or invalid fields.
	Fields []string

	// Reason is a short localized explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConfigurationError reports a missing setting that disables one feature.
type ConfigurationError struct {
	// Setting is the environment variable or config key that is missing.
	Setting string

	// Feature is the feature that cannot run without it.
	Feature string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s 기능을 사용하려면 %s 설정이 필요합니다", e.Feature, e.Setting)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NetworkError represents a failed backend call.
type NetworkError struct {
	// Op is the backend operation, e.g. "GET /trade-data".
	Op string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Detail is the backend-provided message, if any.
	Detail string

	// Err is the underlying transport or decode error, if any.
	Err error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
}

// Unwrap exposes both ErrNetwork and the underlying cause.
func (e *NetworkError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNetwork, e.Err}
	}
	return []error{ErrNetwork}
}

// UserMessage returns the single-line banner text for err.
// Backend detail wins over the generic fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Detail != "" {
			return netErr.Detail
		}
		return MsgGenericNetwork
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Error()
	}

	switch {
	case errors.Is(err, ErrNoData):
		return MsgNoData
	case errors.Is(err, ErrSearchInProgress),
		errors.Is(err, ErrForecastInProgress),
		errors.Is(err, ErrChatInProgress):
		return MsgBusy
	}
	return err.Error()
}
