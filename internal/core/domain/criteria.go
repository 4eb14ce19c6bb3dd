package domain

import (
	"strconv"
	"strings"
	"time"
)

// Field display names used in validation messages.
const (
	FieldCity        = "시/도"
	FieldDistrict    = "시/군/구"
	FieldStartPeriod = "시작년월"
	FieldEndPeriod   = "종료년월"
	FieldArea        = "전용면적"
	FieldQuestion    = "질문"
	FieldPeriods     = "예측 기간"
)

// DefaultLookbackMonths is how far before the current month the start
// period defaults to.
const DefaultLookbackMonths = 5

// DefaultPeriods returns the default search range ending in t's month.
func DefaultPeriods(t time.Time) (from, to string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -DefaultLookbackMonths, 0).Format("200601"), first.Format("200601")
}

// AreaRange bounds the exclusive floor area in square metres.
// A nil bound is open.
type AreaRange struct {
	Min *float64
	Max *float64
}

// QueryCriteria holds the user's search selections.
type QueryCriteria struct {
	// City is the 시/도 name, a key of the CodeMap.
	City string

	// District is the 시/군/구 name, one of CodeMap.Districts(City).
	District string

	// StartPeriod is the first month to search, YYYYMM.
	StartPeriod string

	// EndPeriod is the last month to search, YYYYMM.
	EndPeriod string

	// ApartmentName optionally filters by apartment name substring.
	ApartmentName string

	// Area optionally bounds the exclusive area.
	Area AreaRange
}

// Validate checks the criteria before any network call.
// Required fields are reported together; consistency checks run only
// once all required fields are present. codes may be empty, in which
// case district membership is not checked.
func (c QueryCriteria) Validate(codes CodeMap) error {
	var missing []string
	if strings.TrimSpace(c.City) == "" {
		missing = append(missing, FieldCity)
	}
	if strings.TrimSpace(c.District) == "" {
		missing = append(missing, FieldDistrict)
	}
	if strings.TrimSpace(c.StartPeriod) == "" {
		missing = append(missing, FieldStartPeriod)
	}
	if strings.TrimSpace(c.EndPeriod) == "" {
		missing = append(missing, FieldEndPeriod)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Reason: "필수 입력값이 비어 있습니다"}
	}

	if !codes.IsEmpty() && !codes.Contains(c.City, c.District) {
		return &ValidationError{
			Fields: []string{FieldDistrict},
			Reason: c.District + "은(는) " + c.City + "에 속하지 않습니다",
		}
	}

	var badPeriods []string
	if !ValidPeriod(c.StartPeriod) {
		badPeriods = append(badPeriods, FieldStartPeriod)
	}
	if !ValidPeriod(c.EndPeriod) {
		badPeriods = append(badPeriods, FieldEndPeriod)
	}
	if len(badPeriods) > 0 {
		return &ValidationError{Fields: badPeriods, Reason: "년월은 YYYYMM 형식이어야 합니다"}
	}

	// Fixed-width YYYYMM compares correctly as a string.
	if strings.TrimSpace(c.StartPeriod) > strings.TrimSpace(c.EndPeriod) {
		return &ValidationError{
			Fields: []string{FieldStartPeriod, FieldEndPeriod},
			Reason: "시작년월이 종료년월보다 늦습니다",
		}
	}

	if err := c.Area.validate(); err != nil {
		return err
	}
	return nil
}

func (a AreaRange) validate() error {
	if (a.Min != nil && *a.Min < 0) || (a.Max != nil && *a.Max < 0) {
		return &ValidationError{Fields: []string{FieldArea}, Reason: "면적은 0 이상이어야 합니다"}
	}
	if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
		return &ValidationError{Fields: []string{FieldArea}, Reason: "최소 면적이 최대 면적보다 큽니다"}
	}
	return nil
}

// ValidPeriod reports whether s is a YYYYMM month with month 01..12.
func ValidPeriod(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	month, _ := strconv.Atoi(s[4:])
	return month >= 1 && month <= 12
}

// Normalized returns a copy with surrounding whitespace trimmed.
func (c QueryCriteria) Normalized() QueryCriteria {
	c.City = strings.TrimSpace(c.City)
	c.District = strings.TrimSpace(c.District)
	c.StartPeriod = strings.TrimSpace(c.StartPeriod)
	c.EndPeriod = strings.TrimSpace(c.EndPeriod)
	c.ApartmentName = strings.TrimSpace(c.ApartmentName)
	return c
}
