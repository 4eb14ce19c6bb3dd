package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DefaultForecastPeriods is the forecast horizon in months when none is given.
const DefaultForecastPeriods = 12

// MaxForecastPeriods bounds the horizon a user may request.
const MaxForecastPeriods = 60

// ValidatePeriods checks a user-supplied forecast horizon.
func ValidatePeriods(n int) error {
	if n < 1 || n > MaxForecastPeriods {
		return &ValidationError{
			Fields: []string{FieldPeriods},
			Reason: "예측 기간은 1~" + strconv.Itoa(MaxForecastPeriods) + " 사이의 개월 수여야 합니다",
		}
	}
	return nil
}

// ForecastDate is a forecast timestamp. The backend sends ISO dates,
// ISO datetimes or epoch milliseconds depending on its serialiser.
type ForecastDate struct {
	time.Time
}

// UnmarshalJSON accepts "2024-01-01", "2024-01-01T00:00:00" (with or
// without zone) and epoch milliseconds.
func (d *ForecastDate) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] != '"' {
		ms, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("forecast date: %w", err)
		}
		d.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("forecast date: unrecognised format %q", s)
}

// MarshalJSON encodes the date as YYYY-MM-DD.
func (d ForecastDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// YearMonth returns the "YYYY-MM" join key, or "" for a zero date.
func (d ForecastDate) YearMonth() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01")
}

// HistoricalPoint is one observed monthly mean used to fit the model.
type HistoricalPoint struct {
	DS ForecastDate `json:"ds"`
	Y  float64      `json:"y"`
}

// ForecastPoint is one predicted month.
type ForecastPoint struct {
	DS        ForecastDate `json:"ds"`
	Yhat      float64      `json:"yhat"`
	YhatLower *float64     `json:"yhat_lower,omitempty"`
	YhatUpper *float64     `json:"yhat_upper,omitempty"`
}

// ForecastResult is the backend's forecast response.
type ForecastResult struct {
	Historical []HistoricalPoint `json:"historical_data"`
	Forecast   []ForecastPoint   `json:"forecast_data"`
}

// IsEmpty reports whether neither series has points.
func (f *ForecastResult) IsEmpty() bool {
	return f == nil || (len(f.Historical) == 0 && len(f.Forecast) == 0)
}

// ForecastRow is one month of the merged historical/forecast series.
// Either value may be nil: the merge is an outer join.
type ForecastRow struct {
	Month     string
	Actual    *float64
	Predicted *float64
}
