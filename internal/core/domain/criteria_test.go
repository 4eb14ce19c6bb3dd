package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodes() CodeMap {
	return NewCodeMap(
		[]string{"서울특별시", "부산광역시"},
		map[string][]string{
			"서울특별시": {"종로구", "강남구"},
			"부산광역시": {"해운대구"},
		},
	)
}

func validCriteria() QueryCriteria {
	return QueryCriteria{
		City:        "서울특별시",
		District:    "강남구",
		StartPeriod: "202401",
		EndPeriod:   "202403",
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestQueryCriteria_Valid(t *testing.T) {
	assert.NoError(t, validCriteria().Validate(testCodes()))
}

func TestQueryCriteria_SinglePeriodMonth(t *testing.T) {
	c := validCriteria()
	c.EndPeriod = c.StartPeriod
	assert.NoError(t, c.Validate(testCodes()))
}

func TestQueryCriteria_MissingFieldsReportedTogether(t *testing.T) {
	err := QueryCriteria{City: "서울특별시"}.Validate(testCodes())
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, []string{FieldDistrict, FieldStartPeriod, FieldEndPeriod}, valErr.Fields)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestQueryCriteria_WhitespaceCountsAsMissing(t *testing.T) {
	c := validCriteria()
	c.District = "   "
	err := c.Validate(testCodes())

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, []string{FieldDistrict}, valErr.Fields)
}

func TestQueryCriteria_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*QueryCriteria)
		fields []string
	}{
		{
			name:   "district outside city",
			mutate: func(c *QueryCriteria) { c.District = "해운대구" },
			fields: []string{FieldDistrict},
		},
		{
			name:   "malformed start",
			mutate: func(c *QueryCriteria) { c.StartPeriod = "2024-1" },
			fields: []string{FieldStartPeriod},
		},
		{
			name:   "month out of range",
			mutate: func(c *QueryCriteria) { c.EndPeriod = "202413" },
			fields: []string{FieldEndPeriod},
		},
		{
			name: "swapped range",
			mutate: func(c *QueryCriteria) {
				c.StartPeriod = "202405"
				c.EndPeriod = "202401"
			},
			fields: []string{FieldStartPeriod, FieldEndPeriod},
		},
		{
			name:   "negative area",
			mutate: func(c *QueryCriteria) { c.Area.Min = floatPtr(-1) },
			fields: []string{FieldArea},
		},
		{
			name: "inverted area",
			mutate: func(c *QueryCriteria) {
				c.Area.Min = floatPtr(100)
				c.Area.Max = floatPtr(60)
			},
			fields: []string{FieldArea},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCriteria()
			tt.mutate(&c)

			var valErr *ValidationError
			require.True(t, errors.As(c.Validate(testCodes()), &valErr))
			assert.Equal(t, tt.fields, valErr.Fields)
		})
	}
}

func TestQueryCriteria_EmptyCodeMapSkipsMembership(t *testing.T) {
	c := validCriteria()
	c.District = "없는구"
	assert.NoError(t, c.Validate(CodeMap{}))
}

func TestValidPeriod(t *testing.T) {
	tests := []struct {
		period string
		want   bool
	}{
		{"202401", true},
		{" 202412 ", true},
		{"202400", false},
		{"202413", false},
		{"20241", false},
		{"2024ab", false},
		{"-20101", false},
		{"+20201", false},
		{"2024 1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPeriod(tt.period))
		})
	}
}

func TestQueryCriteria_Normalized(t *testing.T) {
	c := QueryCriteria{City: " 서울특별시 ", District: "강남구\t", ApartmentName: " 래미안 "}
	n := c.Normalized()
	assert.Equal(t, "서울특별시", n.City)
	assert.Equal(t, "강남구", n.District)
	assert.Equal(t, "래미안", n.ApartmentName)
}

func TestDefaultPeriods(t *testing.T) {
	tests := []struct {
		now  time.Time
		from string
		to   string
	}{
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), "202401", "202406"},
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "202310", "202403"},
	}

	for _, tt := range tests {
		from, to := DefaultPeriods(tt.now)
		assert.Equal(t, tt.from, from)
		assert.Equal(t, tt.to, to)
	}
}
