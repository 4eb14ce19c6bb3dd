package forecast

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/aptview/internal/core/domain"
)

func date(year int, month time.Month) domain.ForecastDate {
	return domain.ForecastDate{Time: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
}

func sampleResult() *domain.ForecastResult {
	return &domain.ForecastResult{
		Historical: []domain.HistoricalPoint{
			{DS: date(2024, 1), Y: 85000},
			{DS: date(2024, 2), Y: 86000},
		},
		Forecast: []domain.ForecastPoint{
			{DS: date(2024, 2), Yhat: 85500},
			{DS: date(2024, 3), Yhat: 87000},
		},
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Init())
	periods, err := v.Periods()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultForecastPeriods, periods)
	assert.Contains(t, v.View(), "먼저 조회 탭에서")
}

func TestView_Submit(t *testing.T) {
	v := NewView(nil, nil)
	v.periods.SetValue("")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("6")})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ForecastRequested{Periods: 6}, cmd())
}

func TestView_Periods(t *testing.T) {
	tests := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{"", domain.DefaultForecastPeriods, false},
		{"1", 1, false},
		{"60", 60, false},
		{"0", 0, true},
		{"61", 0, true},
		{"ab", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v := NewView(nil, nil)
			v.periods.SetValue(tt.text)

			got, err := v.Periods()
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestView_Submit_Invalid(t *testing.T) {
	v := NewView(nil, nil)
	v.periods.SetValue("99")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.True(t, errors.Is(msg.Err, domain.ErrValidation))
}

func TestView_ForecastCompleted(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(100, 40)

	v, _ = v.Update(messages.ForecastCompleted{Result: sampleResult()})

	rows := v.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01", rows[0].Month)
	assert.Nil(t, rows[0].Predicted)
	assert.Nil(t, rows[2].Actual)

	out := v.View()
	assert.Contains(t, out, "8억 5,000만원")
	assert.Contains(t, out, "2024-03")
}

func TestView_ForecastFailedKeepsPrevious(t *testing.T) {
	v := NewView(nil, nil)
	v, _ = v.Update(messages.ForecastCompleted{Result: sampleResult()})

	v, _ = v.Update(messages.ForecastCompleted{Err: errors.New("boom")})

	assert.Len(t, v.Rows(), 3)
}

func TestView_NewResultsClearForecast(t *testing.T) {
	v := NewView(nil, nil)
	v, _ = v.Update(messages.ForecastCompleted{Result: sampleResult()})

	v, _ = v.Update(messages.ResultsChanged{Trades: []domain.TransactionRecord{{AptNm: "A"}}})

	assert.Empty(t, v.Rows())
	assert.Contains(t, v.View(), "enter를 눌러")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", formatValue(nil))
	v := 9500.0
	assert.Equal(t, "9,500만원", formatValue(&v))
}
