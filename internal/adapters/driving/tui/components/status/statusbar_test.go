package status

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Nil(t, bar.Init())
}

func TestStatusBar_StartBusy(t *testing.T) {
	bar := NewBar(nil, nil)

	cmd := bar.StartBusy("실거래 조회 중…")

	assert.Equal(t, StateBusy, bar.State())
	assert.Equal(t, "실거래 조회 중…", bar.Message())
	assert.NotNil(t, cmd)
	assert.Contains(t, bar.View(), "실거래 조회 중…")
}

func TestStatusBar_StartBusy_AlreadyBusy(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.StartBusy("first")

	cmd := bar.StartBusy("second")

	assert.Nil(t, cmd, "a running spinner must not get a second tick loop")
	assert.Equal(t, "second", bar.Message())
}

func TestStatusBar_Update_IgnoresTicksWhenIdle(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(spinner.TickMsg{})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Update_IgnoresOtherMessages(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.StartBusy("busy")

	_, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestStatusBar_View_States(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(b *Bar)
		expect string
	}{
		{"ready", func(b *Bar) {}, "준비"},
		{"ready with message", func(b *Bar) { b.SetMessage("조회 완료") }, "조회 완료"},
		{"results", func(b *Bar) {
			b.SetState(StateResults)
			b.SetResultCount(42)
		}, "42건"},
		{"error", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("네트워크 오류")
		}, "오류: 네트워크 오류"},
		{"error without message", func(b *Bar) { b.SetState(StateError) }, "오류"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			assert.Contains(t, bar.View(), tt.expect)
		})
	}
}

func TestStatusBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	assert.Contains(t, bar.View(), "ctrl+c")

	bar.SetHints(km.FormHelp())
	view := bar.View()
	assert.Contains(t, view, "다음 항목")
	assert.Equal(t, 1, strings.Count(view, "enter"))

	bar.SetHints(nil)
	assert.NotContains(t, bar.View(), "다음 항목")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}
