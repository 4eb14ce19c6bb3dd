// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application and releases the map.
	Quit key.Binding

	// NextTab moves to the next tab.
	NextTab key.Binding

	// PrevTab moves to the previous tab.
	PrevTab key.Binding

	// TabQuery, TabMap, TabForecast and TabChat jump to a tab.
	TabQuery    key.Binding
	TabMap      key.Binding
	TabForecast key.Binding
	TabChat     key.Binding

	// Submit triggers the active tab's action.
	Submit key.Binding

	// NextField moves focus to the next form field.
	NextField key.Binding

	// PrevField moves focus to the previous form field.
	PrevField key.Binding

	// Up navigates up in a list or picker.
	Up key.Binding

	// Down navigates down in a list or picker.
	Down key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "종료"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "다음 탭"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "이전 탭"),
		),
		TabQuery: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "조회"),
		),
		TabMap: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "지도"),
		),
		TabForecast: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("f3", "예측"),
		),
		TabChat: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("f4", "AI 질의"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "실행"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "다음 항목"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "이전 항목"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "위"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "아래"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextTab, k.Quit}
}

// FormHelp returns keybindings for the query form.
func (k *KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Up, k.Submit, k.NextTab, k.Quit}
}

// FullHelp returns the full list of keybindings.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TabQuery, k.TabMap, k.TabForecast, k.TabChat},
		{k.NextTab, k.PrevTab, k.NextField, k.PrevField},
		{k.Up, k.Down, k.Submit, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
