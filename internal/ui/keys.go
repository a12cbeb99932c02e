package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the front panel.
type keyMap struct {
	Quit          key.Binding
	Help          key.Binding
	CycleTheme    key.Binding
	ToggleNetInfo key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleNetInfo: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Toggle network info"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleNetInfo, k.CycleTheme},
		{k.Help, k.Quit},
	}
}
