package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	ToggleTheme key.Binding
	Refresh     key.Binding
	Recheck     key.Binding
	Continue    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh sleep"),
		),
		Recheck: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "recheck device"),
		),
		Continue: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
	}
}

// welcomeKeys is the reduced map shown before the welcome screen is dismissed.
func (k keyMap) welcomeKeys() keyMap {
	w := k
	w.Refresh.SetEnabled(false)
	w.Recheck.SetEnabled(false)
	return w
}

func (k keyMap) dashboardKeys() keyMap {
	d := k
	d.Continue.SetEnabled(false)
	return d
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Refresh, k.ToggleTheme, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Continue, k.Refresh, k.Recheck},
		{k.ToggleTheme, k.Help, k.Quit},
	}
}
