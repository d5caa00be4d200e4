package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings for the order browser.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// Views
	ViewOrders key.Binding
	ViewLogs   key.Binding
	Tab        key.Binding

	// Orders
	CycleFilter key.Binding
	Open        key.Binding
	CancelOrder key.Binding
	SubmitOrder key.Binding

	// Logs
	ToggleLevel key.Binding

	// Confirmation prompt
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("?", "help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ViewOrders: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "orders"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "logs"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus table/detail"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "status filter"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load detail"),
		),
		CancelOrder: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel order"),
		),
		SubmitOrder: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit order"),
		),
		ToggleLevel: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "warnings only"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "abort"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CycleFilter, k.Open, k.CancelOrder, k.SubmitOrder, k.ViewLogs, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CycleFilter, k.Open, k.Refresh, k.Tab},
		{k.CancelOrder, k.SubmitOrder, k.Confirm, k.Deny},
		{k.ViewOrders, k.ViewLogs, k.ToggleLevel, k.Escape},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
