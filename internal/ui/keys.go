package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	// View switching
	ViewGallery     key.Binding
	ViewCart        key.Binding
	ViewDiagnostics key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Gallery
	Open          key.Binding
	Search        key.Binding
	CycleCategory key.Binding
	FetchCategory key.Binding
	Overview      key.Binding
	Refresh       key.Binding

	// Viewer
	NextPage  key.Binding
	PrevPage  key.Binding
	GoToPage  key.Binding
	AddToCart key.Binding

	// Cart
	Increase key.Binding
	Decrease key.Binding
	Remove   key.Binding
	Clear    key.Binding
	Checkout key.Binding

	// Diagnostics
	CycleLevel key.Binding

	// Modals and inputs
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		ViewGallery: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Gallery"),
		),
		ViewCart: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Cart"),
		),
		ViewDiagnostics: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Diagnostics"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open collection"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search titles"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle category filter"),
		),
		FetchCategory: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Fetch category from server"),
		),
		Overview: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Catalogue overview"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("n", "right", "l"),
			key.WithHelp("n/l", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left", "h"),
			key.WithHelp("p/h", "Previous page"),
		),
		GoToPage: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Go to page"),
		),
		AddToCart: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add to cart"),
		),

		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Increase quantity"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Decrease quantity"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove item"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear cart"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Book items"),
		),

		CycleLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Cycle level filter"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "No"),
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
		{k.Tab, k.ViewGallery, k.ViewCart, k.ViewDiagnostics, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.Search, k.CycleCategory, k.FetchCategory, k.Overview, k.Refresh},
		{k.NextPage, k.PrevPage, k.GoToPage, k.AddToCart},
		{k.Increase, k.Decrease, k.Remove, k.Clear, k.Checkout},
		{k.CycleLevel},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
