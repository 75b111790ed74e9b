package picker

import "github.com/charmbracelet/bubbles/key"

// Key bindings are a thin mapping layer over the dispatcher's actions; the
// action semantics live in internal/navigate.
type keyMap struct {
	Confirm       key.Binding
	Explore       key.Binding
	ExploreParent key.Binding
	Ancestors     key.Binding
	IncreaseDepth key.Binding
	DecreaseDepth key.Binding
	Rename        key.Binding
	CreateChild   key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Explore: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "explore"),
		),
		ExploreParent: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "parent"),
		),
		Ancestors: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "ancestors"),
		),
		IncreaseDepth: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "deeper"),
		),
		DecreaseDepth: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "shallower"),
		),
		Rename: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "rename"),
		),
		CreateChild: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new child"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "q"),
			key.WithHelp("esc", "quit"),
		),
	}
}
