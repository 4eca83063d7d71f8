package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the variable editor
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Activate   key.Binding
	ToggleView key.Binding
	NewVar     key.Binding
	AddKey     key.Binding
	AddItem    key.Binding
	Delete     key.Binding
	Edit       key.Binding
	Rename     key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Search     key.Binding
	Types      key.Binding
	NextScope  key.Binding
	PrevScope  key.Binding
	Range      key.Binding
	Older      key.Binding
	Newer      key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Activate, k.ToggleView},
		{k.NewVar, k.AddKey, k.AddItem, k.Delete, k.Edit, k.Rename, k.MoveUp, k.MoveDown},
		{k.Search, k.Types, k.NextScope, k.PrevScope, k.Range, k.Older, k.Newer, k.Refresh},
		{k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("ctrl+u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("ctrl+d", "page down"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "expand/toggle"),
	),
	ToggleView: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "card/json view"),
	),
	NewVar: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new variable"),
	),
	AddKey: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add key"),
	),
	AddItem: key.NewBinding(
		key.WithKeys("+"),
		key.WithHelp("+", "add item"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d", "delete"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "move item up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "move item down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "keyword"),
	),
	Types: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "toggle type"),
	),
	NextScope: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next scope"),
	),
	PrevScope: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev scope"),
	),
	Range: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "floor range"),
	),
	Older: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "older floors"),
	),
	Newer: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "newer floors"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
