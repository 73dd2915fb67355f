package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Program bytes
	Push key.Binding
	Skip key.Binding
	Pop  key.Binding

	// Commands
	Flush key.Binding
	Reset key.Binding
	Copy  key.Binding
	Check key.Binding
	Help  key.Binding
	Esc   key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Push: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "push counter"),
		),
		Skip: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "skip counter"),
		),
		Pop: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "pop"),
		),
		Flush: key.NewBinding(
			key.WithKeys("f", "enter"),
			key.WithHelp("f", "flush and print"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy dump"),
		),
		Check: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "verify arena"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Push, k.Skip, k.Pop, k.Flush, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, one group per column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Push, k.Skip, k.Pop},
		{k.Flush, k.Reset, k.Check},
		{k.Copy, k.Help, k.Quit},
	}
}
