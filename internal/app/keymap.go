package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next          key.Binding
	Previous      key.Binding
	NextAlbum     key.Binding
	PreviousAlbum key.Binding
	Pause         key.Binding
	Stop          key.Binding
	Repeat        key.Binding
	Shuffle       key.Binding
	Continue      key.Binding
	Intro         key.Binding
	Select        key.Binding
	Play          key.Binding
	Remove        key.Binding
	Move          key.Binding
	Help          key.Binding
	Quit          key.Binding

	MountYes   key.Binding
	MountSkip  key.Binding
	MountAbort key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:          key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next")),
		Previous:      key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "previous")),
		NextAlbum:     key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "next album")),
		PreviousAlbum: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "previous album")),
		Pause:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Stop:          key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Repeat:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		Shuffle:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		Continue:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue")),
		Intro:         key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "intro")),
		Select:        key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "select")),
		Play:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Remove:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Move:          key.NewBinding(key.WithKeys("K", "J"), key.WithHelp("K/J", "move")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		MountYes:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "mount")),
		MountSkip:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip device")),
		MountAbort: key.NewBinding(key.WithKeys("a", "esc"), key.WithHelp("a", "abort")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Next, k.Previous, k.Play, k.Repeat, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Stop, k.Next, k.Previous, k.NextAlbum, k.PreviousAlbum},
		{k.Select, k.Play, k.Remove, k.Move},
		{k.Repeat, k.Shuffle, k.Continue, k.Intro},
		{k.Help, k.Quit},
	}
}

type promptKeyMap keyMap

func (k promptKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MountYes, k.MountSkip, k.MountAbort}
}

func (k promptKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
