package tui

import "github.com/charmbracelet/bubbles/key"

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	SelectFiles key.Binding
	Process     key.Binding
	Download    key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	UpDown      key.Binding
	Enter       key.Binding
	Toggle      key.Binding
	Close       key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		SelectFiles: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "select files")),
		Process:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "process")),
		Download:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		NextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		UpDown:      key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("j/k", "scroll")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SelectFiles, k.Process, k.Download, k.NextTab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.SelectFiles, k.Process, k.Download, k.NextTab, k.PrevTab, k.UpDown, k.Quit}}
}

type pickerKeyMap struct {
	keyMap
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Enter, k.Close, k.UpDown, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Enter, k.Close, k.UpDown, k.Quit}}
}
