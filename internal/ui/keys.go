package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Tab      key.Binding
	Quit     key.Binding
	Search   key.Binding
	Filter   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	History  key.Binding
	MarkPaid key.Binding
	Export   key.Binding
	Refresh  key.Binding
	Month    key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch screen")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	History:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
	MarkPaid: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "mark paid")),
	Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Month:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month filter")),
}
