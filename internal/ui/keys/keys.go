// Package keys defines the key bindings shared by every view.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the TUI responds to
type KeyMap struct {
	Quit  key.Binding
	Back  key.Binding
	Tab   key.Binding
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Help  key.Binding

	// Task list
	New            key.Binding
	Edit           key.Binding
	Delete         key.Binding
	Toggle         key.Binding
	Priority       key.Binding
	DueDate        key.Binding
	EstimateUp     key.Binding
	EstimateDown   key.Binding
	MoveGroup      key.Binding
	MoveUp         key.Binding
	MoveDown       key.Binding
	ToggleInbox    key.Binding
	ClearCompleted key.Binding
	Sort           key.Binding

	// Timer
	Timer     key.Binding
	StopTimer key.Binding

	// Screens
	Settings key.Binding
	Theme    key.Binding

	// Settings form
	Increase key.Binding
	Decrease key.Binding
	Reset    key.Binding
	Save     key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		New: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "done"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		DueDate: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "due date"),
		),
		EstimateUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "estimate"),
		),
		EstimateDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "estimate"),
		),
		MoveGroup: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "today/inbox"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		ToggleInbox: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "fold inbox"),
		),
		ClearCompleted: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear done"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "ai sort"),
		),

		Timer: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/pause"),
		),
		StopTimer: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stop"),
		),

		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),

		Increase: key.NewBinding(
			key.WithKeys("+", "=", "right", "l"),
			key.WithHelp("+/→", "increase"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-", "left", "h"),
			key.WithHelp("-/←", "decrease"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "defaults"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s", "enter"),
			key.WithHelp("↵", "save"),
		),
	}
}
