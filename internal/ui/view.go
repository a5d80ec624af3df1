package ui

import tea "github.com/charmbracelet/bubbletea"

// View is the unit of composition; implements Bubble Tea's Init/Update/View.
// Each View is one tool screen or modal with its own model, update, and view.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}

// InputCapturer is implemented by views that sometimes own the keyboard,
// e.g. while a text field is focused. While a view is capturing, app-level
// keybinds stay out of the way so typed characters reach the field.
type InputCapturer interface {
	CapturingInput() bool
}
