package ui

// AppMode is the top-level application mode: the home screen or one of the
// five tools.
type AppMode int

const (
	ModeHome AppMode = iota
	ModeAnalysis
	ModeGraph
	ModeInbox
	ModeSlides
	ModeMemory
)

func (m AppMode) String() string {
	switch m {
	case ModeHome:
		return "Home"
	case ModeAnalysis:
		return "Repo Analysis"
	case ModeGraph:
		return "Knowledge Graph"
	case ModeInbox:
		return "Inbox Triage"
	case ModeSlides:
		return "Voice to Slides"
	case ModeMemory:
		return "Visual Memory"
	default:
		return "Unknown"
	}
}

// toolModes lists the tool screens in home-screen order.
var toolModes = []AppMode{ModeAnalysis, ModeGraph, ModeInbox, ModeSlides, ModeMemory}
