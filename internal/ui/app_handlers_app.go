package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleSwitchTool handles SwitchToolMsg by creating a fresh view for the
// tool. The previous tool view is dropped; responses still in flight for
// it fail the handlers' mode, generation, or sequence guards.
func (a *appModelAdapter) handleSwitchTool(msg SwitchToolMsg) (tea.Model, tea.Cmd) {
	a.Status = ""
	a.StatusIsError = false
	a.Mode = msg.Mode
	width, height := a.width, a.contentHeight()

	switch msg.Mode {
	case ModeAnalysis:
		view := NewAnalysisView()
		view.SetSize(width, height)
		view.SetLoading(true)
		a.Analysis = view
		return a, tea.Batch(view.Init(), loadAnalysesCmd(a.Client))
	case ModeGraph:
		view := NewGraphView()
		view.SetSize(width, height)
		view.SetLoading(true)
		a.Graph = view
		return a, tea.Batch(view.Init(), loadGraphProjectsCmd(a.Client))
	case ModeInbox:
		view := NewInboxView()
		view.SetSize(width, height)
		a.Inbox = view
		return a, view.Init()
	case ModeSlides:
		view := NewSlidesView()
		view.SetSize(width, height)
		// The recorder is app-owned, so a capture started here earlier
		// may still be running.
		if a.Recorder != nil {
			view.SetRecording(a.Recorder.Running())
		}
		a.Slides = view
		return a, view.Init()
	case ModeMemory:
		view := NewMemoryView()
		view.SetSize(width, height)
		view.SetLoading(true)
		a.Memory = view
		return a, tea.Batch(view.Init(), loadImagesCmd(a.Client))
	}

	a.Mode = ModeHome
	return a, nil
}

// handleShowHome handles ShowHomeMsg by returning to the home screen and
// discarding every tool view.
func (a *appModelAdapter) handleShowHome() (tea.Model, tea.Cmd) {
	a.Status = ""
	a.StatusIsError = false
	a.Mode = ModeHome
	a.Analysis = nil
	a.Graph = nil
	a.Inbox = nil
	a.Slides = nil
	a.Memory = nil
	return a, nil
}

// handleShowRequests handles ShowRequestsMsg by opening the request
// telemetry overlay.
func (a *appModelAdapter) handleShowRequests() (tea.Model, tea.Cmd) {
	if a.Trace == nil {
		return a, nil
	}
	if top, ok := a.Overlays.Peek(); ok {
		if _, already := top.View.(*RequestsModal); already {
			return a, nil
		}
	}
	modal := NewRequestsModal(a.Trace)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleDismissModal handles DismissModalMsg by closing the top overlay.
func (a *appModelAdapter) handleDismissModal() (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	return a, nil
}
