package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// toolEntry describes one tool on the home screen.
type toolEntry struct {
	Mode  AppMode
	Blurb string
}

type toolItem struct {
	toolEntry
	index int
}

func (t toolItem) FilterValue() string { return t.Mode.String() }
func (t toolItem) Title() string {
	return fmt.Sprintf("%d  %s: %s", t.index+1, t.Mode.String(), t.Blurb)
}
func (t toolItem) Description() string { return "" }

// HomeView lists the five tools. Enter or a digit opens one.
type HomeView struct {
	list  list.Model
	tools []toolEntry
}

var _ View = (*HomeView)(nil)

// toolBlurb is the one-line home-screen summary of a tool.
func toolBlurb(mode AppMode) string {
	switch mode {
	case ModeAnalysis:
		return "ask questions about a git repository"
	case ModeGraph:
		return "build a knowledge graph from documents"
	case ModeInbox:
		return "cluster and archive email by theme"
	case ModeSlides:
		return "turn a voice memo into a slide deck"
	case ModeMemory:
		return "search screenshots by description"
	}
	return ""
}

// NewHomeView creates the home screen. toolModes fixes the ordering, so the
// digit shortcuts here match the list rows.
func NewHomeView() *HomeView {
	tools := make([]toolEntry, len(toolModes))
	for i, mode := range toolModes {
		tools[i] = toolEntry{Mode: mode, Blurb: toolBlurb(mode)}
	}

	items := make([]list.Item, len(tools))
	for i, tool := range tools {
		items[i] = toolItem{toolEntry: tool, index: i}
	}

	l := list.New(items, NewCompactListDelegate(), 0, 0)
	l.Title = "Tools"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title

	return &HomeView{list: l, tools: tools}
}

// Init implements View.
func (h *HomeView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (h *HomeView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.list.SetWidth(msg.Width)
		h.list.SetHeight(msg.Height - 6)
		return h, nil
	case tea.KeyMsg:
		s := msg.String()
		if s >= "1" && s <= "5" {
			idx := int(s[0] - '1')
			if idx < len(h.tools) {
				mode := h.tools[idx].Mode
				return h, func() tea.Msg { return SwitchToolMsg{Mode: mode} }
			}
		}
		if s == "enter" {
			idx := h.list.Index()
			if idx >= 0 && idx < len(h.tools) {
				mode := h.tools[idx].Mode
				return h, func() tea.Msg { return SwitchToolMsg{Mode: mode} }
			}
		}
	}

	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return h, cmd
}

// View implements View.
func (h *HomeView) View() string {
	if h.list.Width() == 0 {
		h.list.SetWidth(80)
	}
	if h.list.Height() == 0 {
		h.list.SetHeight(12)
	}

	var b strings.Builder
	b.WriteString(h.list.View())
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("Enter/1-5: open tool   SPC: commands"))
	return b.String()
}
