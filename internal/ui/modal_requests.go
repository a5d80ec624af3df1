package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"prism/internal/reqtrace"
	"prism/internal/ui/textutil"
)

// RequestsModal shows the recent backend requests, newest first. It reads
// the live log on every render, so requests that finish while the overlay
// is open show up immediately.
type RequestsModal struct {
	trace *reqtrace.Log
	width int
}

var _ View = (*RequestsModal)(nil)

func NewRequestsModal(trace *reqtrace.Log) *RequestsModal {
	return &RequestsModal{trace: trace}
}

func (m *RequestsModal) Init() tea.Cmd {
	return nil
}

func (m *RequestsModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return DismissModalMsg{} }
		}
	}
	return m, nil
}

func (m *RequestsModal) View() string {
	events := m.trace.Recent()

	pathWidth := 40
	if m.width > 100 {
		pathWidth = m.width - 60
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Backend requests (%d)", len(events))) + "\n\n")
	b.WriteString(Styles.Label.Render(fmt.Sprintf("%-8s %-6s %-*s %-5s %-8s %s",
		"TIME", "METHOD", pathWidth, "PATH", "CODE", "TOOK", "REQUEST")) + "\n")

	if len(events) == 0 {
		b.WriteString(Styles.Empty.Render("No requests yet.") + "\n")
	}
	for _, e := range events {
		line := fmt.Sprintf("%-8s %-6s %-*s %-5s %-8s %s",
			e.Start.Format("15:04:05"),
			e.Method,
			pathWidth, textutil.Truncate(e.Path, pathWidth),
			e.Outcome(),
			formatDuration(e.Duration),
			shortRequestID(e.RequestID),
		)
		if e.Failed() {
			line = Styles.Error.Render(line)
			if e.Err != "" {
				line += "\n" + Styles.Muted.Render("         "+textutil.Truncate(e.Err, pathWidth+20))
			}
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + Styles.Hint.Render("Esc: close"))
	return Styles.Box.Render(b.String())
}

// shortRequestID keeps the first uuid group, enough to grep server logs.
func shortRequestID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
