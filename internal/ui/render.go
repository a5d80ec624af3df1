package ui

import (
	"fmt"
	"time"

	"prism/internal/api"
)

// statusBadge renders a status with its lifecycle color.
func statusBadge(status api.Status) string {
	return statusStyle(string(status)).Render(status.Label())
}

// confidencePct formats a 0..1 confidence as a percentage.
func confidencePct(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}

// formatDuration renders durations compactly: 950ms, 2.3s, 1m05s.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}

// inputLabel styles a form label, highlighted while its field is focused.
func inputLabel(label string, focused bool) string {
	if focused {
		return Styles.Selected.Render(label)
	}
	return Styles.Muted.Render(label)
}
