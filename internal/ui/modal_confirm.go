package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"prism/internal/api"
)

// ConfirmModal is a generic confirmation modal. Enter or y confirms;
// Esc cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg
	// Cluster is set when the modal confirms an archive, so handlers and
	// tests can see what is about to be archived.
	Cluster api.Cluster
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a generic confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:     title,
		Label:     label,
		OnConfirm: onConfirm,
	}
}

// WithDetails adds warning details to the modal.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewArchiveClusterConfirmModal creates the confirmation shown before a
// whole cluster of emails is archived.
func NewArchiveClusterConfirmModal(sessionID string, cluster api.Cluster) *ConfirmModal {
	modal := NewConfirmModal(
		"Archive cluster?",
		fmt.Sprintf("Cluster: %s", cluster.Theme),
		func() tea.Msg {
			return ArchiveClusterMsg{SessionID: sessionID, ClusterID: cluster.ID}
		},
	)
	modal.Cluster = cluster
	details := fmt.Sprintf("%d email(s) will be archived", len(cluster.EmailIDs))
	if cluster.Action != "" {
		details += "\nSuggested: " + cluster.Action
	}
	return modal.WithDetails(details)
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Muted.Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return Styles.BoxDanger.Render(content)
}
