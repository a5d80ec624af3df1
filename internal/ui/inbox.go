package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prism/internal/api"
	"prism/internal/ui/textutil"
)

type inboxFocus int

const (
	inboxFocusAddress inboxFocus = iota
	inboxFocusToken
	inboxFocusBrowse
)

const inboxFocusCount = 3

// InboxView is the inbox triage screen: authenticate a mailbox, fetch
// recent mail, cluster it by theme, and archive whole clusters.
type InboxView struct {
	addressInput textinput.Model
	tokenInput   textinput.Model
	spinner      spinner.Model
	focus        inboxFocus

	Session  *api.InboxSession
	Emails   []api.Email
	Clusters []api.Cluster
	cursor   int

	FormError string
	loading   bool

	// FetchSeq and ClusterSeq order responses per operation so a stale
	// fetch or clustering result is dropped.
	FetchSeq   int
	ClusterSeq int

	width  int
	height int
}

func NewInboxView() *InboxView {
	addressInput := textinput.New()
	addressInput.Placeholder = "you@example.com"
	addressInput.CharLimit = 120
	addressInput.Width = 32
	addressInput.Focus()

	tokenInput := textinput.New()
	tokenInput.Placeholder = "provider token"
	tokenInput.CharLimit = 200
	tokenInput.Width = 32
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue))

	return &InboxView{
		addressInput: addressInput,
		tokenInput:   tokenInput,
		spinner:      sp,
		focus:        inboxFocusAddress,
	}
}

func (v *InboxView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.spinner.Tick)
}

func (v *InboxView) CapturingInput() bool {
	return v.focus == inboxFocusAddress || v.focus == inboxFocusToken
}

func (v *InboxView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *InboxView) SetLoading(loading bool) {
	v.loading = loading
}

// SetSession stores the authenticated session and moves focus to the
// browse pane. The token itself is gone; only the session id remains.
func (v *InboxView) SetSession(session api.InboxSession) {
	s := session
	v.Session = &s
	v.tokenInput.SetValue("")
	v.focus = inboxFocusBrowse
	v.addressInput.Blur()
	v.tokenInput.Blur()
}

func (v *InboxView) SetEmails(emails []api.Email) {
	v.Emails = emails
}

// SetClusters replaces the cluster set and clamps the cursor.
func (v *InboxView) SetClusters(clusters []api.Cluster) {
	v.Clusters = clusters
	if v.cursor >= len(clusters) {
		v.cursor = max(len(clusters)-1, 0)
	}
}

// MarkClusterArchived patches exactly the archived cluster, leaving the
// rest untouched.
func (v *InboxView) MarkClusterArchived(clusterID string, result api.ArchiveResult) {
	for i := range v.Clusters {
		if v.Clusters[i].ID == clusterID {
			v.Clusters[i].Archived = true
			at := result.ArchivedAt
			v.Clusters[i].ArchivedAt = &at
			return
		}
	}
}

func (v *InboxView) SelectedCluster() *api.Cluster {
	if v.cursor < 0 || v.cursor >= len(v.Clusters) {
		return nil
	}
	cluster := v.Clusters[v.cursor]
	return &cluster
}

func (v *InboxView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *InboxView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		v.moveFocus(1)
		return v, textinput.Blink
	case "shift+tab":
		v.moveFocus(-1)
		return v, textinput.Blink
	case "enter":
		if v.focus == inboxFocusAddress || v.focus == inboxFocusToken {
			return v.submitAuth()
		}
		return v, nil
	}

	switch v.focus {
	case inboxFocusAddress:
		v.FormError = ""
		var cmd tea.Cmd
		v.addressInput, cmd = v.addressInput.Update(msg)
		return v, cmd
	case inboxFocusToken:
		v.FormError = ""
		var cmd tea.Cmd
		v.tokenInput, cmd = v.tokenInput.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "f":
		if v.Session == nil {
			v.FormError = "authenticate first"
			return v, nil
		}
		return v, func() tea.Msg { return FetchEmailsMsg{} }
	case "c":
		if v.Session == nil {
			v.FormError = "authenticate first"
			return v, nil
		}
		if len(v.Emails) == 0 {
			v.FormError = "fetch emails first"
			return v, nil
		}
		return v, func() tea.Msg { return ClusterEmailsMsg{} }
	case "j", "down":
		if v.cursor < len(v.Clusters)-1 {
			v.cursor++
		}
		return v, nil
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil
	case "a":
		cluster := v.SelectedCluster()
		if cluster == nil {
			return v, nil
		}
		if cluster.Archived {
			v.FormError = "cluster already archived"
			return v, nil
		}
		v.FormError = ""
		c := *cluster
		return v, func() tea.Msg { return ShowArchiveClusterMsg{Cluster: c} }
	}
	return v, nil
}

func (v *InboxView) moveFocus(dir int) {
	v.FormError = ""
	v.focus = inboxFocus((int(v.focus) + dir + inboxFocusCount) % inboxFocusCount)
	v.addressInput.Blur()
	v.tokenInput.Blur()
	switch v.focus {
	case inboxFocusAddress:
		v.addressInput.Focus()
	case inboxFocusToken:
		v.tokenInput.Focus()
	}
}

func (v *InboxView) submitAuth() (View, tea.Cmd) {
	address := strings.TrimSpace(v.addressInput.Value())
	token := strings.TrimSpace(v.tokenInput.Value())
	if address == "" {
		v.FormError = "email address is required"
		return v, nil
	}
	if !strings.Contains(address, "@") {
		v.FormError = "that does not look like an email address"
		return v, nil
	}
	if token == "" {
		v.FormError = "provider token is required"
		return v, nil
	}
	v.FormError = ""
	return v, func() tea.Msg { return SubmitInboxAuthMsg{Address: address, Token: token} }
}

func (v *InboxView) View() string {
	var b strings.Builder
	b.WriteString(v.renderAuth())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, v.renderEmails(), " ", v.renderClusters()))
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("tab: focus   f: fetch   c: cluster   j/k: move   a: archive cluster"))
	return b.String()
}

func (v *InboxView) renderAuth() string {
	var b strings.Builder
	if v.Session != nil {
		b.WriteString(Styles.Status.Render("● " + v.Session.Address))
		b.WriteString(Styles.Muted.Render("  via " + v.Session.Provider))
	} else {
		b.WriteString(inputLabel("Address", v.focus == inboxFocusAddress))
		b.WriteString("  ")
		b.WriteString(inputLabel("Token", v.focus == inboxFocusToken))
	}
	if v.loading {
		b.WriteString("  " + v.spinner.View())
	}
	b.WriteString("\n")
	if v.Session == nil {
		b.WriteString(v.addressInput.View() + "  " + v.tokenInput.View())
		b.WriteString("\n")
	}
	if v.FormError != "" {
		b.WriteString(Styles.Error.Render(v.FormError))
	}
	return b.String()
}

func (v *InboxView) emailsWidth() int {
	w := v.width / 2
	if w < 36 {
		w = 36
	}
	return w
}

func (v *InboxView) renderEmails() string {
	width := v.emailsWidth()
	inner := width - 4
	var b strings.Builder
	b.WriteString(Styles.Section.Render(fmt.Sprintf("Emails (%d)", len(v.Emails))) + "\n")
	if len(v.Emails) == 0 {
		b.WriteString(Styles.Empty.Render("Nothing fetched yet."))
	}
	maxRows := max(v.height-12, 4)
	for i, e := range v.Emails {
		if i >= maxRows {
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("… %d more", len(v.Emails)-i)))
			break
		}
		b.WriteString(priorityTag(e.Priority))
		b.WriteString(" " + textutil.Truncate(e.Subject, inner-18) + "\n")
		b.WriteString("  " + Styles.Muted.Render(textutil.Truncate(e.From+"  "+e.Date.Format("Jan 2 15:04"), inner-2)) + "\n")
	}
	return Styles.Box.Width(width).Render(b.String())
}

func priorityTag(priority string) string {
	switch priority {
	case "high":
		return Styles.Warning.Render("[high]")
	case "low":
		return Styles.Muted.Render("[low] ")
	default:
		return Styles.Normal.Render("[med] ")
	}
}

func (v *InboxView) renderClusters() string {
	width := v.width - v.emailsWidth() - 4
	if width < 32 {
		width = 32
	}
	inner := width - 4
	var b strings.Builder
	b.WriteString(Styles.Section.Render(fmt.Sprintf("Clusters (%d)", len(v.Clusters))) + "\n")
	if len(v.Clusters) == 0 {
		b.WriteString(Styles.Empty.Render("Press c to cluster fetched mail."))
	}
	for i, c := range v.Clusters {
		line := fmt.Sprintf("%s (%d emails, %s)", c.Theme, len(c.EmailIDs), confidencePct(c.Confidence))
		line = textutil.Truncate(line, inner-2)
		cursor := "  "
		if i == v.cursor && v.focus == inboxFocusBrowse {
			cursor = "> "
			line = Styles.Selected.Render(line)
		}
		b.WriteString(cursor + line + "\n")
		action := "  → " + c.Action
		if c.Archived {
			action = "  archived"
		}
		b.WriteString(Styles.Muted.Render(textutil.Truncate(action, inner)) + "\n")
	}
	return Styles.Box.Width(width).Render(b.String())
}
