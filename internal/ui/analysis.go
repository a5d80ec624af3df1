package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prism/internal/api"
	"prism/internal/ui/textutil"
)

type analysisFocus int

const (
	analysisFocusURL analysisFocus = iota
	analysisFocusList
	analysisFocusQuestion
)

// analysisItem adapts an Analysis for the bubbles list.
type analysisItem struct {
	analysis api.Analysis
}

func (i analysisItem) FilterValue() string { return i.analysis.RepoURL }

func (i analysisItem) Title() string {
	return fmt.Sprintf("%s  [%s]", shortRepo(i.analysis.RepoURL), i.analysis.Status.Label())
}

func (i analysisItem) Description() string {
	s := i.analysis.Stats
	return fmt.Sprintf("%d files, %d commits, %d authors", s.Files, s.Commits, s.Authors)
}

// shortRepo reduces a clone URL to its owner/name tail.
func shortRepo(repoURL string) string {
	s := strings.TrimSuffix(strings.TrimSuffix(repoURL, "/"), ".git")
	parts := strings.Split(s, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return s
}

// AnalysisView is the repo analysis screen: submit a repository, watch it
// progress, then ask questions and pull reports once it completes.
type AnalysisView struct {
	urlInput      textinput.Model
	questionInput textinput.Model
	list          list.Model
	spinner       spinner.Model
	focus         analysisFocus

	Analyses  []api.Analysis
	Current   *api.Analysis
	Answer    *api.QueryResult
	Evolution *api.EvolutionReport
	Ownership *api.OwnershipReport
	Features  *api.FeatureReport

	// activeReport says which loaded report the detail pane shows.
	activeReport ReportKind
	hasReport    bool

	FormError string
	loading   bool

	// AnswerSeq orders query results so a slow answer cannot
	// overwrite a newer one.
	AnswerSeq int

	// Polling state for the analysis the screen is watching.
	Polling      bool
	PollGen      int
	PollAttempts int
	PollID       string

	width  int
	height int
}

func NewAnalysisView() *AnalysisView {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://github.com/owner/repo"
	urlInput.CharLimit = 256
	urlInput.Width = 48
	urlInput.Focus()

	questionInput := textinput.New()
	questionInput.Placeholder = "Where is authentication handled?"
	questionInput.CharLimit = 256
	questionInput.Width = 48

	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.Title = "Analyses"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue))

	return &AnalysisView{
		urlInput:      urlInput,
		questionInput: questionInput,
		list:          l,
		spinner:       sp,
		focus:         analysisFocusURL,
	}
}

func (v *AnalysisView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.spinner.Tick)
}

func (v *AnalysisView) CapturingInput() bool {
	return v.focus == analysisFocusURL || v.focus == analysisFocusQuestion
}

func (v *AnalysisView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.list.SetSize(v.listWidth(), max(height-8, 4))
}

func (v *AnalysisView) listWidth() int {
	w := v.width / 3
	if w < 28 {
		w = 28
	}
	if w > 44 {
		w = 44
	}
	return w
}

func (v *AnalysisView) SetLoading(loading bool) {
	v.loading = loading
}

// SetAnalyses replaces the list contents, keeping the cursor on the same
// analysis when it still exists.
func (v *AnalysisView) SetAnalyses(analyses []api.Analysis) {
	var selectedID string
	if sel := v.SelectedAnalysis(); sel != nil {
		selectedID = sel.ID
	}
	v.Analyses = analyses
	items := make([]list.Item, len(analyses))
	index := 0
	for i, a := range analyses {
		items[i] = analysisItem{analysis: a}
		if a.ID == selectedID {
			index = i
		}
	}
	v.list.SetItems(items)
	if len(items) > 0 {
		v.list.Select(index)
	}
}

// UpsertAnalysis replaces the matching row or appends a new one. When
// selectIt is set the cursor moves to the row and it becomes Current.
func (v *AnalysisView) UpsertAnalysis(a api.Analysis, selectIt bool) {
	found := -1
	for i := range v.Analyses {
		if v.Analyses[i].ID == a.ID {
			v.Analyses[i] = a
			found = i
			break
		}
	}
	if found == -1 {
		v.Analyses = append(v.Analyses, a)
		found = len(v.Analyses) - 1
	}
	items := make([]list.Item, len(v.Analyses))
	for i, each := range v.Analyses {
		items[i] = analysisItem{analysis: each}
	}
	v.list.SetItems(items)
	if selectIt {
		v.list.Select(found)
		v.SetCurrent(a)
	} else if v.Current != nil && v.Current.ID == a.ID {
		current := a
		v.Current = &current
	}
}

// SetCurrent switches the detail pane to the given analysis. Moving to a
// different analysis drops the previous answer and reports.
func (v *AnalysisView) SetCurrent(a api.Analysis) {
	if v.Current == nil || v.Current.ID != a.ID {
		v.Answer = nil
		v.Evolution = nil
		v.Ownership = nil
		v.Features = nil
		v.hasReport = false
	}
	current := a
	v.Current = &current
}

func (v *AnalysisView) SetAnswer(result api.QueryResult) {
	answer := result
	v.Answer = &answer
}

func (v *AnalysisView) SetEvolution(report api.EvolutionReport) {
	v.Evolution = &report
	v.activeReport = ReportEvolution
	v.hasReport = true
}

func (v *AnalysisView) SetOwnership(report api.OwnershipReport) {
	v.Ownership = &report
	v.activeReport = ReportOwnership
	v.hasReport = true
}

func (v *AnalysisView) SetFeatures(report api.FeatureReport) {
	v.Features = &report
	v.activeReport = ReportFeatures
	v.hasReport = true
}

func (v *AnalysisView) SelectedAnalysis() *api.Analysis {
	item, ok := v.list.SelectedItem().(analysisItem)
	if !ok {
		return nil
	}
	analysis := item.analysis
	return &analysis
}

func (v *AnalysisView) Update(msg tea.Msg) (View, tea.Cmd) {
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

func (v *AnalysisView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return v, v.cycleFocus(1)
	case "shift+tab":
		return v, v.cycleFocus(-1)
	case "enter":
		return v.submit()
	}

	switch v.focus {
	case analysisFocusURL:
		v.FormError = ""
		var cmd tea.Cmd
		v.urlInput, cmd = v.urlInput.Update(msg)
		return v, cmd
	case analysisFocusQuestion:
		v.FormError = ""
		var cmd tea.Cmd
		v.questionInput, cmd = v.questionInput.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "r":
		return v, func() tea.Msg { return RefreshAnalysesMsg{} }
	case "e", "o", "f":
		return v.requestReport(msg.String())
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *AnalysisView) cycleFocus(dir int) tea.Cmd {
	v.FormError = ""
	next := (int(v.focus) + dir + 3) % 3
	v.focus = analysisFocus(next)
	v.urlInput.Blur()
	v.questionInput.Blur()
	switch v.focus {
	case analysisFocusURL:
		v.urlInput.Focus()
		return textinput.Blink
	case analysisFocusQuestion:
		v.questionInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (v *AnalysisView) submit() (View, tea.Cmd) {
	switch v.focus {
	case analysisFocusURL:
		repoURL := strings.TrimSpace(v.urlInput.Value())
		if repoURL == "" {
			v.FormError = "repository URL is required"
			return v, nil
		}
		v.FormError = ""
		return v, func() tea.Msg { return SubmitRepoMsg{URL: repoURL} }
	case analysisFocusList:
		sel := v.SelectedAnalysis()
		if sel == nil {
			return v, nil
		}
		id := sel.ID
		return v, func() tea.Msg { return SelectAnalysisMsg{ID: id} }
	case analysisFocusQuestion:
		question := strings.TrimSpace(v.questionInput.Value())
		if question == "" {
			v.FormError = "question is required"
			return v, nil
		}
		if v.Current == nil {
			v.FormError = "select an analysis first"
			return v, nil
		}
		v.FormError = ""
		id := v.Current.ID
		return v, func() tea.Msg { return AskRepoMsg{AnalysisID: id, Question: question} }
	}
	return v, nil
}

func (v *AnalysisView) requestReport(key string) (View, tea.Cmd) {
	if v.Current == nil {
		v.FormError = "select an analysis first"
		return v, nil
	}
	var kind ReportKind
	switch key {
	case "e":
		kind = ReportEvolution
	case "o":
		kind = ReportOwnership
	case "f":
		kind = ReportFeatures
	}
	v.FormError = ""
	id := v.Current.ID
	return v, func() tea.Msg { return LoadReportMsg{AnalysisID: id, Kind: kind} }
}

func (v *AnalysisView) View() string {
	left := v.renderList()
	right := v.renderDetail()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	var b strings.Builder
	b.WriteString(v.renderForm())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("tab: focus   enter: submit/select   r: refresh   e/o/f: evolution/ownership/features"))
	return b.String()
}

func (v *AnalysisView) renderForm() string {
	var b strings.Builder
	b.WriteString(inputLabel("Repository URL", v.focus == analysisFocusURL))
	if v.loading {
		b.WriteString("  " + v.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(v.urlInput.View())
	if v.FormError != "" {
		b.WriteString("\n" + Styles.Error.Render(v.FormError))
	}
	return b.String()
}

func (v *AnalysisView) renderList() string {
	if len(v.Analyses) == 0 {
		return Styles.Box.Width(v.listWidth()).Render(Styles.Empty.Render("No analyses yet.\nSubmit a repository URL."))
	}
	return v.list.View()
}

func (v *AnalysisView) renderDetail() string {
	detailWidth := v.width - v.listWidth() - 4
	if detailWidth < 30 {
		detailWidth = 30
	}
	if v.Current == nil {
		return Styles.Box.Width(detailWidth).Render(Styles.Empty.Render("Select an analysis to inspect it."))
	}

	a := v.Current
	var b strings.Builder
	b.WriteString(Styles.Label.Render("Repo   ") + textutil.Truncate(a.RepoURL, detailWidth-10) + "\n")
	b.WriteString(Styles.Label.Render("Status ") + statusBadge(a.Status))
	b.WriteString(fmt.Sprintf("   %d files, %d commits, %d authors\n", a.Stats.Files, a.Stats.Commits, a.Stats.Authors))
	if a.Error != "" {
		b.WriteString(Styles.Error.Render(textutil.Truncate(a.Error, detailWidth-4)) + "\n")
	}
	if a.Summary != "" {
		b.WriteString(Styles.Section.Render("Summary") + "\n")
		b.WriteString(lipgloss.NewStyle().Width(detailWidth-4).Render(a.Summary) + "\n")
	}

	b.WriteString("\n" + inputLabel("Question", v.focus == analysisFocusQuestion) + "\n")
	b.WriteString(v.questionInput.View() + "\n")
	if v.Answer != nil {
		b.WriteString(v.renderAnswer(detailWidth - 4))
	}
	if v.hasReport {
		b.WriteString(v.renderReport(detailWidth - 4))
	}
	return Styles.Box.Width(detailWidth).Render(b.String())
}

func (v *AnalysisView) renderAnswer(width int) string {
	var b strings.Builder
	b.WriteString(Styles.Section.Render(fmt.Sprintf("Answer (%s confident)", confidencePct(v.Answer.Confidence))) + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(v.Answer.Answer) + "\n")
	if len(v.Answer.Sources) > 0 {
		b.WriteString(Styles.Label.Render("Sources") + "\n")
		for i, src := range v.Answer.Sources {
			if i >= 3 {
				b.WriteString(Styles.Muted.Render(fmt.Sprintf("  … %d more", len(v.Answer.Sources)-3)) + "\n")
				break
			}
			b.WriteString(fmt.Sprintf("  %s (%.2f)\n", textutil.Truncate(src.Path, width-10), src.Score))
		}
	}
	if len(v.Answer.Related) > 0 {
		b.WriteString(Styles.Label.Render("Related") + "\n")
		for _, q := range v.Answer.Related {
			b.WriteString("  " + textutil.Truncate(q, width-2) + "\n")
		}
	}
	return b.String()
}

func (v *AnalysisView) renderReport(width int) string {
	var b strings.Builder
	switch v.activeReport {
	case ReportEvolution:
		if v.Evolution == nil {
			return ""
		}
		b.WriteString(Styles.Section.Render("Evolution") + "\n")
		for _, p := range v.Evolution.Periods {
			b.WriteString(fmt.Sprintf("  %s (%d commits) %s\n",
				p.Period, p.Commits, textutil.Truncate(p.Summary, width-24)))
		}
	case ReportOwnership:
		if v.Ownership == nil {
			return ""
		}
		b.WriteString(Styles.Section.Render("Ownership") + "\n")
		for _, e := range v.Ownership.Entries {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				textutil.PadRightVisual(textutil.Truncate(e.Path, 28), 28),
				textutil.PadRightVisual(e.Author, 16),
				confidencePct(e.Share)))
		}
	case ReportFeatures:
		if v.Features == nil {
			return ""
		}
		b.WriteString(Styles.Section.Render("Features") + "\n")
		for _, f := range v.Features.Features {
			b.WriteString(fmt.Sprintf("  %s: %s (%d files)\n",
				f.Name, textutil.Truncate(f.Description, width-len(f.Name)-14), len(f.Files)))
		}
	}
	return b.String()
}
