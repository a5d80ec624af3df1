package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prism/internal/api"
	"prism/internal/ui/textutil"
)

type graphFocus int

const (
	graphFocusName graphFocus = iota
	graphFocusDesc
	graphFocusList
	graphFocusSource
	graphFocusQuestion
)

const graphFocusCount = 5

type graphProjectItem struct {
	project api.GraphProject
}

func (i graphProjectItem) FilterValue() string { return i.project.Name }

func (i graphProjectItem) Title() string {
	return fmt.Sprintf("%s  [%s]", i.project.Name, i.project.Status.Label())
}

func (i graphProjectItem) Description() string {
	s := i.project.Stats
	return fmt.Sprintf("%d docs, %d nodes, %d edges", s.Documents, s.Nodes, s.Edges)
}

// GraphView is the knowledge graph screen: create projects, feed them
// documents and pages, build the graph, then query and visualize it.
type GraphView struct {
	nameInput     textinput.Model
	descInput     textinput.Model
	sourceInput   textinput.Model
	questionInput textinput.Model
	list          list.Model
	spinner       spinner.Model
	focus         graphFocus

	Projects   []api.GraphProject
	Current    *api.GraphProject
	LastIngest *api.IngestResult
	Answer     *api.GraphAnswer
	Viz        *api.Visualization

	FormError string
	loading   bool

	AnswerSeq int

	Polling      bool
	PollGen      int
	PollAttempts int
	PollID       string

	width  int
	height int
}

func NewGraphView() *GraphView {
	nameInput := textinput.New()
	nameInput.Placeholder = "project name"
	nameInput.CharLimit = 80
	nameInput.Width = 32
	nameInput.Focus()

	descInput := textinput.New()
	descInput.Placeholder = "what this graph is about (optional)"
	descInput.CharLimit = 200
	descInput.Width = 48

	sourceInput := textinput.New()
	sourceInput.Placeholder = "./notes.md or https://example.com/page"
	sourceInput.CharLimit = 256
	sourceInput.Width = 48

	questionInput := textinput.New()
	questionInput.Placeholder = "How do the pieces relate?"
	questionInput.CharLimit = 256
	questionInput.Width = 48

	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue))

	return &GraphView{
		nameInput:     nameInput,
		descInput:     descInput,
		sourceInput:   sourceInput,
		questionInput: questionInput,
		list:          l,
		spinner:       sp,
		focus:         graphFocusName,
	}
}

func (v *GraphView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.spinner.Tick)
}

func (v *GraphView) CapturingInput() bool {
	return v.focus != graphFocusList
}

func (v *GraphView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.list.SetSize(v.listWidth(), max(height-10, 4))
}

func (v *GraphView) listWidth() int {
	w := v.width / 3
	if w < 26 {
		w = 26
	}
	if w > 40 {
		w = 40
	}
	return w
}

func (v *GraphView) SetLoading(loading bool) {
	v.loading = loading
}

func (v *GraphView) SetProjects(projects []api.GraphProject) {
	var selectedID string
	if sel := v.SelectedProject(); sel != nil {
		selectedID = sel.ID
	}
	v.Projects = projects
	items := make([]list.Item, len(projects))
	index := 0
	for i, p := range projects {
		items[i] = graphProjectItem{project: p}
		if p.ID == selectedID {
			index = i
		}
	}
	v.list.SetItems(items)
	if len(items) > 0 {
		v.list.Select(index)
	}
}

func (v *GraphView) UpsertProject(p api.GraphProject, selectIt bool) {
	found := -1
	for i := range v.Projects {
		if v.Projects[i].ID == p.ID {
			v.Projects[i] = p
			found = i
			break
		}
	}
	if found == -1 {
		v.Projects = append(v.Projects, p)
		found = len(v.Projects) - 1
	}
	items := make([]list.Item, len(v.Projects))
	for i, each := range v.Projects {
		items[i] = graphProjectItem{project: each}
	}
	v.list.SetItems(items)
	if selectIt {
		v.list.Select(found)
		v.SetCurrent(p)
	} else if v.Current != nil && v.Current.ID == p.ID {
		current := p
		v.Current = &current
	}
}

func (v *GraphView) SetCurrent(p api.GraphProject) {
	if v.Current == nil || v.Current.ID != p.ID {
		v.LastIngest = nil
		v.Answer = nil
		v.Viz = nil
	}
	current := p
	v.Current = &current
}

func (v *GraphView) SetIngest(result api.IngestResult) {
	ingest := result
	v.LastIngest = &ingest
	v.sourceInput.SetValue("")
}

func (v *GraphView) SetAnswer(answer api.GraphAnswer) {
	a := answer
	v.Answer = &a
}

func (v *GraphView) SetViz(viz api.Visualization) {
	vz := viz
	sort.SliceStable(vz.Nodes, func(i, j int) bool {
		return vz.Nodes[i].Degree > vz.Nodes[j].Degree
	})
	v.Viz = &vz
}

func (v *GraphView) SelectedProject() *api.GraphProject {
	item, ok := v.list.SelectedItem().(graphProjectItem)
	if !ok {
		return nil
	}
	project := item.project
	return &project
}

func (v *GraphView) Update(msg tea.Msg) (View, tea.Cmd) {
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

func (v *GraphView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return v, v.cycleFocus(1)
	case "shift+tab":
		return v, v.cycleFocus(-1)
	case "enter":
		return v.submit()
	}

	if input := v.focusedInput(); input != nil {
		v.FormError = ""
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "r":
		return v, func() tea.Msg { return RefreshGraphProjectsMsg{} }
	case "b":
		if v.Current == nil {
			v.FormError = "select a project first"
			return v, nil
		}
		id := v.Current.ID
		return v, func() tea.Msg { return TriggerBuildMsg{ProjectID: id} }
	case "v":
		if v.Current == nil {
			v.FormError = "select a project first"
			return v, nil
		}
		id := v.Current.ID
		return v, func() tea.Msg { return LoadVizMsg{ProjectID: id} }
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *GraphView) focusedInput() *textinput.Model {
	switch v.focus {
	case graphFocusName:
		return &v.nameInput
	case graphFocusDesc:
		return &v.descInput
	case graphFocusSource:
		return &v.sourceInput
	case graphFocusQuestion:
		return &v.questionInput
	}
	return nil
}

func (v *GraphView) cycleFocus(dir int) tea.Cmd {
	v.FormError = ""
	next := (int(v.focus) + dir + graphFocusCount) % graphFocusCount
	v.focus = graphFocus(next)
	v.nameInput.Blur()
	v.descInput.Blur()
	v.sourceInput.Blur()
	v.questionInput.Blur()
	if input := v.focusedInput(); input != nil {
		input.Focus()
		return textinput.Blink
	}
	return nil
}

func (v *GraphView) submit() (View, tea.Cmd) {
	switch v.focus {
	case graphFocusName, graphFocusDesc:
		name := strings.TrimSpace(v.nameInput.Value())
		if name == "" {
			v.FormError = "project name is required"
			return v, nil
		}
		v.FormError = ""
		description := strings.TrimSpace(v.descInput.Value())
		return v, func() tea.Msg {
			return SubmitGraphProjectMsg{Name: name, Description: description}
		}
	case graphFocusList:
		sel := v.SelectedProject()
		if sel == nil {
			return v, nil
		}
		id := sel.ID
		return v, func() tea.Msg { return SelectGraphProjectMsg{ID: id} }
	case graphFocusSource:
		source := strings.TrimSpace(v.sourceInput.Value())
		if source == "" {
			v.FormError = "file path or URL is required"
			return v, nil
		}
		if v.Current == nil {
			v.FormError = "select a project first"
			return v, nil
		}
		v.FormError = ""
		id := v.Current.ID
		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			return v, func() tea.Msg { return IngestPageMsg{ProjectID: id, URL: source} }
		}
		return v, func() tea.Msg { return IngestPathMsg{ProjectID: id, Path: source} }
	case graphFocusQuestion:
		question := strings.TrimSpace(v.questionInput.Value())
		if question == "" {
			v.FormError = "question is required"
			return v, nil
		}
		if v.Current == nil {
			v.FormError = "select a project first"
			return v, nil
		}
		v.FormError = ""
		id := v.Current.ID
		return v, func() tea.Msg { return AskGraphMsg{ProjectID: id, Question: question} }
	}
	return v, nil
}

func (v *GraphView) View() string {
	var b strings.Builder
	b.WriteString(v.renderForm())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, v.renderList(), " ", v.renderDetail()))
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("tab: focus   enter: submit   b: build graph   v: visualize   r: refresh"))
	return b.String()
}

func (v *GraphView) renderForm() string {
	var b strings.Builder
	b.WriteString(inputLabel("New project", v.focus == graphFocusName || v.focus == graphFocusDesc))
	if v.loading {
		b.WriteString("  " + v.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(v.nameInput.View() + "  " + v.descInput.View())
	if v.FormError != "" {
		b.WriteString("\n" + Styles.Error.Render(v.FormError))
	}
	return b.String()
}

func (v *GraphView) renderList() string {
	if len(v.Projects) == 0 {
		return Styles.Box.Width(v.listWidth()).Render(Styles.Empty.Render("No projects yet.\nName one above and press enter."))
	}
	return v.list.View()
}

func (v *GraphView) renderDetail() string {
	detailWidth := v.width - v.listWidth() - 4
	if detailWidth < 30 {
		detailWidth = 30
	}
	if v.Current == nil {
		return Styles.Box.Width(detailWidth).Render(Styles.Empty.Render("Select a project to work on it."))
	}

	p := v.Current
	inner := detailWidth - 4
	var b strings.Builder
	b.WriteString(Styles.Label.Render("Project ") + p.Name + "  " + statusBadge(p.Status) + "\n")
	if p.Description != "" {
		b.WriteString(Styles.Muted.Render(textutil.Truncate(p.Description, inner)) + "\n")
	}
	b.WriteString(fmt.Sprintf("%d documents, %d nodes, %d edges\n", p.Stats.Documents, p.Stats.Nodes, p.Stats.Edges))

	b.WriteString("\n" + inputLabel("Add source (file path or URL)", v.focus == graphFocusSource) + "\n")
	b.WriteString(v.sourceInput.View() + "\n")
	if v.LastIngest != nil {
		b.WriteString(fmt.Sprintf("Ingested %s: %d chunks [%s]\n",
			textutil.Truncate(v.LastIngest.Title, inner-24), v.LastIngest.Chunks, v.LastIngest.Status))
	}

	b.WriteString("\n" + inputLabel("Question", v.focus == graphFocusQuestion) + "\n")
	b.WriteString(v.questionInput.View() + "\n")
	if v.Answer != nil {
		b.WriteString(v.renderAnswer(inner))
	}
	if v.Viz != nil {
		b.WriteString(v.renderViz(inner))
	}
	return Styles.Box.Width(detailWidth).Render(b.String())
}

func (v *GraphView) renderAnswer(width int) string {
	var b strings.Builder
	b.WriteString(Styles.Section.Render(fmt.Sprintf("Answer (%s confident)", confidencePct(v.Answer.Confidence))) + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(v.Answer.Answer) + "\n")
	if len(v.Answer.Entities) > 0 {
		b.WriteString(Styles.Label.Render("Entities ") + textutil.Truncate(strings.Join(v.Answer.Entities, ", "), width-9) + "\n")
	}
	if len(v.Answer.Sources) > 0 {
		b.WriteString(Styles.Label.Render("Sources  ") + textutil.Truncate(strings.Join(v.Answer.Sources, ", "), width-9) + "\n")
	}
	return b.String()
}

// renderViz shows the graph as text: the highest-degree nodes and a
// sample of edges.
func (v *GraphView) renderViz(width int) string {
	var b strings.Builder
	b.WriteString(Styles.Section.Render(fmt.Sprintf("Graph (%d nodes, %d edges)", len(v.Viz.Nodes), len(v.Viz.Edges))) + "\n")
	shown := 0
	for _, n := range v.Viz.Nodes {
		if shown >= 8 {
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("  … %d more nodes", len(v.Viz.Nodes)-shown)) + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("  %s %s deg %d\n",
			textutil.PadRightVisual(textutil.Truncate(n.Label, 24), 24),
			textutil.PadRightVisual(n.Kind, 12), n.Degree))
		shown++
	}
	shown = 0
	for _, e := range v.Viz.Edges {
		if shown >= 6 {
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("  … %d more edges", len(v.Viz.Edges)-shown)) + "\n")
			break
		}
		line := fmt.Sprintf("  %s -%s-> %s", e.Source, e.Relation, e.Target)
		b.WriteString(textutil.Truncate(line, width) + "\n")
		shown++
	}
	return b.String()
}
