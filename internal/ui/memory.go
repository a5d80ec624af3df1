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

type memoryFocus int

const (
	memoryFocusPath memoryFocus = iota
	memoryFocusNote
	memoryFocusQuery
	memoryFocusBrowse
)

const memoryFocusCount = 4

// MemoryView is the visual memory screen: upload screenshots and photos,
// then find them again by describing what they showed.
type MemoryView struct {
	pathInput  textinput.Model
	noteInput  textinput.Model
	queryInput textinput.Model
	spinner    spinner.Model
	focus      memoryFocus

	Images    []api.ImageRecord
	Matches   []api.ImageMatch
	LastQuery string
	// ThumbPaths remembers where downloaded thumbnails landed, by image id.
	ThumbPaths map[string]string
	cursor     int

	FormError string
	loading   bool

	SearchSeq int

	width  int
	height int
}

func NewMemoryView() *MemoryView {
	pathInput := textinput.New()
	pathInput.Placeholder = "./screenshot.png"
	pathInput.CharLimit = 256
	pathInput.Width = 36
	pathInput.Focus()

	noteInput := textinput.New()
	noteInput.Placeholder = "note (optional)"
	noteInput.CharLimit = 200
	noteInput.Width = 32

	queryInput := textinput.New()
	queryInput.Placeholder = "whiteboard with the caching diagram"
	queryInput.CharLimit = 256
	queryInput.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue))

	return &MemoryView{
		pathInput:  pathInput,
		noteInput:  noteInput,
		queryInput: queryInput,
		spinner:    sp,
		ThumbPaths: make(map[string]string),
		focus:      memoryFocusPath,
	}
}

func (v *MemoryView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.spinner.Tick)
}

func (v *MemoryView) CapturingInput() bool {
	return v.focus != memoryFocusBrowse
}

func (v *MemoryView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *MemoryView) SetLoading(loading bool) {
	v.loading = loading
}

func (v *MemoryView) SetImages(images []api.ImageRecord) {
	v.Images = images
}

// AddImage puts a freshly uploaded image at the top of the library.
func (v *MemoryView) AddImage(image api.ImageRecord) {
	v.Images = append([]api.ImageRecord{image}, v.Images...)
	v.pathInput.SetValue("")
	v.noteInput.SetValue("")
}

func (v *MemoryView) SetMatches(query string, matches []api.ImageMatch) {
	v.LastQuery = query
	v.Matches = matches
	if v.cursor >= len(matches) {
		v.cursor = max(len(matches)-1, 0)
	}
}

func (v *MemoryView) SetThumbPath(imageID, path string) {
	v.ThumbPaths[imageID] = path
}

func (v *MemoryView) SelectedMatch() *api.ImageMatch {
	if v.cursor < 0 || v.cursor >= len(v.Matches) {
		return nil
	}
	match := v.Matches[v.cursor]
	return &match
}

func (v *MemoryView) Update(msg tea.Msg) (View, tea.Cmd) {
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

func (v *MemoryView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		v.moveFocus(1)
		return v, textinput.Blink
	case "shift+tab":
		v.moveFocus(-1)
		return v, textinput.Blink
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
	case "j", "down":
		if v.cursor < len(v.Matches)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "t":
		match := v.SelectedMatch()
		if match == nil {
			v.FormError = "no match selected"
			return v, nil
		}
		v.FormError = ""
		id := match.Image.ID
		return v, func() tea.Msg { return RequestThumbnailMsg{ImageID: id} }
	case "r":
		return v, func() tea.Msg { return RefreshImagesMsg{} }
	}
	return v, nil
}

func (v *MemoryView) focusedInput() *textinput.Model {
	switch v.focus {
	case memoryFocusPath:
		return &v.pathInput
	case memoryFocusNote:
		return &v.noteInput
	case memoryFocusQuery:
		return &v.queryInput
	}
	return nil
}

func (v *MemoryView) moveFocus(dir int) {
	v.FormError = ""
	v.focus = memoryFocus((int(v.focus) + dir + memoryFocusCount) % memoryFocusCount)
	v.pathInput.Blur()
	v.noteInput.Blur()
	v.queryInput.Blur()
	if input := v.focusedInput(); input != nil {
		input.Focus()
	}
}

func (v *MemoryView) submit() (View, tea.Cmd) {
	switch v.focus {
	case memoryFocusPath, memoryFocusNote:
		path := strings.TrimSpace(v.pathInput.Value())
		if path == "" {
			v.FormError = "image path is required"
			return v, nil
		}
		v.FormError = ""
		note := strings.TrimSpace(v.noteInput.Value())
		return v, func() tea.Msg { return SubmitImageMsg{Path: path, Note: note} }
	case memoryFocusQuery:
		query := strings.TrimSpace(v.queryInput.Value())
		if query == "" {
			v.FormError = "describe what you are looking for"
			return v, nil
		}
		v.FormError = ""
		return v, func() tea.Msg { return SearchMemoryMsg{Query: query} }
	}
	return v, nil
}

func (v *MemoryView) View() string {
	var b strings.Builder
	b.WriteString(v.renderForm())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, v.renderLibrary(), " ", v.renderMatches()))
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("tab: focus   enter: upload/search   j/k: move   t: thumbnail   r: refresh"))
	return b.String()
}

func (v *MemoryView) renderForm() string {
	var b strings.Builder
	b.WriteString(inputLabel("Image", v.focus == memoryFocusPath))
	b.WriteString("  ")
	b.WriteString(inputLabel("Note", v.focus == memoryFocusNote))
	if v.loading {
		b.WriteString("  " + v.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(v.pathInput.View() + "  " + v.noteInput.View() + "\n")
	b.WriteString(inputLabel("Search", v.focus == memoryFocusQuery) + "\n")
	b.WriteString(v.queryInput.View())
	if v.FormError != "" {
		b.WriteString("\n" + Styles.Error.Render(v.FormError))
	}
	return b.String()
}

func (v *MemoryView) libraryWidth() int {
	w := v.width / 2
	if w < 36 {
		w = 36
	}
	return w
}

func (v *MemoryView) renderLibrary() string {
	width := v.libraryWidth()
	inner := width - 4
	var b strings.Builder
	b.WriteString(Styles.Section.Render(fmt.Sprintf("Library (%d)", len(v.Images))) + "\n")
	if len(v.Images) == 0 {
		b.WriteString(Styles.Empty.Render("No images uploaded yet."))
	}
	maxRows := max(v.height-14, 4)
	for i, img := range v.Images {
		if i >= maxRows {
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("… %d more", len(v.Images)-i)))
			break
		}
		b.WriteString(textutil.Truncate(img.Filename, inner-10))
		b.WriteString(Styles.Muted.Render("  " + formatBytes(img.Size)))
		b.WriteString("\n  " + Styles.Muted.Render(textutil.Truncate(img.Description, inner-2)) + "\n")
	}
	return Styles.Box.Width(width).Render(b.String())
}

func (v *MemoryView) renderMatches() string {
	width := v.width - v.libraryWidth() - 4
	if width < 32 {
		width = 32
	}
	inner := width - 4
	var b strings.Builder
	title := "Matches"
	if v.LastQuery != "" {
		title = fmt.Sprintf("Matches for %q", textutil.Truncate(v.LastQuery, inner-14))
	}
	b.WriteString(Styles.Section.Render(title) + "\n")
	if len(v.Matches) == 0 {
		b.WriteString(Styles.Empty.Render("Search to recall an image."))
	}
	for i, m := range v.Matches {
		line := fmt.Sprintf("%s (%.2f)", m.Image.Filename, m.Score)
		line = textutil.Truncate(line, inner-2)
		cursor := "  "
		if i == v.cursor && v.focus == memoryFocusBrowse {
			cursor = "> "
			line = Styles.Selected.Render(line)
		}
		b.WriteString(cursor + line + "\n")
		b.WriteString("  " + Styles.Muted.Render(textutil.Truncate(m.Image.Description, inner)) + "\n")
		if path, ok := v.ThumbPaths[m.Image.ID]; ok {
			b.WriteString("  " + Styles.Status.Render("thumbnail: "+path) + "\n")
		}
	}
	return Styles.Box.Width(width).Render(b.String())
}

// formatBytes renders sizes the way directory listings do: B, KB, MB.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
