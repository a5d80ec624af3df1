package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prism/internal/api"
	"prism/internal/ui/textutil"
)

type slidesFocus int

const (
	slidesFocusPath slidesFocus = iota
	slidesFocusStyle
	slidesFocusBrowse
)

const slidesFocusCount = 3

// SlidesView is the voice-to-slides screen: record or pick an audio file,
// follow transcription, then generate and download a deck.
type SlidesView struct {
	pathInput  textinput.Model
	styleInput textinput.Model
	spinner    spinner.Model
	progress   progress.Model
	focus      slidesFocus

	Job        *api.SlideJob
	Transcript *api.Transcript
	DeckPath   string

	Recording bool
	MeterLine string

	FormError string
	loading   bool

	Polling      bool
	PollGen      int
	PollAttempts int
	PollID       string

	width  int
	height int
}

func NewSlidesView() *SlidesView {
	pathInput := textinput.New()
	pathInput.Placeholder = "./talk.wav"
	pathInput.CharLimit = 256
	pathInput.Width = 48
	pathInput.Focus()

	styleInput := textinput.New()
	styleInput.Placeholder = "style, e.g. minimal (optional)"
	styleInput.CharLimit = 60
	styleInput.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue))

	return &SlidesView{
		pathInput:  pathInput,
		styleInput: styleInput,
		spinner:    sp,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(32)),
		focus:      slidesFocusPath,
	}
}

func (v *SlidesView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.spinner.Tick)
}

func (v *SlidesView) CapturingInput() bool {
	return v.focus == slidesFocusPath || v.focus == slidesFocusStyle
}

func (v *SlidesView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *SlidesView) SetLoading(loading bool) {
	v.loading = loading
}

// SetJob replaces the tracked job. A new job id clears the previous
// transcript and deck.
func (v *SlidesView) SetJob(job api.SlideJob) {
	if v.Job == nil || v.Job.ID != job.ID {
		v.Transcript = nil
		v.DeckPath = ""
	}
	j := job
	v.Job = &j
}

func (v *SlidesView) SetTranscript(t api.Transcript) {
	transcript := t
	v.Transcript = &transcript
}

func (v *SlidesView) SetRecording(recording bool) {
	v.Recording = recording
	if !recording {
		v.MeterLine = ""
	}
}

func (v *SlidesView) SetMeterLine(line string) {
	v.MeterLine = line
}

func (v *SlidesView) Update(msg tea.Msg) (View, tea.Cmd) {
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

func (v *SlidesView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		v.moveFocus(1)
		return v, textinput.Blink
	case "shift+tab":
		v.moveFocus(-1)
		return v, textinput.Blink
	case "enter":
		if v.focus == slidesFocusPath || v.focus == slidesFocusStyle {
			return v.submitPath()
		}
		return v, nil
	}

	switch v.focus {
	case slidesFocusPath:
		v.FormError = ""
		var cmd tea.Cmd
		v.pathInput, cmd = v.pathInput.Update(msg)
		return v, cmd
	case slidesFocusStyle:
		v.FormError = ""
		var cmd tea.Cmd
		v.styleInput, cmd = v.styleInput.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "r":
		v.FormError = ""
		return v, func() tea.Msg { return ToggleRecordingMsg{} }
	case "g":
		if v.Job == nil {
			v.FormError = "upload a recording first"
			return v, nil
		}
		if v.Transcript == nil {
			v.FormError = "wait for the transcript"
			return v, nil
		}
		v.FormError = ""
		jobID := v.Job.ID
		style := strings.TrimSpace(v.styleInput.Value())
		return v, func() tea.Msg { return RequestSlidesMsg{JobID: jobID, Style: style} }
	case "d":
		if v.Job == nil || !v.Job.DeckReady {
			v.FormError = "no deck to download yet"
			return v, nil
		}
		v.FormError = ""
		jobID := v.Job.ID
		return v, func() tea.Msg { return RequestDeckMsg{JobID: jobID} }
	}
	return v, nil
}

func (v *SlidesView) moveFocus(dir int) {
	v.FormError = ""
	v.focus = slidesFocus((int(v.focus) + dir + slidesFocusCount) % slidesFocusCount)
	v.pathInput.Blur()
	v.styleInput.Blur()
	switch v.focus {
	case slidesFocusPath:
		v.pathInput.Focus()
	case slidesFocusStyle:
		v.styleInput.Focus()
	}
}

func (v *SlidesView) submitPath() (View, tea.Cmd) {
	path := strings.TrimSpace(v.pathInput.Value())
	if path == "" {
		v.FormError = "audio file path is required"
		return v, nil
	}
	if v.Recording {
		v.FormError = "stop the recording first"
		return v, nil
	}
	v.FormError = ""
	return v, func() tea.Msg { return SubmitAudioMsg{Path: path} }
}

func (v *SlidesView) View() string {
	var b strings.Builder
	b.WriteString(v.renderForm())
	b.WriteString("\n")
	b.WriteString(v.renderJob())
	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("tab: focus   enter: upload   r: record   g: generate deck   d: download"))
	return b.String()
}

func (v *SlidesView) renderForm() string {
	var b strings.Builder
	b.WriteString(inputLabel("Audio file", v.focus == slidesFocusPath))
	b.WriteString("  ")
	b.WriteString(inputLabel("Deck style", v.focus == slidesFocusStyle))
	if v.loading {
		b.WriteString("  " + v.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(v.pathInput.View() + "  " + v.styleInput.View())
	b.WriteString("\n")
	if v.Recording {
		b.WriteString(Styles.Error.Render("● recording"))
		if v.MeterLine != "" {
			b.WriteString("  " + Styles.Muted.Render(textutil.Truncate(v.MeterLine, max(v.width-16, 20))))
		}
		b.WriteString(Styles.Hint.Render("   r stops and uploads"))
	} else {
		b.WriteString(Styles.Muted.Render("not recording"))
	}
	if v.FormError != "" {
		b.WriteString("\n" + Styles.Error.Render(v.FormError))
	}
	return b.String()
}

func (v *SlidesView) renderJob() string {
	width := max(v.width-2, 40)
	inner := width - 4
	if v.Job == nil {
		return Styles.Box.Width(width).Render(Styles.Empty.Render("No job yet. Record with r or upload a file."))
	}

	j := v.Job
	var b strings.Builder
	b.WriteString(Styles.Label.Render("Job    ") + j.ID + "  " + statusBadge(j.Status) + "\n")
	b.WriteString(Styles.Label.Render("Stage  ") + stageLabel(j.Stage) + "  " + v.progress.ViewAs(float64(j.Progress)/100) + "\n")
	if j.Error != "" {
		b.WriteString(Styles.Error.Render(textutil.Truncate(j.Error, inner)) + "\n")
	}

	if v.Transcript != nil {
		b.WriteString(v.renderTranscript(inner))
	}

	if v.DeckPath != "" {
		b.WriteString(Styles.Section.Render("Deck") + "\n")
		b.WriteString(Styles.Status.Render("saved to "+v.DeckPath) + "\n")
	} else if j.DeckReady {
		b.WriteString(Styles.Status.Render("deck ready, press d to download") + "\n")
	}
	return Styles.Box.Width(width).Render(b.String())
}

func (v *SlidesView) renderTranscript(width int) string {
	t := v.Transcript
	var b strings.Builder
	b.WriteString(Styles.Section.Render(fmt.Sprintf("Transcript (%s, %d segments)", t.Language, len(t.Segments))) + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(textutil.Truncate(t.Text, 600)) + "\n")
	for i, seg := range t.Segments {
		if i >= 4 {
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("  … %d more segments", len(t.Segments)-i)) + "\n")
			break
		}
		b.WriteString(Styles.Muted.Render(fmt.Sprintf("  %s–%s ", formatClock(seg.Start), formatClock(seg.End))))
		b.WriteString(textutil.Truncate(seg.Text, width-18) + "\n")
	}
	return b.String()
}

func stageLabel(stage string) string {
	switch stage {
	case api.StageTranscription:
		return "transcribing"
	case api.StageGeneration:
		return "generating slides"
	case "":
		return "-"
	}
	return stage
}

// formatClock renders seconds as m:ss.t for transcript timestamps.
func formatClock(seconds float64) string {
	m := int(seconds) / 60
	rest := seconds - float64(m*60)
	return fmt.Sprintf("%d:%04.1f", m, rest)
}
