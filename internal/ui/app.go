package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"prism/internal/api"
	"prism/internal/record"
	"prism/internal/reqtrace"
)

// AppModel is the root model: the home screen plus at most one live tool
// screen, with modal overlays stacked on top. Tool views are created fresh
// on every switch; in-flight responses for a torn-down view are dropped by
// the handlers' mode and generation guards.
type AppModel struct {
	Mode AppMode

	Home     *HomeView
	Analysis *AnalysisView
	Graph    *GraphView
	Inbox    *InboxView
	Slides   *SlidesView
	Memory   *MemoryView

	KeyHandler *KeyHandler
	Overlays   OverlayStack

	Client   *api.Client
	Recorder *record.Recorder
	Trace    *reqtrace.Log
	Logger   *zap.Logger
	Env      string

	// Status is the single place backend errors and confirmations surface.
	Status        string
	StatusIsError bool

	// meterLines is the live meter channel while a recording runs. It
	// outlives the slides view so a tool switch does not kill the reader.
	meterLines <-chan string

	width  int
	height int
}

// NewAppModel creates the root application model with its keybinds.
func NewAppModel(client *api.Client, recorder *record.Recorder, trace *reqtrace.Log, logger *zap.Logger, env string) *AppModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC h", func() tea.Msg { return ShowHomeMsg{} }, "Home")
	reg.BindWithDesc("SPC r", func() tea.Msg { return ShowRequestsMsg{} }, "Requests")
	reg.BindWithDesc("SPC t a", func() tea.Msg { return SwitchToolMsg{Mode: ModeAnalysis} }, "Repo analysis")
	reg.BindWithDesc("SPC t g", func() tea.Msg { return SwitchToolMsg{Mode: ModeGraph} }, "Knowledge graph")
	reg.BindWithDesc("SPC t i", func() tea.Msg { return SwitchToolMsg{Mode: ModeInbox} }, "Inbox triage")
	reg.BindWithDesc("SPC t s", func() tea.Msg { return SwitchToolMsg{Mode: ModeSlides} }, "Voice to slides")
	reg.BindWithDesc("SPC t m", func() tea.Msg { return SwitchToolMsg{Mode: ModeMemory} }, "Visual memory")

	return &AppModel{
		Mode:       ModeHome,
		Home:       NewHomeView(),
		KeyHandler: NewKeyHandler(reg),
		Client:     client,
		Recorder:   recorder,
		Trace:      trace,
		Logger:     logger,
		Env:        env,
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// setStatus shows a confirmation on the status line.
func (m *AppModel) setStatus(text string) {
	m.Status = text
	m.StatusIsError = false
}

// fail surfaces an error on the status line, labeled with the operation
// it came from.
func (m *AppModel) fail(label string, err error) {
	m.Status = fmt.Sprintf("%s: %v", label, err)
	m.StatusIsError = true
}

// failText surfaces an error message not backed by an error value.
func (m *AppModel) failText(text string) {
	m.Status = text
	m.StatusIsError = true
}

// contentHeight is the height left for the active view after the header
// and status line.
func (m *AppModel) contentHeight() int {
	return max(m.height-3, 8)
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.currentView().Init()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: a.contentHeight()}
		a.Overlays.UpdateTop(inner)
		v, cmd := a.currentView().Update(inner)
		a.setCurrentView(v)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case SwitchToolMsg:
		return a.handleSwitchTool(msg)
	case ShowHomeMsg:
		return a.handleShowHome()
	case ShowRequestsMsg:
		return a.handleShowRequests()
	case DismissModalMsg:
		return a.handleDismissModal()

	case SubmitRepoMsg:
		return a.handleSubmitRepo(msg)
	case SelectAnalysisMsg:
		return a.handleSelectAnalysis(msg)
	case AskRepoMsg:
		return a.handleAskRepo(msg)
	case RefreshAnalysesMsg:
		return a.handleRefreshAnalyses()
	case LoadReportMsg:
		return a.handleLoadReport(msg)
	case AnalysesLoadedMsg:
		return a.handleAnalysesLoaded(msg)
	case AnalysisCreatedMsg:
		return a.handleAnalysisCreated(msg)
	case AnalysisPollTickMsg:
		return a.handleAnalysisPollTick(msg)
	case AnalysisStatusMsg:
		return a.handleAnalysisStatus(msg)
	case AnalysisAnswerMsg:
		return a.handleAnalysisAnswer(msg)
	case EvolutionLoadedMsg:
		return a.handleEvolutionLoaded(msg)
	case OwnershipLoadedMsg:
		return a.handleOwnershipLoaded(msg)
	case FeaturesLoadedMsg:
		return a.handleFeaturesLoaded(msg)

	case SubmitGraphProjectMsg:
		return a.handleSubmitGraphProject(msg)
	case SelectGraphProjectMsg:
		return a.handleSelectGraphProject(msg)
	case IngestPathMsg:
		return a.handleIngestPath(msg)
	case IngestPageMsg:
		return a.handleIngestPage(msg)
	case TriggerBuildMsg:
		return a.handleTriggerBuild(msg)
	case AskGraphMsg:
		return a.handleAskGraph(msg)
	case LoadVizMsg:
		return a.handleLoadViz(msg)
	case RefreshGraphProjectsMsg:
		return a.handleRefreshGraphProjects()
	case GraphProjectsLoadedMsg:
		return a.handleGraphProjectsLoaded(msg)
	case GraphProjectCreatedMsg:
		return a.handleGraphProjectCreated(msg)
	case GraphPollTickMsg:
		return a.handleGraphPollTick(msg)
	case GraphProjectStatusMsg:
		return a.handleGraphProjectStatus(msg)
	case DocumentIngestedMsg:
		return a.handleDocumentIngested(msg)
	case GraphBuildStartedMsg:
		return a.handleGraphBuildStarted(msg)
	case GraphAnswerMsg:
		return a.handleGraphAnswer(msg)
	case GraphVizLoadedMsg:
		return a.handleGraphVizLoaded(msg)

	case SubmitInboxAuthMsg:
		return a.handleSubmitInboxAuth(msg)
	case FetchEmailsMsg:
		return a.handleFetchEmails()
	case ClusterEmailsMsg:
		return a.handleClusterEmails()
	case InboxAuthenticatedMsg:
		return a.handleInboxAuthenticated(msg)
	case EmailsFetchedMsg:
		return a.handleEmailsFetched(msg)
	case ClustersLoadedMsg:
		return a.handleClustersLoaded(msg)
	case ShowArchiveClusterMsg:
		return a.handleShowArchiveCluster(msg)
	case ArchiveClusterMsg:
		return a.handleArchiveCluster(msg)
	case ClusterArchivedMsg:
		return a.handleClusterArchived(msg)

	case SubmitAudioMsg:
		return a.handleSubmitAudio(msg)
	case ToggleRecordingMsg:
		return a.handleToggleRecording()
	case RequestSlidesMsg:
		return a.handleRequestSlides(msg)
	case RequestDeckMsg:
		return a.handleRequestDeck(msg)
	case SlideJobCreatedMsg:
		return a.handleSlideJobCreated(msg)
	case SlidePollTickMsg:
		return a.handleSlidePollTick(msg)
	case SlideJobStatusMsg:
		return a.handleSlideJobStatus(msg)
	case TranscriptLoadedMsg:
		return a.handleTranscriptLoaded(msg)
	case SlidesRequestedMsg:
		return a.handleSlidesRequested(msg)
	case DeckDownloadedMsg:
		return a.handleDeckDownloaded(msg)
	case RecorderStartedMsg:
		return a.handleRecorderStarted(msg)
	case RecorderLineMsg:
		return a.handleRecorderLine(msg)
	case RecorderStoppedMsg:
		return a.handleRecorderStopped(msg)

	case SubmitImageMsg:
		return a.handleSubmitImage(msg)
	case SearchMemoryMsg:
		return a.handleSearchMemory(msg)
	case RequestThumbnailMsg:
		return a.handleRequestThumbnail(msg)
	case RefreshImagesMsg:
		return a.handleRefreshImages()
	case ImagesLoadedMsg:
		return a.handleImagesLoaded(msg)
	case ImageUploadedMsg:
		return a.handleImageUploaded(msg)
	case MemoryMatchesMsg:
		return a.handleMemoryMatches(msg)
	case ThumbnailSavedMsg:
		return a.handleThumbnailSaved(msg)
	}

	// Everything else (spinner ticks and the like) goes to the active view.
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// handleKey routes keys: quit first, then the top overlay, then a view
// that is capturing text input, then app keybinds, then the view.
func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.Overlays.Pop()
			return a, nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}

	view := a.currentView()
	if capturer, ok := view.(InputCapturer); ok && capturer.CapturingInput() {
		v, cmd := view.Update(msg)
		a.setCurrentView(v)
		return a, cmd
	}

	if a.KeyHandler != nil {
		if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
			return a, keyCmd
		}
	}

	v, cmd := view.Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var body string
	if overlay, ok := a.Overlays.Peek(); ok {
		body = overlay.View.View()
		if a.width > 0 {
			body = lipgloss.Place(a.width, a.contentHeight(), lipgloss.Center, lipgloss.Center, body)
		}
	} else {
		body = a.currentView().View()
	}
	return a.renderHeader() + "\n" + body + "\n" + a.renderFooter()
}

func (a *appModelAdapter) renderHeader() string {
	title := Styles.Title.Render(" prism ")
	mode := Styles.Section.Render(a.Mode.String())
	backend := a.Env
	if a.Client != nil {
		if url := a.Client.BaseURL(); url != "" {
			backend += "  " + url
		}
	}
	return title + "  " + mode + "  " + Styles.Muted.Render(backend)
}

func (a *appModelAdapter) renderFooter() string {
	line := Styles.Hint.Render("SPC: commands   ctrl+c: quit")
	if a.Status != "" {
		if a.StatusIsError {
			line = Styles.Error.Render(a.Status)
		} else {
			line = Styles.Status.Render(a.Status)
		}
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		line += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	return line
}

// currentView returns the view for the active mode, falling back to home.
func (a *appModelAdapter) currentView() View {
	switch a.Mode {
	case ModeAnalysis:
		if a.Analysis != nil {
			return a.Analysis
		}
	case ModeGraph:
		if a.Graph != nil {
			return a.Graph
		}
	case ModeInbox:
		if a.Inbox != nil {
			return a.Inbox
		}
	case ModeSlides:
		if a.Slides != nil {
			return a.Slides
		}
	case ModeMemory:
		if a.Memory != nil {
			return a.Memory
		}
	}
	if a.Home == nil {
		a.Home = NewHomeView()
	}
	return a.Home
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch v := v.(type) {
	case *HomeView:
		a.Home = v
	case *AnalysisView:
		a.Analysis = v
	case *GraphView:
		a.Graph = v
	case *InboxView:
		a.Inbox = v
	case *SlidesView:
		a.Slides = v
	case *MemoryView:
		a.Memory = v
	}
}
