package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"prism/internal/api"
	"prism/internal/reqtrace"
)

func TestSwitchTool_CreatesFreshView(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(SwitchToolMsg{Mode: ModeAnalysis})
	if a.Mode != ModeAnalysis {
		t.Fatalf("Mode = %v, want ModeAnalysis", a.Mode)
	}
	if a.Analysis == nil {
		t.Fatal("expected analysis view after SwitchToolMsg")
	}
	if cmd == nil {
		t.Error("expected init+load cmd after switching to analysis")
	}

	// Leave a mark on the view, go home, come back: the view is rebuilt.
	a.Analysis.FormError = "leftover"
	_, _ = adapter.Update(ShowHomeMsg{})
	if a.Mode != ModeHome {
		t.Fatalf("Mode = %v, want ModeHome", a.Mode)
	}
	if a.Analysis != nil || a.Graph != nil || a.Inbox != nil || a.Slides != nil || a.Memory != nil {
		t.Error("expected all tool views dropped after ShowHomeMsg")
	}
	_, _ = adapter.Update(SwitchToolMsg{Mode: ModeAnalysis})
	if a.Analysis.FormError != "" {
		t.Error("expected a fresh view, got the old one back")
	}
}

func TestToolKeybinds_LeaderSequenceSwitchesTool(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	adapter := &appModelAdapter{AppModel: a}

	// SPC t i -> SwitchToolMsg{ModeInbox}
	_, _ = adapter.Update(keyMsg(" "))
	if !a.KeyHandler.LeaderWaiting {
		t.Fatal("expected leader waiting after SPC")
	}
	_, _ = adapter.Update(keyMsg("t"))
	_, cmd := adapter.Update(keyMsg("i"))
	if cmd == nil {
		t.Fatal("expected cmd from SPC t i")
	}
	_, _ = adapter.Update(cmd())
	if a.Mode != ModeInbox {
		t.Errorf("Mode = %v, want ModeInbox", a.Mode)
	}
	if a.Inbox == nil {
		t.Error("expected inbox view after SPC t i")
	}
}

func TestCtrlC_QuitsEvenWhileTyping(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView() // URL input focused: view is capturing
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected quit cmd from ctrl+c")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

// TestSpaceRouting validates that space reaches a focused text input instead
// of starting leader mode, and starts leader mode once focus leaves the input.
func TestSpaceRouting(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	adapter := &appModelAdapter{AppModel: a}

	_, _ = adapter.Update(keyMsg(" "))
	if a.KeyHandler.LeaderWaiting {
		t.Fatal("space while typing must not start leader mode")
	}

	// Tab moves focus to the list; the view stops capturing input.
	_, _ = adapter.Update(keyMsg("tab"))
	if a.Analysis.CapturingInput() {
		t.Fatal("expected list focus after tab")
	}
	_, _ = adapter.Update(keyMsg(" "))
	if !a.KeyHandler.LeaderWaiting {
		t.Error("space on the list should start leader mode")
	}
}

func TestAnalysisCreated_AppendsAndSelects(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	a.Analysis.SetAnalyses([]api.Analysis{
		{ID: "an-1", RepoURL: "https://github.com/acme/legacy", Status: api.StatusCompleted},
	})
	adapter := &appModelAdapter{AppModel: a}

	created := &api.Analysis{ID: "an-2", RepoURL: "https://github.com/acme/rocket.git", Status: api.StatusPending}
	_, cmd := adapter.Update(AnalysisCreatedMsg{Analysis: created})

	v := a.Analysis
	if len(v.Analyses) != 2 {
		t.Fatalf("expected 2 analyses after create, got %d", len(v.Analyses))
	}
	if v.Current == nil || v.Current.ID != "an-2" {
		t.Errorf("expected the new analysis to become current, got %+v", v.Current)
	}
	if sel := v.SelectedAnalysis(); sel == nil || sel.ID != "an-2" {
		t.Error("expected the list cursor on the new analysis")
	}
	if !v.Polling || v.PollGen != 1 || v.PollID != "an-2" {
		t.Errorf("expected polling for an-2, got Polling=%v Gen=%d ID=%q", v.Polling, v.PollGen, v.PollID)
	}
	if cmd == nil {
		t.Error("expected a poll tick cmd after create")
	}
	if a.StatusIsError || !strings.Contains(a.Status, "acme/rocket") {
		t.Errorf("Status = %q, want confirmation naming acme/rocket", a.Status)
	}
}

func TestAnalysisCreated_ErrorOnStatusLine(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(AnalysisCreatedMsg{Err: errors.New("repo not reachable")})
	if cmd != nil {
		t.Error("expected no cmd on create error")
	}
	if !a.StatusIsError || a.Status != "Analyze repository: repo not reachable" {
		t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
	}
	if len(a.Analysis.Analyses) != 0 || a.Analysis.Polling {
		t.Error("a failed create must not touch the list or start polling")
	}
}

// TestAnalysisPoll_TickFetchesThenStopsAtCap walks the poll loop: a tick in
// the live generation fetches status, and the attempt ceiling shuts the loop
// down with an error instead of polling forever.
func TestAnalysisPoll_TickFetchesThenStopsAtCap(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	v := a.Analysis
	v.Polling = true
	v.PollGen = 1
	v.PollID = "an-1"
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(AnalysisPollTickMsg{Gen: 1})
	if cmd == nil {
		t.Fatal("expected fetch cmd from live tick")
	}
	if v.PollAttempts != 1 {
		t.Errorf("PollAttempts = %d, want 1", v.PollAttempts)
	}

	// The test client has no backend: the fetch fails fast, and the error
	// lands on the status line via the status handler.
	_, _ = adapter.Update(cmd())
	if !a.StatusIsError || !strings.Contains(a.Status, "Analysis status") {
		t.Errorf("Status = %q, want fetch failure surfaced", a.Status)
	}
	if v.Polling {
		t.Error("a failed fetch should stop the poll loop")
	}

	// At the ceiling the loop gives up instead of ticking again.
	v.Polling = true
	v.PollAttempts = maxPollAttempts
	_, cmd = adapter.Update(AnalysisPollTickMsg{Gen: 1})
	if cmd != nil {
		t.Error("expected no cmd at the attempt ceiling")
	}
	if v.Polling {
		t.Error("expected polling stopped at the ceiling")
	}
	if !a.StatusIsError || !strings.Contains(a.Status, "Gave up") {
		t.Errorf("Status = %q, want give-up message", a.Status)
	}
}

func TestAnalysisPoll_StaleGenerationDropped(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	v := a.Analysis
	v.Polling = true
	v.PollGen = 2
	v.PollID = "an-2"
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(AnalysisPollTickMsg{Gen: 1})
	if cmd != nil {
		t.Error("tick from an abandoned generation must not fetch")
	}
	if v.PollAttempts != 0 || !v.Polling {
		t.Errorf("stale tick mutated poll state: attempts=%d polling=%v", v.PollAttempts, v.Polling)
	}

	// A late status response from the old generation is dropped too.
	done := &api.Analysis{ID: "an-1", Status: api.StatusCompleted}
	_, cmd = adapter.Update(AnalysisStatusMsg{Gen: 1, Analysis: done})
	if cmd != nil {
		t.Error("stale status must not schedule another tick")
	}
	if len(v.Analyses) != 0 {
		t.Error("stale status must not be committed")
	}
}

func TestAnalysisPoll_DeadAfterLeavingTool(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	a.Analysis.Polling = true
	a.Analysis.PollGen = 1
	adapter := &appModelAdapter{AppModel: a}

	_, _ = adapter.Update(ShowHomeMsg{})
	_, cmd := adapter.Update(AnalysisPollTickMsg{Gen: 1})
	if cmd != nil {
		t.Error("tick after leaving the tool must not fetch")
	}
}

func TestAnalysisStatus_TerminalStopsPolling(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		a := NewAppModel(api.New(""), nil, nil, nil, "test")
		a.Mode = ModeAnalysis
		a.Analysis = NewAnalysisView()
		v := a.Analysis
		v.SetAnalyses([]api.Analysis{{ID: "an-1", RepoURL: "https://github.com/acme/rocket", Status: api.StatusProcessing}})
		v.Polling = true
		v.PollGen = 1
		v.PollID = "an-1"
		adapter := &appModelAdapter{AppModel: a}

		done := &api.Analysis{ID: "an-1", RepoURL: "https://github.com/acme/rocket", Status: api.StatusCompleted, Summary: "a rocket"}
		_, cmd := adapter.Update(AnalysisStatusMsg{Gen: 1, Analysis: done})
		if cmd != nil {
			t.Error("expected no further tick once terminal")
		}
		if v.Polling {
			t.Error("expected polling stopped")
		}
		if v.Analyses[0].Status != api.StatusCompleted {
			t.Error("expected the fetched status committed to the list")
		}
		if a.StatusIsError || a.Status != "Analysis completed" {
			t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
		}
	})

	t.Run("failed", func(t *testing.T) {
		a := NewAppModel(api.New(""), nil, nil, nil, "test")
		a.Mode = ModeAnalysis
		a.Analysis = NewAnalysisView()
		v := a.Analysis
		v.Polling = true
		v.PollGen = 1
		v.PollID = "an-1"
		adapter := &appModelAdapter{AppModel: a}

		failed := &api.Analysis{ID: "an-1", Status: api.StatusFailed, Error: "clone timed out"}
		_, cmd := adapter.Update(AnalysisStatusMsg{Gen: 1, Analysis: failed})
		if cmd != nil {
			t.Error("expected no further tick once terminal")
		}
		if !a.StatusIsError || a.Status != "Analysis failed: clone timed out" {
			t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
		}
	})

	t.Run("still running reschedules", func(t *testing.T) {
		a := NewAppModel(api.New(""), nil, nil, nil, "test")
		a.Mode = ModeAnalysis
		a.Analysis = NewAnalysisView()
		v := a.Analysis
		v.Polling = true
		v.PollGen = 1
		v.PollID = "an-1"
		adapter := &appModelAdapter{AppModel: a}

		running := &api.Analysis{ID: "an-1", Status: api.StatusProcessing}
		_, cmd := adapter.Update(AnalysisStatusMsg{Gen: 1, Analysis: running})
		if cmd == nil {
			t.Error("expected the next tick while still running")
		}
		if !v.Polling {
			t.Error("expected polling to continue")
		}
	})
}

// TestAnalysisAnswer_LastResponseWins validates that only the answer for the
// latest question is committed: stale sequence numbers and answers for a
// different analysis are dropped.
func TestAnalysisAnswer_LastResponseWins(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	v := a.Analysis
	v.SetAnalyses([]api.Analysis{{ID: "an-1", Status: api.StatusCompleted}})
	v.SetCurrent(v.Analyses[0])
	v.AnswerSeq = 2
	v.SetLoading(true)
	adapter := &appModelAdapter{AppModel: a}

	stale := &api.QueryResult{Answer: "old answer"}
	_, _ = adapter.Update(AnalysisAnswerMsg{AnalysisID: "an-1", Seq: 1, Result: stale})
	if v.Answer != nil {
		t.Fatal("stale answer must be dropped")
	}

	other := &api.QueryResult{Answer: "wrong analysis"}
	_, _ = adapter.Update(AnalysisAnswerMsg{AnalysisID: "an-9", Seq: 2, Result: other})
	if v.Answer != nil {
		t.Fatal("answer for a different analysis must be dropped")
	}

	fresh := &api.QueryResult{Answer: "served from internal/auth", Confidence: 0.92}
	_, _ = adapter.Update(AnalysisAnswerMsg{AnalysisID: "an-1", Seq: 2, Result: fresh})
	if v.Answer == nil || v.Answer.Answer != "served from internal/auth" {
		t.Errorf("expected the fresh answer committed, got %+v", v.Answer)
	}
}

func TestGraphProjectCreated_AppendsAndSelects(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeGraph
	a.Graph = NewGraphView()
	a.Graph.SetProjects([]api.GraphProject{
		{ID: "gp-1", Name: "infra", Status: api.StatusCompleted},
	})
	adapter := &appModelAdapter{AppModel: a}

	created := &api.GraphProject{ID: "gp-2", Name: "product docs", Status: api.StatusPending}
	_, cmd := adapter.Update(GraphProjectCreatedMsg{Project: created})
	if cmd != nil {
		t.Error("creating a project must not start a follow-up request")
	}

	v := a.Graph
	if len(v.Projects) != 2 {
		t.Fatalf("expected 2 projects after create, got %d", len(v.Projects))
	}
	if v.Current == nil || v.Current.ID != "gp-2" {
		t.Errorf("expected the new project to become current, got %+v", v.Current)
	}
	if sel := v.SelectedProject(); sel == nil || sel.ID != "gp-2" {
		t.Error("expected the list cursor on the new project")
	}
	if a.StatusIsError || a.Status != "Project created: product docs" {
		t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
	}
}

func TestGraphProjectCreated_ErrorOnStatusLine(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeGraph
	a.Graph = NewGraphView()
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(GraphProjectCreatedMsg{Err: errors.New("name already taken")})
	if cmd != nil {
		t.Error("expected no cmd on create error")
	}
	if !a.StatusIsError || a.Status != "Create project: name already taken" {
		t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
	}
	if len(a.Graph.Projects) != 0 {
		t.Error("a failed create must not touch the list")
	}
}

// TestArchiveCluster_ConfirmPatchesOnlyTarget drives the whole archive flow:
// the confirmation modal, the backend call, and the patch that touches the
// archived cluster and nothing else.
func TestArchiveCluster_ConfirmPatchesOnlyTarget(t *testing.T) {
	var gotSession string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/inbox/clusters/cl-1/archive" {
			http.NotFound(w, r)
			return
		}
		var in struct {
			SessionID string `json:"session_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		gotSession = in.SessionID
		_ = json.NewEncoder(w).Encode(api.ArchiveResult{
			ClusterID:  "cl-1",
			Archived:   3,
			ArchivedAt: time.Now().UTC(),
		})
	}))
	defer srv.Close()

	inbox := NewInboxView()
	inbox.Session = &api.InboxSession{SessionID: "sess-1", Address: "dev@example.com"}
	inbox.SetClusters([]api.Cluster{
		{ID: "cl-1", Theme: "Newsletters", EmailIDs: []string{"e1", "e2", "e3"}},
		{ID: "cl-2", Theme: "Receipts", EmailIDs: []string{"e4"}},
	})
	a := NewAppModel(api.New(srv.URL), nil, nil, nil, "test")
	a.Mode = ModeInbox
	a.Inbox = inbox
	adapter := &appModelAdapter{AppModel: a}

	_, _ = adapter.Update(ShowArchiveClusterMsg{Cluster: inbox.Clusters[0]})
	if a.Overlays.Len() != 1 {
		t.Fatalf("expected confirmation overlay, got %d overlays", a.Overlays.Len())
	}
	top, _ := a.Overlays.Peek()
	modal, ok := top.View.(*ConfirmModal)
	if !ok {
		t.Fatalf("expected ConfirmModal, got %T", top.View)
	}
	if modal.Cluster.ID != "cl-1" {
		t.Errorf("modal cluster = %q, want cl-1", modal.Cluster.ID)
	}

	// Enter confirms: the modal yields ArchiveClusterMsg.
	_, cmd := adapter.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected confirm cmd from Enter")
	}
	msg := cmd()
	archive, ok := msg.(ArchiveClusterMsg)
	if !ok {
		t.Fatalf("expected ArchiveClusterMsg, got %T", msg)
	}
	if archive.SessionID != "sess-1" || archive.ClusterID != "cl-1" {
		t.Errorf("ArchiveClusterMsg = %+v", archive)
	}

	_, cmd = adapter.Update(archive)
	if a.Overlays.Len() != 0 {
		t.Error("expected the modal closed once the archive is underway")
	}
	if cmd == nil {
		t.Fatal("expected backend cmd for the archive")
	}
	_, _ = adapter.Update(cmd())

	if gotSession != "sess-1" {
		t.Errorf("backend saw session %q, want sess-1", gotSession)
	}
	if !inbox.Clusters[0].Archived || inbox.Clusters[0].ArchivedAt == nil {
		t.Error("expected cl-1 marked archived")
	}
	if inbox.Clusters[1].Archived {
		t.Error("cl-2 must stay untouched")
	}
	if a.StatusIsError || a.Status != "Archived 3 emails" {
		t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
	}
}

func TestArchiveCluster_EscCancels(t *testing.T) {
	inbox := NewInboxView()
	inbox.Session = &api.InboxSession{SessionID: "sess-1", Address: "dev@example.com"}
	inbox.SetClusters([]api.Cluster{{ID: "cl-1", Theme: "Newsletters"}})
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeInbox
	a.Inbox = inbox
	adapter := &appModelAdapter{AppModel: a}

	_, _ = adapter.Update(ShowArchiveClusterMsg{Cluster: inbox.Clusters[0]})
	if a.Overlays.Len() != 1 {
		t.Fatalf("expected confirmation overlay, got %d", a.Overlays.Len())
	}
	_, _ = adapter.Update(keyMsg("esc"))
	if a.Overlays.Len() != 0 {
		t.Errorf("expected overlay dismissed, got %d", a.Overlays.Len())
	}
	if inbox.Clusters[0].Archived {
		t.Error("cancel must not archive anything")
	}
}

func TestShowRequests_SingleOverlay(t *testing.T) {
	trace := reqtrace.NewLog(16)
	trace.Record(reqtrace.Event{
		RequestID: "0b7f9a3c-1111-2222-3333-444444444444",
		Method:    "GET",
		Path:      "/api/analysis",
		Status:    200,
		Start:     time.Now(),
		Duration:  120 * time.Millisecond,
	})
	a := NewAppModel(api.New(""), nil, trace, nil, "test")
	adapter := &appModelAdapter{AppModel: a}

	_, _ = adapter.Update(ShowRequestsMsg{})
	if a.Overlays.Len() != 1 {
		t.Fatalf("expected requests overlay, got %d", a.Overlays.Len())
	}
	top, _ := a.Overlays.Peek()
	if _, ok := top.View.(*RequestsModal); !ok {
		t.Fatalf("expected RequestsModal, got %T", top.View)
	}

	// Asking again while open is a no-op.
	_, _ = adapter.Update(ShowRequestsMsg{})
	if a.Overlays.Len() != 1 {
		t.Errorf("expected a single requests overlay, got %d", a.Overlays.Len())
	}

	view := adapter.View()
	if !strings.Contains(view, "Backend requests") || !strings.Contains(view, "/api/analysis") {
		t.Errorf("overlay view missing request rows:\n%s", view)
	}

	// q closes it through the modal's own handler.
	_, cmd := adapter.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected dismiss cmd from q")
	}
	_, _ = adapter.Update(cmd())
	if a.Overlays.Len() != 0 {
		t.Errorf("expected overlay closed, got %d", a.Overlays.Len())
	}
}

func TestShowRequests_NoTraceConfigured(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(ShowRequestsMsg{})
	if cmd != nil || a.Overlays.Len() != 0 {
		t.Error("expected no overlay without a request log")
	}
}

// TestSlidesPoll_UploadToTranscript drives the voice pipeline end to end:
// upload tracks the job and starts the poll, a live tick fetches status, and
// a finished transcription fetches its transcript without user input.
func TestSlidesPoll_UploadToTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/voice/jobs/job-1":
			_ = json.NewEncoder(w).Encode(api.SlideJob{
				ID:       "job-1",
				Status:   api.StatusCompleted,
				Stage:    api.StageTranscription,
				Progress: 100,
			})
		case "/api/voice/jobs/job-1/transcript":
			_ = json.NewEncoder(w).Encode(api.Transcript{
				JobID:    "job-1",
				Language: "en",
				Text:     "welcome everyone",
				Segments: []api.Segment{{Start: 0, End: 2.1, Text: "welcome everyone", Confidence: 0.97}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a := NewAppModel(api.New(srv.URL), nil, nil, nil, "test")
	a.Mode = ModeSlides
	a.Slides = NewSlidesView()
	v := a.Slides
	adapter := &appModelAdapter{AppModel: a}

	created := &api.SlideJob{ID: "job-1", Status: api.StatusProcessing, Stage: api.StageTranscription}
	_, cmd := adapter.Update(SlideJobCreatedMsg{Job: created})
	if cmd == nil {
		t.Fatal("expected a poll tick cmd after upload")
	}
	if !v.Polling || v.PollGen != 1 || v.PollID != "job-1" {
		t.Fatalf("poll state after upload: Polling=%v Gen=%d ID=%q", v.Polling, v.PollGen, v.PollID)
	}
	if a.Status != "Transcribing audio" {
		t.Errorf("Status = %q", a.Status)
	}

	// Deliver the tick by hand instead of waiting out tea.Tick.
	_, cmd = adapter.Update(SlidePollTickMsg{Gen: v.PollGen})
	if cmd == nil {
		t.Fatal("expected fetch cmd from live tick")
	}
	if v.PollAttempts != 1 {
		t.Errorf("PollAttempts = %d, want 1", v.PollAttempts)
	}

	status, ok := cmd().(SlideJobStatusMsg)
	if !ok {
		t.Fatalf("expected SlideJobStatusMsg, got %T", cmd())
	}
	_, cmd = adapter.Update(status)
	if v.Polling {
		t.Error("expected polling stopped at terminal status")
	}
	if v.Job == nil || v.Job.Status != api.StatusCompleted {
		t.Fatalf("Job = %+v", v.Job)
	}
	if a.StatusIsError || a.Status != "Transcript ready" {
		t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
	}
	if cmd == nil {
		t.Fatal("expected a transcript fetch after the finished transcription")
	}

	loaded, ok := cmd().(TranscriptLoadedMsg)
	if !ok {
		t.Fatalf("expected TranscriptLoadedMsg, got %T", cmd())
	}
	_, _ = adapter.Update(loaded)
	if v.Transcript == nil || v.Transcript.Text != "welcome everyone" {
		t.Errorf("Transcript = %+v", v.Transcript)
	}
}

func TestSlidesPoll_TickFetchesThenStopsAtCap(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeSlides
	a.Slides = NewSlidesView()
	v := a.Slides
	v.Polling = true
	v.PollGen = 1
	v.PollID = "job-1"
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(SlidePollTickMsg{Gen: 1})
	if cmd == nil {
		t.Fatal("expected fetch cmd from live tick")
	}
	if v.PollAttempts != 1 {
		t.Errorf("PollAttempts = %d, want 1", v.PollAttempts)
	}

	// The test client has no backend: the fetch fails fast and the error
	// stops the loop.
	_, _ = adapter.Update(cmd())
	if !a.StatusIsError || !strings.Contains(a.Status, "Job status") {
		t.Errorf("Status = %q, want fetch failure surfaced", a.Status)
	}
	if v.Polling {
		t.Error("a failed fetch should stop the poll loop")
	}

	// At the ceiling the loop gives up instead of ticking again.
	v.Polling = true
	v.PollAttempts = maxPollAttempts
	_, cmd = adapter.Update(SlidePollTickMsg{Gen: 1})
	if cmd != nil {
		t.Error("expected no cmd at the attempt ceiling")
	}
	if v.Polling {
		t.Error("expected polling stopped at the ceiling")
	}
	if !a.StatusIsError || !strings.Contains(a.Status, "Gave up") {
		t.Errorf("Status = %q, want give-up message", a.Status)
	}
}

func TestSlidesPoll_StaleGenerationDropped(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeSlides
	a.Slides = NewSlidesView()
	v := a.Slides
	v.Polling = true
	v.PollGen = 2
	v.PollID = "job-2"
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(SlidePollTickMsg{Gen: 1})
	if cmd != nil {
		t.Error("tick from an abandoned generation must not fetch")
	}
	if v.PollAttempts != 0 || !v.Polling {
		t.Errorf("stale tick mutated poll state: attempts=%d polling=%v", v.PollAttempts, v.Polling)
	}

	// A late status from the old generation must not repaint the job or
	// fetch its transcript.
	done := &api.SlideJob{ID: "job-1", Status: api.StatusCompleted, Stage: api.StageTranscription}
	_, cmd = adapter.Update(SlideJobStatusMsg{Gen: 1, Job: done})
	if cmd != nil {
		t.Error("stale status must not schedule anything")
	}
	if v.Job != nil {
		t.Error("stale status must not be committed")
	}
}

// TestSlidesGeneration_PollsToDeckReady covers the second poll phase: deck
// generation reuses the same bounded loop and ends on the ready deck.
func TestSlidesGeneration_PollsToDeckReady(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeSlides
	a.Slides = NewSlidesView()
	v := a.Slides
	v.SetJob(api.SlideJob{ID: "job-1", Status: api.StatusCompleted, Stage: api.StageTranscription})
	v.SetTranscript(api.Transcript{JobID: "job-1", Text: "welcome"})
	adapter := &appModelAdapter{AppModel: a}

	job := &api.SlideJob{ID: "job-1", Status: api.StatusProcessing, Stage: api.StageGeneration}
	_, cmd := adapter.Update(SlidesRequestedMsg{Job: job})
	if cmd == nil {
		t.Fatal("expected a poll tick cmd after requesting slides")
	}
	if !v.Polling || v.PollGen != 1 || v.PollID != "job-1" {
		t.Fatalf("poll state: Polling=%v Gen=%d ID=%q", v.Polling, v.PollGen, v.PollID)
	}
	if v.Transcript == nil {
		t.Fatal("generation on the same job must keep the transcript")
	}

	ready := &api.SlideJob{ID: "job-1", Status: api.StatusCompleted, Stage: api.StageGeneration, DeckReady: true}
	_, cmd = adapter.Update(SlideJobStatusMsg{Gen: 1, Job: ready})
	if cmd != nil {
		t.Error("expected no further tick once the deck is ready")
	}
	if v.Polling {
		t.Error("expected polling stopped")
	}
	if v.Job == nil || !v.Job.DeckReady {
		t.Errorf("Job = %+v", v.Job)
	}
	if a.StatusIsError || a.Status != "Deck ready, press d to download" {
		t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
	}
}

// TestRecorderFlow_MeterLinesAndAutoUpload drives the recorder messages: the
// meter channel is read until it closes, and stopping hands the capture file
// straight to the uploader.
func TestRecorderFlow_MeterLinesAndAutoUpload(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeSlides
	a.Slides = NewSlidesView()
	adapter := &appModelAdapter{AppModel: a}

	lines := make(chan string, 1)
	_, cmd := adapter.Update(RecorderStartedMsg{Lines: lines})
	if !a.Slides.Recording {
		t.Fatal("expected recording flag set")
	}
	if a.Status != "Recording, press r to stop" {
		t.Errorf("Status = %q", a.Status)
	}
	if cmd == nil {
		t.Fatal("expected a meter wait cmd")
	}

	lines <- "mic  -18 dB"
	msg := cmd()
	line, ok := msg.(RecorderLineMsg)
	if !ok || line.Line != "mic  -18 dB" || line.Closed {
		t.Fatalf("meter msg = %#v", msg)
	}
	_, cmd = adapter.Update(line)
	if a.Slides.MeterLine != "mic  -18 dB" {
		t.Errorf("MeterLine = %q", a.Slides.MeterLine)
	}
	if cmd == nil {
		t.Fatal("expected a re-wait cmd while the channel is open")
	}

	close(lines)
	msg = cmd()
	line, ok = msg.(RecorderLineMsg)
	if !ok || !line.Closed {
		t.Fatalf("expected closed meter msg, got %#v", msg)
	}
	_, cmd = adapter.Update(line)
	if cmd != nil {
		t.Error("expected no re-wait once the channel closed")
	}

	// Stop: the capture file goes straight to upload.
	_, cmd = adapter.Update(RecorderStoppedMsg{Path: "/tmp/capture.wav"})
	if a.Slides.Recording {
		t.Error("expected recording flag cleared")
	}
	if a.Status != "Recording saved, uploading" {
		t.Errorf("Status = %q", a.Status)
	}
	if cmd == nil {
		t.Error("expected upload cmd after stop")
	}
}

func TestToggleRecording_NoRecorderConfigured(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeSlides
	a.Slides = NewSlidesView()
	adapter := &appModelAdapter{AppModel: a}

	_, cmd := adapter.Update(ToggleRecordingMsg{})
	if cmd != nil {
		t.Error("expected no cmd without a recorder")
	}
	if !a.StatusIsError || a.Status != "No recorder configured" {
		t.Errorf("Status = %q StatusIsError=%v", a.Status, a.StatusIsError)
	}
}

func TestMemoryMatches_StaleSeqDropped(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeMemory
	a.Memory = NewMemoryView()
	v := a.Memory
	v.SearchSeq = 2
	adapter := &appModelAdapter{AppModel: a}

	stale := []api.ImageMatch{{Image: api.ImageRecord{ID: "img-1", Filename: "old.png"}}}
	_, _ = adapter.Update(MemoryMatchesMsg{Query: "whiteboard", Seq: 1, Matches: stale})
	if len(v.Matches) != 0 {
		t.Fatal("stale matches must be dropped")
	}

	fresh := []api.ImageMatch{
		{Image: api.ImageRecord{ID: "img-2", Filename: "notes.png"}, Score: 0.88},
		{Image: api.ImageRecord{ID: "img-3", Filename: "board.png"}, Score: 0.71},
	}
	_, _ = adapter.Update(MemoryMatchesMsg{Query: "whiteboard sketch", Seq: 2, Matches: fresh})
	if len(v.Matches) != 2 || v.LastQuery != "whiteboard sketch" {
		t.Errorf("Matches=%d LastQuery=%q", len(v.Matches), v.LastQuery)
	}
	if a.Status != "2 matches" {
		t.Errorf("Status = %q", a.Status)
	}
}

func TestWindowSize_ReachesActiveView(t *testing.T) {
	a := NewAppModel(api.New(""), nil, nil, nil, "test")
	a.Mode = ModeAnalysis
	a.Analysis = NewAnalysisView()
	adapter := &appModelAdapter{AppModel: a}

	_, _ = adapter.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if a.width != 100 || a.height != 40 {
		t.Fatalf("size = %dx%d", a.width, a.height)
	}
	// The view gets the height minus header and status line.
	if a.Analysis.width != 100 || a.Analysis.height != 37 {
		t.Errorf("view size = %dx%d, want 100x37", a.Analysis.width, a.Analysis.height)
	}
}
