package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"prism/internal/api"
)

// handleSubmitGraphProject handles SubmitGraphProjectMsg by creating the project.
func (a *appModelAdapter) handleSubmitGraphProject(msg SubmitGraphProjectMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, createGraphProjectCmd(a.Client, msg.Name, msg.Description)
}

// handleSelectGraphProject handles SelectGraphProjectMsg by making the
// project current and, when a build is still running, watching it.
func (a *appModelAdapter) handleSelectGraphProject(msg SelectGraphProjectMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	for _, each := range v.Projects {
		if each.ID != msg.ID {
			continue
		}
		v.SetCurrent(each)
		if !each.Status.Terminal() {
			v.PollGen++
			v.PollAttempts = 0
			v.PollID = each.ID
			v.Polling = true
			return a, fetchGraphProjectCmd(a.Client, each.ID, v.PollGen)
		}
		return a, nil
	}
	return a, nil
}

// handleIngestPath handles IngestPathMsg by uploading the local file.
func (a *appModelAdapter) handleIngestPath(msg IngestPathMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, ingestDocumentCmd(a.Client, msg.ProjectID, msg.Path)
}

// handleIngestPage handles IngestPageMsg by submitting the URL for ingestion.
func (a *appModelAdapter) handleIngestPage(msg IngestPageMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, ingestURLCmd(a.Client, msg.ProjectID, msg.URL)
}

// handleTriggerBuild handles TriggerBuildMsg by starting a graph build.
func (a *appModelAdapter) handleTriggerBuild(msg TriggerBuildMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, buildGraphCmd(a.Client, msg.ProjectID)
}

// handleAskGraph handles AskGraphMsg by sending the question. The bumped
// sequence number invalidates any answer still in flight.
func (a *appModelAdapter) handleAskGraph(msg AskGraphMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	v.AnswerSeq++
	return a, queryGraphCmd(a.Client, msg.ProjectID, msg.Question, v.AnswerSeq)
}

// handleLoadViz handles LoadVizMsg by fetching the node-edge projection.
func (a *appModelAdapter) handleLoadViz(msg LoadVizMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, loadGraphVizCmd(a.Client, msg.ProjectID)
}

// handleRefreshGraphProjects handles RefreshGraphProjectsMsg.
func (a *appModelAdapter) handleRefreshGraphProjects() (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, loadGraphProjectsCmd(a.Client)
}

// handleGraphProjectsLoaded handles GraphProjectsLoadedMsg by replacing the list.
func (a *appModelAdapter) handleGraphProjectsLoaded(msg GraphProjectsLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Load projects", msg.Err)
		return a, nil
	}
	v.SetProjects(msg.Projects)
	return a, nil
}

// handleGraphProjectCreated handles GraphProjectCreatedMsg by appending the
// new project and selecting it.
func (a *appModelAdapter) handleGraphProjectCreated(msg GraphProjectCreatedMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Create project", msg.Err)
		return a, nil
	}
	v.UpsertProject(*msg.Project, true)
	a.setStatus("Project created: " + msg.Project.Name)
	return a, nil
}

// handleGraphPollTick handles GraphPollTickMsg by fetching fresh status,
// up to the attempt ceiling.
func (a *appModelAdapter) handleGraphPollTick(msg GraphPollTickMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil || !v.Polling || msg.Gen != v.PollGen {
		return a, nil
	}
	if v.PollAttempts >= maxPollAttempts {
		v.Polling = false
		a.failText("Gave up waiting for the graph build; press r to refresh")
		return a, nil
	}
	v.PollAttempts++
	return a, fetchGraphProjectCmd(a.Client, v.PollID, v.PollGen)
}

// handleGraphProjectStatus handles GraphProjectStatusMsg by committing the
// fetched project. A completed build refreshes the visualization.
func (a *appModelAdapter) handleGraphProjectStatus(msg GraphProjectStatusMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil || msg.Gen != v.PollGen {
		return a, nil
	}
	if msg.Err != nil {
		v.Polling = false
		a.fail("Project status", msg.Err)
		return a, nil
	}
	project := *msg.Project
	v.UpsertProject(project, false)
	if project.Status.Terminal() {
		wasPolling := v.Polling
		v.Polling = false
		if project.Status == api.StatusCompleted && wasPolling {
			a.setStatus(fmt.Sprintf("Graph built: %d nodes, %d edges", project.Stats.Nodes, project.Stats.Edges))
			return a, loadGraphVizCmd(a.Client, project.ID)
		}
		if project.Status == api.StatusFailed {
			a.failText("Graph build failed")
		}
		return a, nil
	}
	if v.Polling {
		return a, graphPollTickCmd(v.PollGen)
	}
	return a, nil
}

// handleDocumentIngested handles DocumentIngestedMsg by recording the
// result and refreshing the project's counters.
func (a *appModelAdapter) handleDocumentIngested(msg DocumentIngestedMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil || v.Current == nil || v.Current.ID != msg.ProjectID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Ingest", msg.Err)
		return a, nil
	}
	v.SetIngest(*msg.Result)
	a.setStatus(fmt.Sprintf("Ingested %q (%d chunks)", msg.Result.Title, msg.Result.Chunks))
	// One-shot fetch to pick up the new document count.
	v.PollGen++
	return a, fetchGraphProjectCmd(a.Client, msg.ProjectID, v.PollGen)
}

// handleGraphBuildStarted handles GraphBuildStartedMsg by polling the
// build until it settles.
func (a *appModelAdapter) handleGraphBuildStarted(msg GraphBuildStartedMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Build graph", msg.Err)
		return a, nil
	}
	project := *msg.Project
	v.UpsertProject(project, false)
	a.setStatus("Graph build started")
	v.PollGen++
	v.PollAttempts = 0
	v.PollID = project.ID
	v.Polling = true
	return a, graphPollTickCmd(v.PollGen)
}

// handleGraphAnswer handles GraphAnswerMsg. Stale answers are dropped.
func (a *appModelAdapter) handleGraphAnswer(msg GraphAnswerMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil || msg.Seq != v.AnswerSeq {
		return a, nil
	}
	if v.Current == nil || v.Current.ID != msg.ProjectID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Query", msg.Err)
		return a, nil
	}
	v.SetAnswer(*msg.Answer)
	return a, nil
}

// handleGraphVizLoaded handles GraphVizLoadedMsg for the current project.
func (a *appModelAdapter) handleGraphVizLoaded(msg GraphVizLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Graph
	if a.Mode != ModeGraph || v == nil || v.Current == nil || v.Current.ID != msg.ProjectID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Visualization", msg.Err)
		return a, nil
	}
	v.SetViz(*msg.Viz)
	return a, nil
}
