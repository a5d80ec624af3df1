package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"prism/internal/api"
)

// handleSubmitRepo handles SubmitRepoMsg by creating an analysis.
func (a *appModelAdapter) handleSubmitRepo(msg SubmitRepoMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, createAnalysisCmd(a.Client, msg.URL)
}

// handleSelectAnalysis handles SelectAnalysisMsg by making the analysis
// current and, when it is still running, watching it until it settles.
func (a *appModelAdapter) handleSelectAnalysis(msg SelectAnalysisMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil {
		return a, nil
	}
	for _, each := range v.Analyses {
		if each.ID != msg.ID {
			continue
		}
		v.SetCurrent(each)
		if !each.Status.Terminal() {
			v.PollGen++
			v.PollAttempts = 0
			v.PollID = each.ID
			v.Polling = true
			return a, fetchAnalysisCmd(a.Client, each.ID, v.PollGen)
		}
		return a, nil
	}
	return a, nil
}

// handleAskRepo handles AskRepoMsg by sending the question. The bumped
// sequence number invalidates any answer still in flight.
func (a *appModelAdapter) handleAskRepo(msg AskRepoMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	v.AnswerSeq++
	return a, queryAnalysisCmd(a.Client, msg.AnalysisID, msg.Question, v.AnswerSeq)
}

// handleRefreshAnalyses handles RefreshAnalysesMsg by reloading the list.
func (a *appModelAdapter) handleRefreshAnalyses() (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, loadAnalysesCmd(a.Client)
}

// handleLoadReport handles LoadReportMsg by fetching the requested report.
func (a *appModelAdapter) handleLoadReport(msg LoadReportMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	switch msg.Kind {
	case ReportEvolution:
		return a, loadEvolutionCmd(a.Client, msg.AnalysisID)
	case ReportOwnership:
		return a, loadOwnershipCmd(a.Client, msg.AnalysisID)
	case ReportFeatures:
		return a, loadFeaturesCmd(a.Client, msg.AnalysisID)
	}
	v.SetLoading(false)
	return a, nil
}

// handleAnalysesLoaded handles AnalysesLoadedMsg by replacing the list.
func (a *appModelAdapter) handleAnalysesLoaded(msg AnalysesLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Load analyses", msg.Err)
		return a, nil
	}
	v.SetAnalyses(msg.Analyses)
	return a, nil
}

// handleAnalysisCreated handles AnalysisCreatedMsg by appending the new
// analysis, selecting it, and polling until it settles.
func (a *appModelAdapter) handleAnalysisCreated(msg AnalysisCreatedMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Analyze repository", msg.Err)
		return a, nil
	}
	analysis := *msg.Analysis
	v.UpsertAnalysis(analysis, true)
	a.setStatus("Analysis started for " + shortRepo(analysis.RepoURL))
	v.PollGen++
	v.PollAttempts = 0
	v.PollID = analysis.ID
	v.Polling = true
	return a, analysisPollTickCmd(v.PollGen)
}

// handleAnalysisPollTick handles AnalysisPollTickMsg by fetching fresh
// status, up to the attempt ceiling. Ticks from an abandoned generation
// are dropped.
func (a *appModelAdapter) handleAnalysisPollTick(msg AnalysisPollTickMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil || !v.Polling || msg.Gen != v.PollGen {
		return a, nil
	}
	if v.PollAttempts >= maxPollAttempts {
		v.Polling = false
		a.failText("Gave up waiting for the analysis; press r to refresh")
		return a, nil
	}
	v.PollAttempts++
	return a, fetchAnalysisCmd(a.Client, v.PollID, v.PollGen)
}

// handleAnalysisStatus handles AnalysisStatusMsg by committing the fetched
// analysis and scheduling the next tick while it is still running.
func (a *appModelAdapter) handleAnalysisStatus(msg AnalysisStatusMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil || msg.Gen != v.PollGen {
		return a, nil
	}
	if msg.Err != nil {
		v.Polling = false
		a.fail("Analysis status", msg.Err)
		return a, nil
	}
	analysis := *msg.Analysis
	v.UpsertAnalysis(analysis, false)
	if analysis.Status.Terminal() {
		v.Polling = false
		if analysis.Status == api.StatusCompleted {
			a.setStatus("Analysis completed")
		} else if analysis.Error != "" {
			a.failText("Analysis failed: " + analysis.Error)
		} else {
			a.failText("Analysis failed")
		}
		return a, nil
	}
	if v.Polling {
		return a, analysisPollTickCmd(v.PollGen)
	}
	return a, nil
}

// handleAnalysisAnswer handles AnalysisAnswerMsg. Answers for a question
// that has since been replaced, or for a different analysis, are dropped.
func (a *appModelAdapter) handleAnalysisAnswer(msg AnalysisAnswerMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil || msg.Seq != v.AnswerSeq {
		return a, nil
	}
	if v.Current == nil || v.Current.ID != msg.AnalysisID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Query", msg.Err)
		return a, nil
	}
	v.SetAnswer(*msg.Result)
	return a, nil
}

// handleEvolutionLoaded handles EvolutionLoadedMsg for the current analysis.
func (a *appModelAdapter) handleEvolutionLoaded(msg EvolutionLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil || v.Current == nil || v.Current.ID != msg.AnalysisID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Evolution report", msg.Err)
		return a, nil
	}
	v.SetEvolution(*msg.Report)
	return a, nil
}

// handleOwnershipLoaded handles OwnershipLoadedMsg for the current analysis.
func (a *appModelAdapter) handleOwnershipLoaded(msg OwnershipLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil || v.Current == nil || v.Current.ID != msg.AnalysisID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Ownership report", msg.Err)
		return a, nil
	}
	v.SetOwnership(*msg.Report)
	return a, nil
}

// handleFeaturesLoaded handles FeaturesLoadedMsg for the current analysis.
func (a *appModelAdapter) handleFeaturesLoaded(msg FeaturesLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Analysis
	if a.Mode != ModeAnalysis || v == nil || v.Current == nil || v.Current.ID != msg.AnalysisID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Feature report", msg.Err)
		return a, nil
	}
	v.SetFeatures(*msg.Report)
	return a, nil
}
