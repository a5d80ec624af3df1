package ui

import (
	"time"

	"prism/internal/api"
)

// SwitchToolMsg switches the app to a tool screen, creating a fresh view.
type SwitchToolMsg struct {
	Mode AppMode
}

// ShowHomeMsg returns to the home screen, discarding the current tool view.
type ShowHomeMsg struct{}

// ShowRequestsMsg opens the request telemetry overlay.
type ShowRequestsMsg struct{}

// RequestLogChangedMsg repaints after the request log records an event, so
// an open requests overlay stays live while work runs in the background.
type RequestLogChangedMsg struct{}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// Repo analysis messages.

// SubmitRepoMsg is sent when user submits a repository URL for analysis.
type SubmitRepoMsg struct {
	URL string
}

// SelectAnalysisMsg is sent when user picks an analysis from the list.
type SelectAnalysisMsg struct {
	ID string
}

// AskRepoMsg is sent when user submits a question about the selected analysis.
type AskRepoMsg struct {
	AnalysisID string
	Question   string
}

// RefreshAnalysesMsg reloads the analysis list.
type RefreshAnalysesMsg struct{}

// ReportKind names one of the three analysis reports.
type ReportKind int

const (
	ReportEvolution ReportKind = iota
	ReportOwnership
	ReportFeatures
)

// LoadReportMsg is sent when user requests a report for the selected analysis.
type LoadReportMsg struct {
	AnalysisID string
	Kind       ReportKind
}

// AnalysesLoadedMsg carries the analysis list (or the error loading it).
type AnalysesLoadedMsg struct {
	Analyses []api.Analysis
	Err      error
}

// AnalysisCreatedMsg is the response to submitting a repository URL.
type AnalysisCreatedMsg struct {
	Analysis *api.Analysis
	Err      error
}

// AnalysisStatusMsg carries one analysis fetched while polling or selecting.
// Gen ties the response to the poll generation that requested it.
type AnalysisStatusMsg struct {
	Gen      int
	Analysis *api.Analysis
	Err      error
}

// AnalysisPollTickMsg fires roughly once a second while an analysis runs.
type AnalysisPollTickMsg struct {
	Gen int
}

// AnalysisAnswerMsg is the response to a repository question. Seq ties the
// response to the submission; stale answers are dropped.
type AnalysisAnswerMsg struct {
	AnalysisID string
	Seq        int
	Result     *api.QueryResult
	Err        error
}

// EvolutionLoadedMsg carries the evolution report for one analysis.
type EvolutionLoadedMsg struct {
	AnalysisID string
	Report     *api.EvolutionReport
	Err        error
}

// OwnershipLoadedMsg carries the ownership report for one analysis.
type OwnershipLoadedMsg struct {
	AnalysisID string
	Report     *api.OwnershipReport
	Err        error
}

// FeaturesLoadedMsg carries the feature report for one analysis.
type FeaturesLoadedMsg struct {
	AnalysisID string
	Report     *api.FeatureReport
	Err        error
}

// Knowledge graph messages.

// SubmitGraphProjectMsg is sent when user creates a graph project.
type SubmitGraphProjectMsg struct {
	Name        string
	Description string
}

// SelectGraphProjectMsg is sent when user picks a graph project.
type SelectGraphProjectMsg struct {
	ID string
}

// IngestPathMsg is sent when user submits a local file for ingestion.
type IngestPathMsg struct {
	ProjectID string
	Path      string
}

// IngestPageMsg is sent when user submits a URL for ingestion.
type IngestPageMsg struct {
	ProjectID string
	URL       string
}

// TriggerBuildMsg is sent when user starts a graph build.
type TriggerBuildMsg struct {
	ProjectID string
}

// AskGraphMsg is sent when user submits a question against the graph.
type AskGraphMsg struct {
	ProjectID string
	Question  string
}

// LoadVizMsg is sent when user requests the graph visualization.
type LoadVizMsg struct {
	ProjectID string
}

// RefreshGraphProjectsMsg reloads the graph project list.
type RefreshGraphProjectsMsg struct{}

// GraphProjectsLoadedMsg carries the graph project list.
type GraphProjectsLoadedMsg struct {
	Projects []api.GraphProject
	Err      error
}

// GraphProjectCreatedMsg is the response to creating a graph project.
type GraphProjectCreatedMsg struct {
	Project *api.GraphProject
	Err     error
}

// GraphProjectStatusMsg carries one project fetched while polling a build.
type GraphProjectStatusMsg struct {
	Gen     int
	Project *api.GraphProject
	Err     error
}

// GraphPollTickMsg fires roughly once a second while a graph build runs.
type GraphPollTickMsg struct {
	Gen int
}

// DocumentIngestedMsg is the response to uploading a document or URL.
type DocumentIngestedMsg struct {
	ProjectID string
	Source    string
	Result    *api.IngestResult
	Err       error
}

// GraphBuildStartedMsg is the response to triggering a graph build.
type GraphBuildStartedMsg struct {
	Project *api.GraphProject
	Err     error
}

// GraphAnswerMsg is the response to a graph question.
type GraphAnswerMsg struct {
	ProjectID string
	Seq       int
	Answer    *api.GraphAnswer
	Err       error
}

// GraphVizLoadedMsg carries the node-edge projection of a built graph.
type GraphVizLoadedMsg struct {
	ProjectID string
	Viz       *api.Visualization
	Err       error
}

// Inbox triage messages.

// SubmitInboxAuthMsg is sent when user submits mailbox credentials.
type SubmitInboxAuthMsg struct {
	Address string
	Token   string
}

// FetchEmailsMsg is sent when user requests the inbox to be fetched.
type FetchEmailsMsg struct{}

// ClusterEmailsMsg is sent when user requests clustering.
type ClusterEmailsMsg struct{}

// InboxAuthenticatedMsg is the response to submitting mailbox credentials.
type InboxAuthenticatedMsg struct {
	Session *api.InboxSession
	Err     error
}

// EmailsFetchedMsg carries classified messages for a session.
type EmailsFetchedMsg struct {
	SessionID string
	Seq       int
	Emails    []api.Email
	Err       error
}

// ClustersLoadedMsg carries triage clusters for a session.
type ClustersLoadedMsg struct {
	SessionID string
	Seq       int
	Clusters  []api.Cluster
	Err       error
}

// ShowArchiveClusterMsg opens the archive confirmation for the selected cluster.
type ShowArchiveClusterMsg struct {
	Cluster api.Cluster
}

// ArchiveClusterMsg is sent when user confirms archiving a cluster.
type ArchiveClusterMsg struct {
	SessionID string
	ClusterID string
}

// ClusterArchivedMsg is the backend confirmation of a cluster archive.
type ClusterArchivedMsg struct {
	ClusterID string
	Result    *api.ArchiveResult
	Err       error
}

// Voice-to-slide messages.

// SubmitAudioMsg is sent when user submits a recording file for upload.
type SubmitAudioMsg struct {
	Path string
}

// ToggleRecordingMsg starts the capture command, or stops it and uploads
// the captured file.
type ToggleRecordingMsg struct{}

// RequestSlidesMsg is sent when user asks for deck generation.
type RequestSlidesMsg struct {
	JobID string
	Style string
}

// RequestDeckMsg is sent when user asks to download the finished deck.
type RequestDeckMsg struct {
	JobID string
}

// SlideJobCreatedMsg is the response to uploading a recording.
type SlideJobCreatedMsg struct {
	Job *api.SlideJob
	Err error
}

// SlidePollTickMsg fires roughly once a second while a slide job runs.
type SlidePollTickMsg struct {
	Gen int
}

// SlideJobStatusMsg carries one slide job fetched while polling.
type SlideJobStatusMsg struct {
	Gen int
	Job *api.SlideJob
	Err error
}

// TranscriptLoadedMsg carries the transcript of a completed transcription.
type TranscriptLoadedMsg struct {
	JobID      string
	Transcript *api.Transcript
	Err        error
}

// SlidesRequestedMsg is the response to triggering deck generation.
type SlidesRequestedMsg struct {
	Job *api.SlideJob
	Err error
}

// DeckDownloadedMsg reports where the finished deck landed on disk.
type DeckDownloadedMsg struct {
	JobID string
	Path  string
	Err   error
}

// RecorderStartedMsg reports the outcome of launching the capture command.
type RecorderStartedMsg struct {
	Lines <-chan string
	Err   error
}

// RecorderLineMsg carries one meter line from the capture command.
// Closed is true when the command exited and the channel drained.
type RecorderLineMsg struct {
	Line   string
	Closed bool
}

// RecorderStoppedMsg reports the capture file after stopping the recorder.
type RecorderStoppedMsg struct {
	Path string
	Err  error
}

// Visual memory messages.

// SubmitImageMsg is sent when user submits an image for upload.
type SubmitImageMsg struct {
	Path string
	Note string
}

// SearchMemoryMsg is sent when user submits a description search.
type SearchMemoryMsg struct {
	Query string
}

// RequestThumbnailMsg is sent when user asks for a preview of a match.
type RequestThumbnailMsg struct {
	ImageID string
}

// RefreshImagesMsg reloads the stored image list.
type RefreshImagesMsg struct{}

// ImagesLoadedMsg carries the stored image list.
type ImagesLoadedMsg struct {
	Images []api.ImageRecord
	Err    error
}

// ImageUploadedMsg is the response to uploading an image.
type ImageUploadedMsg struct {
	Image *api.ImageRecord
	Err   error
}

// MemoryMatchesMsg carries search hits. Seq ties the response to the
// submission; stale result sets are dropped.
type MemoryMatchesMsg struct {
	Query   string
	Seq     int
	Matches []api.ImageMatch
	Err     error
}

// ThumbnailSavedMsg reports where a preview image landed on disk.
type ThumbnailSavedMsg struct {
	ImageID string
	Path    string
	Err     error
}

// tickInterval is the delay between poll attempts.
const tickInterval = time.Second

// maxPollAttempts bounds every poll loop; at one tick per second this is
// about thirty seconds of waiting before giving up.
const maxPollAttempts = 30
