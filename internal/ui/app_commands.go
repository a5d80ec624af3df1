package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"prism/internal/api"
	"prism/internal/record"
)

// Commands wrap client calls in tea.Cmd closures. Each returns a message
// carrying either the payload or the error; handlers decide what to commit.
// The client enforces its own timeout, so context.Background() is fine here.

func loadAnalysesCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		analyses, err := c.ListAnalyses(context.Background())
		return AnalysesLoadedMsg{Analyses: analyses, Err: err}
	}
}

func createAnalysisCmd(c *api.Client, repoURL string) tea.Cmd {
	return func() tea.Msg {
		analysis, err := c.CreateAnalysis(context.Background(), repoURL)
		return AnalysisCreatedMsg{Analysis: analysis, Err: err}
	}
}

func fetchAnalysisCmd(c *api.Client, id string, gen int) tea.Cmd {
	return func() tea.Msg {
		analysis, err := c.GetAnalysis(context.Background(), id)
		return AnalysisStatusMsg{Gen: gen, Analysis: analysis, Err: err}
	}
}

func queryAnalysisCmd(c *api.Client, id, question string, seq int) tea.Cmd {
	return func() tea.Msg {
		result, err := c.QueryAnalysis(context.Background(), id, question)
		return AnalysisAnswerMsg{AnalysisID: id, Seq: seq, Result: result, Err: err}
	}
}

func loadEvolutionCmd(c *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		report, err := c.AnalysisEvolution(context.Background(), id)
		return EvolutionLoadedMsg{AnalysisID: id, Report: report, Err: err}
	}
}

func loadOwnershipCmd(c *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		report, err := c.AnalysisOwnership(context.Background(), id)
		return OwnershipLoadedMsg{AnalysisID: id, Report: report, Err: err}
	}
}

func loadFeaturesCmd(c *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		report, err := c.AnalysisFeatures(context.Background(), id)
		return FeaturesLoadedMsg{AnalysisID: id, Report: report, Err: err}
	}
}

func analysisPollTickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return AnalysisPollTickMsg{Gen: gen}
	})
}

func loadGraphProjectsCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		projects, err := c.ListGraphProjects(context.Background())
		return GraphProjectsLoadedMsg{Projects: projects, Err: err}
	}
}

func createGraphProjectCmd(c *api.Client, name, description string) tea.Cmd {
	return func() tea.Msg {
		project, err := c.CreateGraphProject(context.Background(), name, description)
		return GraphProjectCreatedMsg{Project: project, Err: err}
	}
}

func fetchGraphProjectCmd(c *api.Client, id string, gen int) tea.Cmd {
	return func() tea.Msg {
		project, err := c.GetGraphProject(context.Background(), id)
		return GraphProjectStatusMsg{Gen: gen, Project: project, Err: err}
	}
}

func ingestDocumentCmd(c *api.Client, projectID, filePath string) tea.Cmd {
	return func() tea.Msg {
		result, err := c.IngestDocument(context.Background(), projectID, filePath)
		return DocumentIngestedMsg{ProjectID: projectID, Source: filePath, Result: result, Err: err}
	}
}

func ingestURLCmd(c *api.Client, projectID, pageURL string) tea.Cmd {
	return func() tea.Msg {
		result, err := c.IngestURL(context.Background(), projectID, pageURL)
		return DocumentIngestedMsg{ProjectID: projectID, Source: pageURL, Result: result, Err: err}
	}
}

func buildGraphCmd(c *api.Client, projectID string) tea.Cmd {
	return func() tea.Msg {
		project, err := c.BuildGraph(context.Background(), projectID)
		return GraphBuildStartedMsg{Project: project, Err: err}
	}
}

func queryGraphCmd(c *api.Client, projectID, question string, seq int) tea.Cmd {
	return func() tea.Msg {
		answer, err := c.QueryGraph(context.Background(), projectID, question)
		return GraphAnswerMsg{ProjectID: projectID, Seq: seq, Answer: answer, Err: err}
	}
}

func loadGraphVizCmd(c *api.Client, projectID string) tea.Cmd {
	return func() tea.Msg {
		viz, err := c.GraphVisualization(context.Background(), projectID)
		return GraphVizLoadedMsg{ProjectID: projectID, Viz: viz, Err: err}
	}
}

func graphPollTickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return GraphPollTickMsg{Gen: gen}
	})
}

func authenticateInboxCmd(c *api.Client, address, token string) tea.Cmd {
	return func() tea.Msg {
		session, err := c.AuthenticateInbox(context.Background(), address, token)
		return InboxAuthenticatedMsg{Session: session, Err: err}
	}
}

func fetchInboxCmd(c *api.Client, sessionID string, limit, seq int) tea.Cmd {
	return func() tea.Msg {
		emails, err := c.FetchInbox(context.Background(), sessionID, limit)
		return EmailsFetchedMsg{SessionID: sessionID, Seq: seq, Emails: emails, Err: err}
	}
}

func clusterInboxCmd(c *api.Client, sessionID string, seq int) tea.Cmd {
	return func() tea.Msg {
		clusters, err := c.ClusterInbox(context.Background(), sessionID)
		return ClustersLoadedMsg{SessionID: sessionID, Seq: seq, Clusters: clusters, Err: err}
	}
}

func archiveClusterCmd(c *api.Client, sessionID, clusterID string) tea.Cmd {
	return func() tea.Msg {
		result, err := c.ArchiveCluster(context.Background(), sessionID, clusterID)
		return ClusterArchivedMsg{ClusterID: clusterID, Result: result, Err: err}
	}
}

func uploadAudioCmd(c *api.Client, filePath string) tea.Cmd {
	return func() tea.Msg {
		job, err := c.UploadAudio(context.Background(), filePath)
		return SlideJobCreatedMsg{Job: job, Err: err}
	}
}

func fetchSlideJobCmd(c *api.Client, jobID string, gen int) tea.Cmd {
	return func() tea.Msg {
		job, err := c.GetSlideJob(context.Background(), jobID)
		return SlideJobStatusMsg{Gen: gen, Job: job, Err: err}
	}
}

func loadTranscriptCmd(c *api.Client, jobID string) tea.Cmd {
	return func() tea.Msg {
		transcript, err := c.GetTranscript(context.Background(), jobID)
		return TranscriptLoadedMsg{JobID: jobID, Transcript: transcript, Err: err}
	}
}

func generateSlidesCmd(c *api.Client, jobID, style string) tea.Cmd {
	return func() tea.Msg {
		job, err := c.GenerateSlides(context.Background(), jobID, style)
		return SlidesRequestedMsg{Job: job, Err: err}
	}
}

func downloadDeckCmd(c *api.Client, jobID string) tea.Cmd {
	return func() tea.Msg {
		path, err := c.DownloadDeck(context.Background(), jobID)
		return DeckDownloadedMsg{JobID: jobID, Path: path, Err: err}
	}
}

func slidePollTickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return SlidePollTickMsg{Gen: gen}
	})
}

func startRecorderCmd(r *record.Recorder) tea.Cmd {
	return func() tea.Msg {
		lines, err := r.Start(context.Background())
		return RecorderStartedMsg{Lines: lines, Err: err}
	}
}

// waitRecorderLineCmd blocks on the meter channel and reschedules itself
// from the handler until the channel closes.
func waitRecorderLineCmd(lines <-chan string) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return RecorderLineMsg{Closed: true}
		}
		return RecorderLineMsg{Line: line}
	}
}

func stopRecorderCmd(r *record.Recorder) tea.Cmd {
	return func() tea.Msg {
		path, err := r.Stop()
		return RecorderStoppedMsg{Path: path, Err: err}
	}
}

func loadImagesCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		images, err := c.ListImages(context.Background())
		return ImagesLoadedMsg{Images: images, Err: err}
	}
}

func uploadImageCmd(c *api.Client, filePath, note string) tea.Cmd {
	return func() tea.Msg {
		image, err := c.UploadImage(context.Background(), filePath, note)
		return ImageUploadedMsg{Image: image, Err: err}
	}
}

func searchImagesCmd(c *api.Client, query string, limit, seq int) tea.Cmd {
	return func() tea.Msg {
		matches, err := c.SearchImages(context.Background(), query, limit)
		return MemoryMatchesMsg{Query: query, Seq: seq, Matches: matches, Err: err}
	}
}

func downloadThumbnailCmd(c *api.Client, imageID string) tea.Cmd {
	return func() tea.Msg {
		path, err := c.DownloadThumbnail(context.Background(), imageID)
		return ThumbnailSavedMsg{ImageID: imageID, Path: path, Err: err}
	}
}
