package api

import (
	"context"
	"net/url"
)

// Slide job stages.
const (
	StageTranscription = "transcription"
	StageGeneration    = "generation"
)

// SlideJob tracks an audio upload through transcription and deck generation.
type SlideJob struct {
	ID        string `json:"id"`
	Status    Status `json:"status"`
	Stage     string `json:"stage"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
	DeckReady bool   `json:"deck_ready"`
}

// Transcript is the text recovered from an uploaded recording.
type Transcript struct {
	JobID    string    `json:"job_id"`
	Language string    `json:"language"`
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// UploadAudio submits a recording for transcription and returns the new job.
func (c *Client) UploadAudio(ctx context.Context, filePath string) (*SlideJob, error) {
	var out SlideJob
	if err := c.postFile(ctx, "/api/voice/uploads", "audio", filePath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSlideJob fetches the current state of a job. Polled while the job is
// pending or processing.
func (c *Client) GetSlideJob(ctx context.Context, jobID string) (*SlideJob, error) {
	var out SlideJob
	if err := c.getJSON(ctx, "/api/voice/jobs/"+url.PathEscape(jobID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTranscript fetches the transcript of a completed transcription.
func (c *Client) GetTranscript(ctx context.Context, jobID string) (*Transcript, error) {
	var out Transcript
	if err := c.getJSON(ctx, "/api/voice/jobs/"+url.PathEscape(jobID)+"/transcript", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSlides turns a completed transcript into a slide deck. The
// returned job is back in processing until the deck is ready.
func (c *Client) GenerateSlides(ctx context.Context, jobID, style string) (*SlideJob, error) {
	in := struct {
		Style string `json:"style,omitempty"`
	}{Style: style}

	var out SlideJob
	if err := c.postJSON(ctx, "/api/voice/jobs/"+url.PathEscape(jobID)+"/slides", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadDeck fetches the finished deck and returns the local file path.
func (c *Client) DownloadDeck(ctx context.Context, jobID string) (string, error) {
	return c.download(ctx, "/api/voice/jobs/"+url.PathEscape(jobID)+"/download", ".pptx")
}
