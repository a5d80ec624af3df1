package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"prism/internal/api"
)

// handleSubmitAudio handles SubmitAudioMsg by uploading the file.
func (a *appModelAdapter) handleSubmitAudio(msg SubmitAudioMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, uploadAudioCmd(a.Client, msg.Path)
}

// handleToggleRecording handles ToggleRecordingMsg by starting the capture
// command, or stopping it so the capture can be uploaded.
func (a *appModelAdapter) handleToggleRecording() (tea.Model, tea.Cmd) {
	if a.Recorder == nil {
		a.failText("No recorder configured")
		return a, nil
	}
	if a.Recorder.Running() {
		return a, stopRecorderCmd(a.Recorder)
	}
	return a, startRecorderCmd(a.Recorder)
}

// handleSlideJobCreated handles SlideJobCreatedMsg by tracking the job and
// polling the transcription.
func (a *appModelAdapter) handleSlideJobCreated(msg SlideJobCreatedMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Upload audio", msg.Err)
		return a, nil
	}
	job := *msg.Job
	v.SetJob(job)
	a.setStatus("Transcribing audio")
	v.PollGen++
	v.PollAttempts = 0
	v.PollID = job.ID
	v.Polling = true
	return a, slidePollTickCmd(v.PollGen)
}

// handleSlidePollTick handles SlidePollTickMsg by fetching fresh job
// status, up to the attempt ceiling.
func (a *appModelAdapter) handleSlidePollTick(msg SlidePollTickMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil || !v.Polling || msg.Gen != v.PollGen {
		return a, nil
	}
	if v.PollAttempts >= maxPollAttempts {
		v.Polling = false
		a.failText("Gave up waiting for the job; it may still finish")
		return a, nil
	}
	v.PollAttempts++
	return a, fetchSlideJobCmd(a.Client, v.PollID, v.PollGen)
}

// handleSlideJobStatus handles SlideJobStatusMsg. A finished transcription
// fetches the transcript; a finished generation makes the deck available.
func (a *appModelAdapter) handleSlideJobStatus(msg SlideJobStatusMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil || msg.Gen != v.PollGen {
		return a, nil
	}
	if msg.Err != nil {
		v.Polling = false
		a.fail("Job status", msg.Err)
		return a, nil
	}
	job := *msg.Job
	v.SetJob(job)
	if job.Status.Terminal() {
		v.Polling = false
		if job.Status == api.StatusFailed {
			if job.Error != "" {
				a.failText("Job failed: " + job.Error)
			} else {
				a.failText("Job failed")
			}
			return a, nil
		}
		switch job.Stage {
		case api.StageTranscription:
			a.setStatus("Transcript ready")
			return a, loadTranscriptCmd(a.Client, job.ID)
		case api.StageGeneration:
			a.setStatus("Deck ready, press d to download")
		}
		return a, nil
	}
	if v.Polling {
		return a, slidePollTickCmd(v.PollGen)
	}
	return a, nil
}

// handleTranscriptLoaded handles TranscriptLoadedMsg for the tracked job.
func (a *appModelAdapter) handleTranscriptLoaded(msg TranscriptLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil || v.Job == nil || v.Job.ID != msg.JobID {
		return a, nil
	}
	if msg.Err != nil {
		a.fail("Transcript", msg.Err)
		return a, nil
	}
	v.SetTranscript(*msg.Transcript)
	return a, nil
}

// handleRequestSlides handles RequestSlidesMsg by starting deck generation.
func (a *appModelAdapter) handleRequestSlides(msg RequestSlidesMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, generateSlidesCmd(a.Client, msg.JobID, msg.Style)
}

// handleSlidesRequested handles SlidesRequestedMsg by polling the
// generation stage.
func (a *appModelAdapter) handleSlidesRequested(msg SlidesRequestedMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Generate slides", msg.Err)
		return a, nil
	}
	job := *msg.Job
	v.SetJob(job)
	a.setStatus("Generating deck")
	v.PollGen++
	v.PollAttempts = 0
	v.PollID = job.ID
	v.Polling = true
	return a, slidePollTickCmd(v.PollGen)
}

// handleRequestDeck handles RequestDeckMsg by downloading the deck.
func (a *appModelAdapter) handleRequestDeck(msg RequestDeckMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, downloadDeckCmd(a.Client, msg.JobID)
}

// handleDeckDownloaded handles DeckDownloadedMsg for the tracked job.
func (a *appModelAdapter) handleDeckDownloaded(msg DeckDownloadedMsg) (tea.Model, tea.Cmd) {
	v := a.Slides
	if a.Mode != ModeSlides || v == nil || v.Job == nil || v.Job.ID != msg.JobID {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Download deck", msg.Err)
		return a, nil
	}
	v.DeckPath = msg.Path
	a.setStatus("Deck saved to " + msg.Path)
	return a, nil
}

// handleRecorderStarted handles RecorderStartedMsg by wiring up the meter
// stream. The recorder outlives tool switches, so the channel is kept on
// the app, not the view.
func (a *appModelAdapter) handleRecorderStarted(msg RecorderStartedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.fail("Start recording", msg.Err)
		return a, nil
	}
	a.meterLines = msg.Lines
	if a.Slides != nil {
		a.Slides.SetRecording(true)
	}
	a.setStatus("Recording, press r to stop")
	return a, waitRecorderLineCmd(msg.Lines)
}

// handleRecorderLine handles RecorderLineMsg by showing the meter line and
// waiting for the next one until the channel closes.
func (a *appModelAdapter) handleRecorderLine(msg RecorderLineMsg) (tea.Model, tea.Cmd) {
	if msg.Closed {
		a.meterLines = nil
		return a, nil
	}
	if a.Slides != nil {
		a.Slides.SetMeterLine(msg.Line)
	}
	if a.meterLines != nil {
		return a, waitRecorderLineCmd(a.meterLines)
	}
	return a, nil
}

// handleRecorderStopped handles RecorderStoppedMsg by uploading the
// finished capture.
func (a *appModelAdapter) handleRecorderStopped(msg RecorderStoppedMsg) (tea.Model, tea.Cmd) {
	if a.Slides != nil {
		a.Slides.SetRecording(false)
	}
	if msg.Err != nil {
		a.fail("Stop recording", msg.Err)
		return a, nil
	}
	a.setStatus("Recording saved, uploading")
	if a.Slides != nil {
		a.Slides.SetLoading(true)
	}
	return a, uploadAudioCmd(a.Client, msg.Path)
}
