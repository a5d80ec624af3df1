package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// memorySearchLimit caps how many matches one search returns.
const memorySearchLimit = 10

// handleSubmitImage handles SubmitImageMsg by uploading the file.
func (a *appModelAdapter) handleSubmitImage(msg SubmitImageMsg) (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, uploadImageCmd(a.Client, msg.Path, msg.Note)
}

// handleSearchMemory handles SearchMemoryMsg. The bumped sequence number
// invalidates any result set still in flight.
func (a *appModelAdapter) handleSearchMemory(msg SearchMemoryMsg) (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	v.SearchSeq++
	return a, searchImagesCmd(a.Client, msg.Query, memorySearchLimit, v.SearchSeq)
}

// handleRequestThumbnail handles RequestThumbnailMsg by downloading a preview.
func (a *appModelAdapter) handleRequestThumbnail(msg RequestThumbnailMsg) (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, downloadThumbnailCmd(a.Client, msg.ImageID)
}

// handleRefreshImages handles RefreshImagesMsg by reloading the library.
func (a *appModelAdapter) handleRefreshImages() (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, loadImagesCmd(a.Client)
}

// handleImagesLoaded handles ImagesLoadedMsg by replacing the library.
func (a *appModelAdapter) handleImagesLoaded(msg ImagesLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Load images", msg.Err)
		return a, nil
	}
	v.SetImages(msg.Images)
	return a, nil
}

// handleImageUploaded handles ImageUploadedMsg by adding the stored image.
func (a *appModelAdapter) handleImageUploaded(msg ImageUploadedMsg) (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Upload image", msg.Err)
		return a, nil
	}
	v.AddImage(*msg.Image)
	a.setStatus("Stored " + msg.Image.Filename)
	return a, nil
}

// handleMemoryMatches handles MemoryMatchesMsg. Stale result sets are dropped.
func (a *appModelAdapter) handleMemoryMatches(msg MemoryMatchesMsg) (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil || msg.Seq != v.SearchSeq {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Search", msg.Err)
		return a, nil
	}
	v.SetMatches(msg.Query, msg.Matches)
	a.setStatus(fmt.Sprintf("%d matches", len(msg.Matches)))
	return a, nil
}

// handleThumbnailSaved handles ThumbnailSavedMsg by recording where the
// preview landed.
func (a *appModelAdapter) handleThumbnailSaved(msg ThumbnailSavedMsg) (tea.Model, tea.Cmd) {
	v := a.Memory
	if a.Mode != ModeMemory || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Thumbnail", msg.Err)
		return a, nil
	}
	v.SetThumbPath(msg.ImageID, msg.Path)
	a.setStatus("Thumbnail saved to " + msg.Path)
	return a, nil
}
