package ui

import (
	"testing"

	"prism/internal/api"
)

func TestMemoryUpload_Validation(t *testing.T) {
	v := NewMemoryView()
	_, cmd := v.Update(keyMsg("enter"))
	if cmd != nil || v.FormError != "image path is required" {
		t.Fatalf("cmd=%v FormError=%q", cmd, v.FormError)
	}

	typeInto(v, "./shot.png")
	v.Update(keyMsg("tab")) // note
	typeInto(v, "team offsite")
	_, cmd = v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected upload cmd")
	}
	submit, ok := cmd().(SubmitImageMsg)
	if !ok {
		t.Fatalf("expected SubmitImageMsg, got %T", cmd())
	}
	if submit.Path != "./shot.png" || submit.Note != "team offsite" {
		t.Errorf("SubmitImageMsg = %+v", submit)
	}
}

func TestMemorySearch_Validation(t *testing.T) {
	v := NewMemoryView()
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("tab")) // path -> note -> query

	_, cmd := v.Update(keyMsg("enter"))
	if cmd != nil || v.FormError != "describe what you are looking for" {
		t.Fatalf("cmd=%v FormError=%q", cmd, v.FormError)
	}

	typeInto(v, "whiteboard with the caching diagram")
	_, cmd = v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected search cmd")
	}
	search, ok := cmd().(SearchMemoryMsg)
	if !ok {
		t.Fatalf("expected SearchMemoryMsg, got %T", cmd())
	}
	if search.Query != "whiteboard with the caching diagram" {
		t.Errorf("Query = %q", search.Query)
	}
}

// TestMemoryAddImage validates that a fresh upload lands at the top of the
// library and resets the form.
func TestMemoryAddImage(t *testing.T) {
	v := NewMemoryView()
	v.SetImages([]api.ImageRecord{{ID: "img-1", Filename: "old.png"}})
	v.pathInput.SetValue("./new.png")
	v.noteInput.SetValue("note")

	v.AddImage(api.ImageRecord{ID: "img-2", Filename: "new.png"})
	if len(v.Images) != 2 || v.Images[0].ID != "img-2" {
		t.Errorf("Images = %+v", v.Images)
	}
	if v.pathInput.Value() != "" || v.noteInput.Value() != "" {
		t.Error("inputs must be cleared after upload")
	}
}

func TestMemorySetMatches_ClampsCursor(t *testing.T) {
	v := NewMemoryView()
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("tab")) // browse

	v.SetMatches("diagrams", []api.ImageMatch{
		{Image: api.ImageRecord{ID: "img-1"}, Score: 0.91},
		{Image: api.ImageRecord{ID: "img-2"}, Score: 0.74},
		{Image: api.ImageRecord{ID: "img-3"}, Score: 0.52},
	})
	v.Update(keyMsg("j"))
	v.Update(keyMsg("j"))
	if sel := v.SelectedMatch(); sel == nil || sel.Image.ID != "img-3" {
		t.Fatalf("SelectedMatch = %+v", sel)
	}

	v.SetMatches("offsite", []api.ImageMatch{{Image: api.ImageRecord{ID: "img-9"}, Score: 0.8}})
	if v.LastQuery != "offsite" {
		t.Errorf("LastQuery = %q", v.LastQuery)
	}
	if sel := v.SelectedMatch(); sel == nil || sel.Image.ID != "img-9" {
		t.Errorf("SelectedMatch after shrink = %+v", sel)
	}
}

func TestMemoryThumbnailKey_NeedsSelection(t *testing.T) {
	v := NewMemoryView()
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("tab"))

	_, cmd := v.Update(keyMsg("t"))
	if cmd != nil || v.FormError != "no match selected" {
		t.Fatalf("cmd=%v FormError=%q", cmd, v.FormError)
	}

	v.SetMatches("diagrams", []api.ImageMatch{{Image: api.ImageRecord{ID: "img-1", Filename: "board.png"}, Score: 0.9}})
	_, cmd = v.Update(keyMsg("t"))
	if cmd == nil {
		t.Fatal("expected thumbnail cmd")
	}
	req, ok := cmd().(RequestThumbnailMsg)
	if !ok {
		t.Fatalf("expected RequestThumbnailMsg, got %T", cmd())
	}
	if req.ImageID != "img-1" {
		t.Errorf("ImageID = %q", req.ImageID)
	}
}

func TestMemoryRefreshKey(t *testing.T) {
	v := NewMemoryView()
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("tab"))
	v.Update(keyMsg("tab"))

	_, cmd := v.Update(keyMsg("r"))
	if cmd == nil {
		t.Fatal("expected refresh cmd")
	}
	if _, ok := cmd().(RefreshImagesMsg); !ok {
		t.Errorf("expected RefreshImagesMsg, got %T", cmd())
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{512, "512B"},
		{1023, "1023B"},
		{1536, "1.5KB"},
		{1 << 20, "1.0MB"},
		{5 * 1 << 20, "5.0MB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.n); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
