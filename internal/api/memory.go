package api

import (
	"context"
	"net/url"
	"time"
)

// ImageRecord is one stored screenshot or photo with its generated
// description.
type ImageRecord struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Description string    `json:"description,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ImageMatch is a search hit with its similarity score.
type ImageMatch struct {
	Image ImageRecord `json:"image"`
	Score float64     `json:"score"`
}

// UploadImage stores an image. The optional note is indexed alongside the
// generated description.
func (c *Client) UploadImage(ctx context.Context, filePath, note string) (*ImageRecord, error) {
	var fields map[string]string
	if note != "" {
		fields = map[string]string{"note": note}
	}

	var out ImageRecord
	if err := c.postFile(ctx, "/api/memory/images", "image", filePath, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListImages returns stored images, newest first.
func (c *Client) ListImages(ctx context.Context) ([]ImageRecord, error) {
	var out struct {
		Images []ImageRecord `json:"images"`
	}
	if err := c.getJSON(ctx, "/api/memory/images", &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// SearchImages finds images matching a natural-language description.
func (c *Client) SearchImages(ctx context.Context, query string, limit int) ([]ImageMatch, error) {
	in := struct {
		Query string `json:"query"`
		Limit int    `json:"limit,omitempty"`
	}{Query: query, Limit: limit}

	var out struct {
		Matches []ImageMatch `json:"matches"`
	}
	if err := c.postJSON(ctx, "/api/memory/search", in, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

// DownloadThumbnail fetches a preview image and returns the local path.
func (c *Client) DownloadThumbnail(ctx context.Context, imageID string) (string, error) {
	return c.download(ctx, "/api/memory/images/"+url.PathEscape(imageID)+"/thumbnail", ".png")
}
