package api

import (
	"context"
	"net/url"
	"time"
)

// Analysis is one analyzed repository.
type Analysis struct {
	ID        string        `json:"id"`
	RepoURL   string        `json:"repo_url"`
	Status    Status        `json:"status"`
	Summary   string        `json:"summary,omitempty"`
	Stats     AnalysisStats `json:"stats"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type AnalysisStats struct {
	Files   int `json:"files"`
	Commits int `json:"commits"`
	Authors int `json:"authors"`
}

// QueryResult answers a natural-language question about a repository.
type QueryResult struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Sources    []Source `json:"sources"`
	Related    []string `json:"related_questions"`
}

// Source is a scored citation backing an answer.
type Source struct {
	Path    string  `json:"path"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// EvolutionReport summarizes how the repository changed over time.
type EvolutionReport struct {
	Periods []EvolutionPeriod `json:"periods"`
}

type EvolutionPeriod struct {
	Period  string `json:"period"`
	Commits int    `json:"commits"`
	Summary string `json:"summary"`
}

// OwnershipReport maps areas of the tree to their main contributors.
type OwnershipReport struct {
	Entries []OwnershipEntry `json:"entries"`
}

type OwnershipEntry struct {
	Path   string  `json:"path"`
	Author string  `json:"author"`
	Share  float64 `json:"share"`
}

// FeatureReport lists features detected in the codebase.
type FeatureReport struct {
	Features []Feature `json:"features"`
}

type Feature struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
}

// CreateAnalysis registers a repository for analysis. The backend answers
// immediately with a pending record; analysis runs server side.
func (c *Client) CreateAnalysis(ctx context.Context, repoURL string) (*Analysis, error) {
	in := struct {
		RepoURL string `json:"repo_url"`
	}{RepoURL: repoURL}

	var out Analysis
	if err := c.postJSON(ctx, "/api/analyses", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAnalyses returns all known analyses, newest first.
func (c *Client) ListAnalyses(ctx context.Context) ([]Analysis, error) {
	var out struct {
		Analyses []Analysis `json:"analyses"`
	}
	if err := c.getJSON(ctx, "/api/analyses", &out); err != nil {
		return nil, err
	}
	return out.Analyses, nil
}

// GetAnalysis fetches one analysis with its current status and stats.
func (c *Client) GetAnalysis(ctx context.Context, id string) (*Analysis, error) {
	var out Analysis
	if err := c.getJSON(ctx, "/api/analyses/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryAnalysis asks a question scoped to one analyzed repository.
func (c *Client) QueryAnalysis(ctx context.Context, id, question string) (*QueryResult, error) {
	in := struct {
		Question string `json:"question"`
	}{Question: question}

	var out QueryResult
	if err := c.postJSON(ctx, "/api/analyses/"+url.PathEscape(id)+"/query", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalysisEvolution fetches the commit-history evolution report.
func (c *Client) AnalysisEvolution(ctx context.Context, id string) (*EvolutionReport, error) {
	var out EvolutionReport
	if err := c.getJSON(ctx, "/api/analyses/"+url.PathEscape(id)+"/evolution", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalysisOwnership fetches the code ownership report.
func (c *Client) AnalysisOwnership(ctx context.Context, id string) (*OwnershipReport, error) {
	var out OwnershipReport
	if err := c.getJSON(ctx, "/api/analyses/"+url.PathEscape(id)+"/ownership", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalysisFeatures fetches the detected feature list.
func (c *Client) AnalysisFeatures(ctx context.Context, id string) (*FeatureReport, error) {
	var out FeatureReport
	if err := c.getJSON(ctx, "/api/analyses/"+url.PathEscape(id)+"/features", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
