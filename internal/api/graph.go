package api

import (
	"context"
	"net/url"
	"time"
)

// GraphProject is one knowledge graph built from ingested documents.
type GraphProject struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Stats       GraphStats `json:"stats"`
	CreatedAt   time.Time  `json:"created_at"`
}

type GraphStats struct {
	Documents int `json:"documents"`
	Nodes     int `json:"nodes"`
	Edges     int `json:"edges"`
}

// IngestResult reports what the backend extracted from one source.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title,omitempty"`
	Chunks     int    `json:"chunks"`
	Status     Status `json:"status"`
}

// GraphAnswer is a question answered from the knowledge graph. Sources
// name the ingested documents the answer leaned on.
type GraphAnswer struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Entities   []string `json:"entities"`
	Sources    []string `json:"sources"`
}

// Visualization is the node-edge projection rendered in the graph tool.
type Visualization struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type GraphNode struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Degree int    `json:"degree"`
}

type GraphEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Relation string  `json:"relation"`
	Weight   float64 `json:"weight"`
}

// CreateGraphProject registers an empty knowledge graph project.
func (c *Client) CreateGraphProject(ctx context.Context, name, description string) (*GraphProject, error) {
	in := struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}{Name: name, Description: description}

	var out GraphProject
	if err := c.postJSON(ctx, "/api/graph/projects", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGraphProjects returns all graph projects.
func (c *Client) ListGraphProjects(ctx context.Context) ([]GraphProject, error) {
	var out struct {
		Projects []GraphProject `json:"projects"`
	}
	if err := c.getJSON(ctx, "/api/graph/projects", &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// GetGraphProject fetches one project with current build status and stats.
func (c *Client) GetGraphProject(ctx context.Context, id string) (*GraphProject, error) {
	var out GraphProject
	if err := c.getJSON(ctx, "/api/graph/projects/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestDocument uploads a local file into the project's corpus.
func (c *Client) IngestDocument(ctx context.Context, projectID, filePath string) (*IngestResult, error) {
	var out IngestResult
	path := "/api/graph/projects/" + url.PathEscape(projectID) + "/documents"
	if err := c.postFile(ctx, path, "document", filePath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestURL asks the backend to fetch and ingest a web page.
func (c *Client) IngestURL(ctx context.Context, projectID, pageURL string) (*IngestResult, error) {
	in := struct {
		URL string `json:"url"`
	}{URL: pageURL}

	var out IngestResult
	path := "/api/graph/projects/" + url.PathEscape(projectID) + "/urls"
	if err := c.postJSON(ctx, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildGraph starts entity extraction over everything ingested so far.
// The returned project carries the new processing status.
func (c *Client) BuildGraph(ctx context.Context, projectID string) (*GraphProject, error) {
	var out GraphProject
	path := "/api/graph/projects/" + url.PathEscape(projectID) + "/build"
	if err := c.postJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryGraph asks a question answered from the built graph.
func (c *Client) QueryGraph(ctx context.Context, projectID, question string) (*GraphAnswer, error) {
	in := struct {
		Question string `json:"question"`
	}{Question: question}

	var out GraphAnswer
	path := "/api/graph/projects/" + url.PathEscape(projectID) + "/query"
	if err := c.postJSON(ctx, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GraphVisualization fetches the node-edge projection of a built graph.
func (c *Client) GraphVisualization(ctx context.Context, projectID string) (*Visualization, error) {
	var out Visualization
	path := "/api/graph/projects/" + url.PathEscape(projectID) + "/visualization"
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
