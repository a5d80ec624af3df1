package api

import (
	"context"
	"net/url"
	"time"
)

// InboxSession is an authenticated mailbox connection. The token never
// leaves the backend; the TUI only holds the opaque session ID.
type InboxSession struct {
	SessionID string `json:"session_id"`
	Address   string `json:"address"`
	Provider  string `json:"provider,omitempty"`
}

// Email is one classified message.
type Email struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	Date       time.Time `json:"date"`
	Snippet    string    `json:"snippet"`
	Priority   string    `json:"priority"`
	Confidence float64   `json:"confidence"`
}

// Cluster groups related emails under a theme with a suggested action.
type Cluster struct {
	ID         string     `json:"id"`
	Theme      string     `json:"theme"`
	Action     string     `json:"suggested_action"`
	Confidence float64    `json:"confidence"`
	EmailIDs   []string   `json:"email_ids"`
	Archived   bool       `json:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// ArchiveResult confirms a bulk archive of one cluster.
type ArchiveResult struct {
	ClusterID  string    `json:"cluster_id"`
	Archived   int       `json:"archived"`
	ArchivedAt time.Time `json:"archived_at"`
}

// AuthenticateInbox exchanges mailbox credentials for a session.
func (c *Client) AuthenticateInbox(ctx context.Context, address, token string) (*InboxSession, error) {
	in := struct {
		Address string `json:"address"`
		Token   string `json:"token"`
	}{Address: address, Token: token}

	var out InboxSession
	if err := c.postJSON(ctx, "/api/inbox/authenticate", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchInbox pulls recent messages for the session, classified by priority.
func (c *Client) FetchInbox(ctx context.Context, sessionID string, limit int) ([]Email, error) {
	in := struct {
		SessionID string `json:"session_id"`
		Limit     int    `json:"limit,omitempty"`
	}{SessionID: sessionID, Limit: limit}

	var out struct {
		Emails []Email `json:"emails"`
	}
	if err := c.postJSON(ctx, "/api/inbox/fetch", in, &out); err != nil {
		return nil, err
	}
	return out.Emails, nil
}

// ClusterInbox groups the fetched messages into actionable clusters.
func (c *Client) ClusterInbox(ctx context.Context, sessionID string) ([]Cluster, error) {
	in := struct {
		SessionID string `json:"session_id"`
	}{SessionID: sessionID}

	var out struct {
		Clusters []Cluster `json:"clusters"`
	}
	if err := c.postJSON(ctx, "/api/inbox/cluster", in, &out); err != nil {
		return nil, err
	}
	return out.Clusters, nil
}

// ArchiveCluster archives every email in one cluster. Other clusters are
// untouched.
func (c *Client) ArchiveCluster(ctx context.Context, sessionID, clusterID string) (*ArchiveResult, error) {
	in := struct {
		SessionID string `json:"session_id"`
	}{SessionID: sessionID}

	var out ArchiveResult
	path := "/api/inbox/clusters/" + url.PathEscape(clusterID) + "/archive"
	if err := c.postJSON(ctx, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
