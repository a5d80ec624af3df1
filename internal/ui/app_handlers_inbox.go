package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// inboxFetchLimit caps how many messages one fetch pulls.
const inboxFetchLimit = 50

// handleSubmitInboxAuth handles SubmitInboxAuthMsg by exchanging the
// credentials for a session. The token is sent once and not kept.
func (a *appModelAdapter) handleSubmitInboxAuth(msg SubmitInboxAuthMsg) (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, authenticateInboxCmd(a.Client, msg.Address, msg.Token)
}

// handleFetchEmails handles FetchEmailsMsg for the active session.
func (a *appModelAdapter) handleFetchEmails() (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil || v.Session == nil {
		return a, nil
	}
	v.SetLoading(true)
	v.FetchSeq++
	return a, fetchInboxCmd(a.Client, v.Session.SessionID, inboxFetchLimit, v.FetchSeq)
}

// handleClusterEmails handles ClusterEmailsMsg for the active session.
func (a *appModelAdapter) handleClusterEmails() (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil || v.Session == nil {
		return a, nil
	}
	v.SetLoading(true)
	v.ClusterSeq++
	return a, clusterInboxCmd(a.Client, v.Session.SessionID, v.ClusterSeq)
}

// handleInboxAuthenticated handles InboxAuthenticatedMsg. Success stores
// the session and fetches the inbox right away.
func (a *appModelAdapter) handleInboxAuthenticated(msg InboxAuthenticatedMsg) (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil {
		return a, nil
	}
	if msg.Err != nil {
		v.SetLoading(false)
		a.fail("Authenticate", msg.Err)
		return a, nil
	}
	v.SetSession(*msg.Session)
	a.setStatus("Authenticated as " + msg.Session.Address)
	v.SetLoading(true)
	v.FetchSeq++
	return a, fetchInboxCmd(a.Client, msg.Session.SessionID, inboxFetchLimit, v.FetchSeq)
}

// handleEmailsFetched handles EmailsFetchedMsg. Results from a superseded
// fetch or an old session are dropped.
func (a *appModelAdapter) handleEmailsFetched(msg EmailsFetchedMsg) (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil || v.Session == nil {
		return a, nil
	}
	if msg.SessionID != v.Session.SessionID || msg.Seq != v.FetchSeq {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Fetch inbox", msg.Err)
		return a, nil
	}
	v.SetEmails(msg.Emails)
	a.setStatus(fmt.Sprintf("Fetched %d emails", len(msg.Emails)))
	return a, nil
}

// handleClustersLoaded handles ClustersLoadedMsg. Results from a superseded
// clustering run are dropped.
func (a *appModelAdapter) handleClustersLoaded(msg ClustersLoadedMsg) (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil || v.Session == nil {
		return a, nil
	}
	if msg.SessionID != v.Session.SessionID || msg.Seq != v.ClusterSeq {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Cluster inbox", msg.Err)
		return a, nil
	}
	v.SetClusters(msg.Clusters)
	a.setStatus(fmt.Sprintf("Grouped into %d clusters", len(msg.Clusters)))
	return a, nil
}

// handleShowArchiveCluster handles ShowArchiveClusterMsg by opening the
// confirmation modal.
func (a *appModelAdapter) handleShowArchiveCluster(msg ShowArchiveClusterMsg) (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil || v.Session == nil {
		return a, nil
	}
	modal := NewArchiveClusterConfirmModal(v.Session.SessionID, msg.Cluster)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleArchiveCluster handles ArchiveClusterMsg after confirmation.
func (a *appModelAdapter) handleArchiveCluster(msg ArchiveClusterMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil {
		return a, nil
	}
	v.SetLoading(true)
	return a, archiveClusterCmd(a.Client, msg.SessionID, msg.ClusterID)
}

// handleClusterArchived handles ClusterArchivedMsg by marking exactly the
// archived cluster.
func (a *appModelAdapter) handleClusterArchived(msg ClusterArchivedMsg) (tea.Model, tea.Cmd) {
	v := a.Inbox
	if a.Mode != ModeInbox || v == nil {
		return a, nil
	}
	v.SetLoading(false)
	if msg.Err != nil {
		a.fail("Archive cluster", msg.Err)
		return a, nil
	}
	v.MarkClusterArchived(msg.ClusterID, *msg.Result)
	a.setStatus(fmt.Sprintf("Archived %d emails", msg.Result.Archived))
	return a, nil
}
