// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// EventPayload is the GitHub webhook event record that triggers a run.
// Only the fields this tool acts on are decoded; everything else in the
// delivered payload is ignored.
type EventPayload struct {
	// Action is the event action, one of: opened, closed, deleted,
	// reopened, edited, labeled, unlabeled, assigned, unassigned,
	// or created (a new comment).
	Action string `json:"action"`

	// Issue is the issue the event refers to.
	Issue *Issue `json:"issue"`

	// Comment is set only for comment events (action "created").
	Comment *Comment `json:"comment"`

	// Label is set only for labeled/unlabeled events.
	Label *Label `json:"label"`

	// Assignee is set only for assigned/unassigned events.
	Assignee *User `json:"assignee"`

	// Repository identifies the repository the event came from.
	Repository *Repository `json:"repository"`

	// ClosedAt is the close timestamp for closed events.
	ClosedAt string `json:"closed_at"`

	// Schedule marks a scheduled run; it triggers the reverse-sync pass.
	Schedule bool `json:"schedule"`
}

// Issue is the issue identity carried inside an event payload.
type Issue struct {
	Number        int     `json:"number"`
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	URL           string  `json:"url"`
	RepositoryURL string  `json:"repository_url"`
	ClosedAt      string  `json:"closed_at"`
	Labels        []Label `json:"labels"`
	User          *User   `json:"user"`
}

// Comment is an issue comment carried inside a comment event payload.
type Comment struct {
	ID      int64  `json:"id"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	User    *User  `json:"user"`
}

// Label is a GitHub issue label.
type Label struct {
	Name string `json:"name"`
}

// User is a GitHub account reference.
type User struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

// Repository identifies a GitHub repository.
type Repository struct {
	FullName string `json:"full_name"`
}

// WorkItem represents an Azure DevOps work item with the fields this
// tool reads and writes. The backend exclusively owns persisted state;
// this is a per-invocation snapshot.
type WorkItem struct {
	// ID is the ADO-assigned work item id.
	ID int

	// Title begins with the "GH #<n>: " convention prefix.
	Title string

	// Description is the HTML body mirrored from the GitHub issue.
	Description string

	// State is the current work item state name.
	State string

	// Tags is the semicolon-delimited tag set encoding the GitHub link.
	Tags string

	// AssignedTo is the display/unique name of the current assignee.
	AssignedTo string

	// ChangedDate is the last modification timestamp on the ADO side.
	ChangedDate time.Time
}

// GitHubIssue represents a GitHub issue with its essential fields.
type GitHubIssue struct {
	// Number is the issue number in GitHub (e.g., 42)
	Number int

	// Title is the issue's title or summary
	Title string

	// Body is the full body text of the issue
	Body string

	// State is the current state of the issue ("open" or "closed")
	State string

	// UpdatedAt is the timestamp when the issue was last updated
	UpdatedAt time.Time

	// Labels is a slice of label names attached to the issue
	Labels []string
}

// IssueUpdate carries the fields pushed back to a GitHub issue when the
// ADO side holds the more recent truth.
type IssueUpdate struct {
	Title string
	Body  string
	State string
}

// Outcome classifies the result of processing one event.
type Outcome int

const (
	// OutcomeSkipped means no matching work item was found and the
	// operation short-circuited; not an error.
	OutcomeSkipped Outcome = iota

	// OutcomeAlreadyExists means a create was requested but the work
	// item already exists; the create was canceled.
	OutcomeAlreadyExists

	// OutcomeCreated means a new work item was created.
	OutcomeCreated

	// OutcomeUpdated means an existing work item was patched.
	OutcomeUpdated
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeAlreadyExists:
		return "already-exists"
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// SyncResult is the observable result of one event-to-patch operation.
type SyncResult struct {
	Outcome  Outcome
	WorkItem *WorkItem
}
