package sync

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/issuebridge/gitsync/internal/ado"
	"github.com/issuebridge/gitsync/internal/logging"
	"github.com/issuebridge/gitsync/internal/markdown"
	"github.com/issuebridge/gitsync/pkg/models"
)

// titlePattern matches the "GH #<n>: <title>" convention prefix on a
// work item title.
var titlePattern = regexp.MustCompile(`^GH #(\d+): (.*)`)

// reconcileFields is the projection fetched per work item during the
// reverse pass.
var reconcileFields = []string{
	"System.Title",
	"System.Description",
	"System.State",
	"System.ChangedDate",
}

// ReconcileAll queries ADO for GitHub-linked work items changed within
// the trailing one-day window and reconciles each against its GitHub
// issue. Items are independent: one failure never prevents the others
// from being attempted; failures are collected and reported together.
func (s *Syncer) ReconcileAll(ctx context.Context) error {
	repository := s.cfg.RepoFullName()
	if repository == "" {
		return fmt.Errorf("cannot reconcile: no repository configured")
	}

	logging.Info("updating issues...", "repository", repository)

	query := ado.ChangedQuery(s.cfg.ADO.WorkItemType, repository)
	ids, err := s.items.QueryIDs(ctx, query, s.cfg.ADO.Project)
	if err != nil {
		return err
	}

	logging.Info("found recently changed work items", "count", len(ids))

	var failed int
	for _, id := range ids {
		if err := s.reconcileOne(ctx, id, repository); err != nil {
			logging.Error("failed to reconcile work item",
				"work_item_id", id,
				"error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d work items failed to reconcile", failed, len(ids))
	}
	return nil
}

// reconcileOne decides whether the ADO work item or the GitHub issue
// holds the more recent truth, and pushes the work item's title, body,
// and state to GitHub when ADO is strictly newer and anything differs.
func (s *Syncer) reconcileOne(ctx context.Context, id int, repository string) error {
	workItem, err := s.items.Get(ctx, id, reconcileFields)
	if err != nil {
		return err
	}

	parsed := titlePattern.FindStringSubmatch(workItem.Title)
	if parsed == nil {
		return fmt.Errorf("work item %d title %q does not match the 'GH #<n>: ' convention", id, workItem.Title)
	}
	issueNumber, err := strconv.Atoi(parsed[1])
	if err != nil {
		return fmt.Errorf("work item %d title %q has an invalid issue number: %w", id, workItem.Title, err)
	}

	issue, err := s.issues.GetIssue(ctx, repository, issueNumber)
	if err != nil {
		return err
	}

	// Last-write-wins with a bias toward doing nothing: GitHub keeps
	// authority on ties, and the work item may only be newer because a
	// GitHub-sourced update touched it.
	if !workItem.ChangedDate.After(issue.UpdatedAt) {
		logging.Debug("work item not newer than issue, skipping",
			"work_item_id", id,
			"issue_number", issueNumber,
			"changed_date", workItem.ChangedDate,
			"updated_at", issue.UpdatedAt)
		return nil
	}

	title := parsed[2]
	body := markdown.ToMarkdown(workItem.Description)
	state, err := s.states.Canonical(workItem.State)
	if err != nil {
		return err
	}

	if title == issue.Title && body == issue.Body && state == issue.State {
		logging.Debug("nothing has changed, skipping",
			"work_item_id", id,
			"issue_number", issueNumber)
		return nil
	}

	logging.Info("work item newer than issue, updating issue",
		"work_item_id", id,
		"issue_number", issueNumber)

	return s.issues.UpdateIssue(ctx, repository, issueNumber, models.IssueUpdate{
		Title: title,
		Body:  body,
		State: state,
	})
}
