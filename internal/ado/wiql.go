package ado

import (
	"fmt"
)

// queryProjection is the fixed field projection shared by every locator
// query. WIQL results only carry ids; the projection documents the
// fields the follow-up fetch will need.
const queryProjection = "SELECT [System.Id], [System.Description], [System.Title], [System.AssignedTo], [System.State], [System.Tags] " +
	"FROM workitems WHERE [System.TeamProject] = @project "

// IssueQuery builds the WIQL that locates the canonical work item for a
// GitHub issue: matched by work item type, the "GH #<n>:" title prefix,
// and the GitHub link tags.
func IssueQuery(workItemType string, issueNumber int, repository string) string {
	return queryProjection +
		fmt.Sprintf("AND [System.WorkItemType] = '%s' ", workItemType) +
		fmt.Sprintf("AND [System.Title] CONTAINS 'GH #%d:' ", issueNumber) +
		"AND [System.Tags] CONTAINS 'GitHub Issue' " +
		fmt.Sprintf("AND [System.Tags] CONTAINS 'GitHub Repo: %s'", repository)
}

// ChangedQuery builds the WIQL for the reverse-sync pass: every
// GitHub-linked work item for the repository changed within the trailing
// one-day window.
func ChangedQuery(workItemType string, repository string) string {
	return queryProjection +
		fmt.Sprintf("AND [System.WorkItemType] = '%s' ", workItemType) +
		"AND [System.Tags] CONTAINS 'GitHub Issue' " +
		fmt.Sprintf("AND [System.Tags] CONTAINS 'GitHub Repo: %s' ", repository) +
		"AND [System.ChangedDate] > @Today - 1"
}
