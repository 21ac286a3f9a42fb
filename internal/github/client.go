// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"

	"github.com/issuebridge/gitsync/internal/logging"
	"github.com/issuebridge/gitsync/pkg/models"
)

// Client encapsulates the GitHub API client.
type Client struct {
	client *github.Client
}

// NewClient creates a new GitHub API client authenticated with the
// given token.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	logging.Debug("github configuration", "token", logging.MaskSensitive(token))

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{client: github.NewClient(tc)}, nil
}

// splitRepository parses an "owner/repo" name into its parts.
func splitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// GetIssue retrieves a single GitHub issue and converts it to our
// internal model. The repository should be in the format "owner/repo".
func (c *Client) GetIssue(ctx context.Context, repository string, number int) (models.GitHubIssue, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return models.GitHubIssue{}, err
	}

	logging.Debug("retrieving issue", "repository", repository, "issue_number", number)

	issue, _, err := c.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		logging.Error("failed to get github issue",
			"repository", repository,
			"issue_number", number,
			"error", err)
		return models.GitHubIssue{}, fmt.Errorf("failed to get GitHub issue %s#%d: %v", repo, number, err)
	}

	labelNames := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labelNames = append(labelNames, label.GetName())
	}

	result := models.GitHubIssue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
		Labels: labelNames,
	}
	if issue.UpdatedAt != nil {
		result.UpdatedAt = *issue.UpdatedAt
	}

	return result, nil
}

// UpdateIssue pushes title, body, and state to a GitHub issue in a
// single call. The repository should be in the format "owner/repo".
func (c *Client) UpdateIssue(ctx context.Context, repository string, number int, update models.IssueUpdate) error {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	logging.Debug("updating issue",
		"repository", repository,
		"issue_number", number,
		"title", update.Title,
		"state", update.State)

	request := &github.IssueRequest{
		Title: &update.Title,
		Body:  &update.Body,
		State: &update.State,
	}

	_, _, err = c.client.Issues.Edit(ctx, owner, repo, number, request)
	if err != nil {
		logging.Error("failed to update github issue",
			"repository", repository,
			"issue_number", number,
			"error", err)
		return fmt.Errorf("failed to update GitHub issue %s#%d: %v", repo, number, err)
	}

	logging.Debug("successfully updated issue", "repository", repository, "issue_number", number)
	return nil
}
