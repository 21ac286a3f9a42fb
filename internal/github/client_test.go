package github

import (
	"context"
	"strings"
	"testing"

	"github.com/issuebridge/gitsync/pkg/models"
)

func TestNewClientRequiresToken(t *testing.T) {
	client, err := NewClient("")
	if err == nil {
		t.Error("Expected error with empty token, got nil")
	}
	if client != nil {
		t.Error("Expected nil client with empty token")
	}
}

func TestSplitRepository(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "Valid repository",
			input:     "octo/stuff",
			wantOwner: "octo",
			wantRepo:  "stuff",
			wantErr:   false,
		},
		{
			name:    "Missing slash",
			input:   "invalid-repo-format",
			wantErr: true,
		},
		{
			name:    "Too many parts",
			input:   "a/b/c",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			owner, repo, err := splitRepository(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if owner != tc.wantOwner || repo != tc.wantRepo {
				t.Errorf("Expected %s/%s, got %s/%s", tc.wantOwner, tc.wantRepo, owner, repo)
			}
		})
	}
}

// TestGetIssueValidation tests the validation in the GetIssue function
func TestGetIssueValidation(t *testing.T) {
	// Create a client directly with initialized fields but without API connection
	client := &Client{}

	_, err := client.GetIssue(context.Background(), "invalid-repo-format", 123)
	if err == nil {
		t.Error("Expected error with invalid repository format, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid repository format") {
		t.Errorf("Expected 'invalid repository format' error, got: %v", err)
	}
}

// TestUpdateIssueValidation tests the validation in the UpdateIssue function
func TestUpdateIssueValidation(t *testing.T) {
	client := &Client{}

	err := client.UpdateIssue(context.Background(), "invalid-repo-format", 123, models.IssueUpdate{})
	if err == nil {
		t.Error("Expected error with invalid repository format, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid repository format") {
		t.Errorf("Expected 'invalid repository format' error, got: %v", err)
	}
}
