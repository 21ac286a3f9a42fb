package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/issuebridge/gitsync/pkg/models"
)

func TestEncodeLabels(t *testing.T) {
	testCases := []struct {
		name     string
		seed     string
		labels   []models.Label
		expected string
	}{
		{
			name: "Seed plus labels in order",
			seed: "fuzzy;",
			labels: []models.Label{
				{Name: "alpha"},
				{Name: "beta"},
				{Name: "gamma"},
			},
			expected: "fuzzy;GitHub Label: alpha;GitHub Label: beta;GitHub Label: gamma;",
		},
		{
			name:     "Empty seed single label",
			seed:     "",
			labels:   []models.Label{{Name: "bug"}},
			expected: "GitHub Label: bug;",
		},
		{
			name:     "No labels returns seed unchanged",
			seed:     "GitHub Issue;",
			labels:   nil,
			expected: "GitHub Issue;",
		},
		{
			name: "Duplicates are preserved, not deduplicated",
			seed: "",
			labels: []models.Label{
				{Name: "bug"},
				{Name: "bug"},
			},
			expected: "GitHub Label: bug;GitHub Label: bug;",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EncodeLabels(tc.seed, tc.labels))
		})
	}
}

func TestLinkTags(t *testing.T) {
	assert.Equal(t, "GitHub Issue;GitHub Repo: foo/bar;", linkTags("foo/bar"))

	// the creation tag set is the link seed plus the issue's labels
	tags := EncodeLabels(linkTags("foo/bar"), []models.Label{{Name: "bug"}})
	assert.Equal(t, "GitHub Issue;GitHub Repo: foo/bar;GitHub Label: bug;", tags)
}

func TestStripLabel(t *testing.T) {
	testCases := []struct {
		name     string
		tags     string
		label    models.Label
		expected string
	}{
		{
			name:     "Label present",
			tags:     "GitHub Issue;GitHub Repo: foo/bar;GitHub Label: bug;GitHub Label: docs;",
			label:    models.Label{Name: "bug"},
			expected: "GitHub Issue;GitHub Repo: foo/bar;GitHub Label: docs;",
		},
		{
			name:     "Label absent returns input unchanged",
			tags:     "GitHub Issue;GitHub Repo: foo/bar;",
			label:    models.Label{Name: "bug"},
			expected: "GitHub Issue;GitHub Repo: foo/bar;",
		},
		{
			name:     "Empty tag string",
			tags:     "",
			label:    models.Label{Name: "bug"},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripLabel(tc.tags, tc.label))
		})
	}
}

func TestCleanURL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "API URL is rewritten",
			input:    "https://api.github.com/repos/foo/bar",
			expected: "https://github.com/foo/bar",
		},
		{
			name:     "Already-clean URL is unchanged",
			input:    "https://github.com/foo/bar",
			expected: "https://github.com/foo/bar",
		},
		{
			name:     "Issue URL",
			input:    "https://api.github.com/repos/foo/bar/issues/12",
			expected: "https://github.com/foo/bar/issues/12",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanURL(tc.input))
		})
	}
}

func TestCleanURLIdempotent(t *testing.T) {
	once := CleanURL("https://api.github.com/repos/foo/bar")
	assert.Equal(t, once, CleanURL(once))
}
