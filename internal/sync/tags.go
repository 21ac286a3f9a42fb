// Package sync implements the synchronization core: the tag codec, the
// work item locator, the event-to-patch mapper, and the reverse-sync
// reconciler.
package sync

import (
	"fmt"
	"strings"

	"github.com/issuebridge/gitsync/pkg/models"
)

// Fixed tag vocabulary linking a work item back to its GitHub issue.
const (
	tagIssue      = "GitHub Issue"
	tagRepoPrefix = "GitHub Repo: "
)

// EncodeLabels appends the tag encoding of each label to seed, in input
// order. Duplicate label names produce duplicate tag entries; the list
// mirrors GitHub's own, so no deduplication is done.
func EncodeLabels(seed string, labels []models.Label) string {
	var b strings.Builder
	b.WriteString(seed)

	for _, label := range labels {
		fmt.Fprintf(&b, "GitHub Label: %s;", label.Name)
	}

	return b.String()
}

// linkTags seeds a tag string tying a work item to its repository.
func linkTags(repository string) string {
	return fmt.Sprintf("%s;%s%s;", tagIssue, tagRepoPrefix, repository)
}

// StripLabel removes the tag encoding of one label from a tag string.
// When the encoding is absent the input is returned unchanged.
func StripLabel(tags string, label models.Label) string {
	return strings.Replace(tags, EncodeLabels("", []models.Label{label}), "", 1)
}

// CleanURL rewrites a GitHub API URL to its public web form so links
// written into ADO are human-navigable. Already-clean URLs pass through
// unchanged.
func CleanURL(url string) string {
	return strings.Replace(url, "api.github.com/repos/", "github.com/", 1)
}
