package sync

import (
	"fmt"
)

// History entries are narrative HTML appended to the work item's
// System.History field. The templates are kept byte-stable: downstream
// consumers (and this tool's own tests) rely on their exact shape, and
// all embedded GitHub API URLs are rewritten to web URLs first.

// historyEntry narrates an action on an existing issue, e.g.
// "GitHub issue #7: <title> in <repo> closed by <user>".
func (s *Syncer) historyEntry(action string) string {
	issue := s.cfg.Issue
	return fmt.Sprintf(
		`GitHub issue #%d: <a href="%s" target="_new">%s</a> in <a href="%s" target="_blank">%s</a> %s by <a href="%s" target="_blank">%s</a>`,
		issue.Number,
		CleanURL(issue.URL),
		issue.Title,
		CleanURL(issue.RepositoryURL),
		s.cfg.Repository.FullName,
		action,
		issue.User.HTMLURL,
		issue.User.Login,
	)
}

// createdHistoryEntry narrates work item creation; the verb precedes the
// repository link in this template.
func (s *Syncer) createdHistoryEntry() string {
	issue := s.cfg.Issue
	return fmt.Sprintf(
		`GitHub issue #%d: <a href="%s" target="_new">%s</a> created in <a href="%s" target="_blank">%s</a> by <a href="%s" target="_blank">%s</a>`,
		issue.Number,
		CleanURL(issue.URL),
		issue.Title,
		CleanURL(issue.RepositoryURL),
		s.cfg.Repository.FullName,
		issue.User.HTMLURL,
		issue.User.Login,
	)
}

// commentHistoryEntry narrates a new comment, embedding the rendered
// HTML body and a link to the comment itself.
func (s *Syncer) commentHistoryEntry(html string) string {
	issue := s.cfg.Issue
	comment := s.cfg.Comment
	return fmt.Sprintf(
		`GitHub issue #%d: <a href="%s" target="_new">%s</a> in <a href="%s" target="_blank">%s</a> comment added by <a href="%s" target="_blank">%s</a><br />`+
			`Comment #<a href="%s" target="_blank">%d</a>:<br /><br />%s`,
		issue.Number,
		CleanURL(issue.URL),
		issue.Title,
		CleanURL(issue.RepositoryURL),
		s.cfg.Repository.FullName,
		comment.User.HTMLURL,
		comment.User.Login,
		comment.HTMLURL,
		comment.ID,
		html,
	)
}
