package sync

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"

	"github.com/issuebridge/gitsync/internal/ado"
	"github.com/issuebridge/gitsync/internal/config"
	"github.com/issuebridge/gitsync/internal/logging"
	"github.com/issuebridge/gitsync/internal/markdown"
	"github.com/issuebridge/gitsync/pkg/models"
)

// Work item field paths targeted by patch documents.
const (
	fieldTitle         = "/fields/System.Title"
	fieldDescription   = "/fields/System.Description"
	fieldReproSteps    = "/fields/Microsoft.VSTS.TCM.ReproSteps"
	fieldTags          = "/fields/System.Tags"
	fieldState         = "/fields/System.State"
	fieldAssignedTo    = "/fields/System.AssignedTo"
	fieldHistory       = "/fields/System.History"
	fieldAreaPath      = "/fields/System.AreaPath"
	fieldIterationPath = "/fields/System.IterationPath"
	fieldCreatedBy     = "/fields/System.CreatedBy"
	pathRelations      = "/relations/-"
)

// WorkItemStore is the work item backend surface the syncer depends on.
// internal/ado provides the real implementation.
type WorkItemStore interface {
	QueryIDs(ctx context.Context, query, project string) ([]int, error)
	Get(ctx context.Context, id int, fields []string) (*models.WorkItem, error)
	Create(ctx context.Context, doc []webapi.JsonPatchOperation, project, workItemType string, bypassRules bool) (*models.WorkItem, error)
	Update(ctx context.Context, doc []webapi.JsonPatchOperation, id int, project string, bypassRules bool) (*models.WorkItem, error)
}

// IssueStore is the GitHub issue surface the reconciler depends on.
// internal/github provides the real implementation.
type IssueStore interface {
	GetIssue(ctx context.Context, repository string, number int) (models.GitHubIssue, error)
	UpdateIssue(ctx context.Context, repository string, number int, update models.IssueUpdate) error
}

// Syncer applies one GitHub event to its ADO work item and, on schedule
// runs, pushes ADO-side changes back to GitHub. It holds no state beyond
// the read-only configuration; every run derives everything from the
// incoming event and fresh queries.
type Syncer struct {
	cfg    *config.Config
	items  WorkItemStore
	issues IssueStore
	states *StateTable
}

// New creates a Syncer. The issue store may be nil when no reverse-sync
// pass will run.
func New(cfg *config.Config, items WorkItemStore, issues IssueStore) *Syncer {
	return &Syncer{
		cfg:    cfg,
		items:  items,
		issues: issues,
		states: NewStateTable(cfg.ADO.States),
	}
}

// Run dispatches the event action to its patch-construction routine,
// then runs the reverse-sync pass when the schedule flag is set.
func (s *Syncer) Run(ctx context.Context) (models.SyncResult, error) {
	result, err := s.performAction(ctx)
	if err != nil {
		return result, err
	}

	if s.cfg.Schedule {
		if err := s.ReconcileAll(ctx); err != nil {
			return result, err
		}
	}

	return result, nil
}

// performAction maps the event action to exactly one routine. An action
// outside the vocabulary is not an error; the run simply has nothing to
// do.
func (s *Syncer) performAction(ctx context.Context) (models.SyncResult, error) {
	switch s.cfg.Action {
	case "opened":
		return s.createWorkItem(ctx)
	case "closed":
		return s.closeWorkItem(ctx)
	case "deleted":
		return s.deleteWorkItem(ctx)
	case "reopened":
		return s.reopenWorkItem(ctx)
	case "edited":
		return s.editWorkItem(ctx)
	case "labeled":
		return s.labelWorkItem(ctx)
	case "unlabeled":
		return s.unlabelWorkItem(ctx)
	case "assigned":
		return s.assignWorkItem(ctx)
	case "unassigned":
		return s.unassignWorkItem(ctx)
	case "created":
		return s.addComment(ctx)
	default:
		logging.Debug("no routine for action", "action", s.cfg.Action)
		return models.SyncResult{Outcome: models.OutcomeSkipped}, nil
	}
}

// locate finds the canonical work item for the event's issue. It
// returns nil without error when no work item matches; query and
// connection failures abort the caller. When more than one work item
// matches, the first result in backend order is taken; backend ordering
// is assumed stable enough for the intended single-match case.
func (s *Syncer) locate(ctx context.Context) (*models.WorkItem, error) {
	logging.Info("searching for work item...", "issue_number", s.cfg.Issue.Number)

	query := ado.IssueQuery(s.cfg.ADO.WorkItemType, s.cfg.Issue.Number, s.cfg.Repository.FullName)
	ids, err := s.items.QueryIDs(ctx, query, s.cfg.ADO.Project)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		logging.Info("work item not found", "issue_number", s.cfg.Issue.Number)
		return nil, nil
	}
	if len(ids) > 1 {
		logging.Warn("more than one work item found, taking the first one",
			"issue_number", s.cfg.Issue.Number,
			"count", len(ids))
	}

	logging.Info("work item found", "work_item_id", ids[0])
	return s.items.Get(ctx, ids[0], nil)
}

// updateWorkItem is the shared update path: locate the work item, then
// apply the patch document. A missing work item cancels the update with
// a warning, unless auto-create is configured and the event carries
// enough to create one.
func (s *Syncer) updateWorkItem(ctx context.Context, doc []webapi.JsonPatchOperation) (models.SyncResult, error) {
	workItem, err := s.locate(ctx)
	if err != nil {
		return models.SyncResult{Outcome: models.OutcomeSkipped}, err
	}
	if workItem == nil {
		if s.cfg.ADO.AutoCreate && s.cfg.Issue != nil && s.cfg.Issue.User != nil {
			logging.Info("work item missing, auto-creating before update",
				"issue_number", s.cfg.Issue.Number)
			return s.createWorkItem(ctx)
		}
		logging.Warn("cannot find work item, canceling update",
			"issue_number", s.cfg.Issue.Number)
		return models.SyncResult{Outcome: models.OutcomeSkipped}, nil
	}

	return s.applyUpdate(ctx, workItem.ID, doc)
}

// applyUpdate sends a patch document to a known work item id.
func (s *Syncer) applyUpdate(ctx context.Context, id int, doc []webapi.JsonPatchOperation) (models.SyncResult, error) {
	updated, err := s.items.Update(ctx, doc, id, s.cfg.ADO.Project, s.cfg.ADO.BypassRules)
	if err != nil {
		return models.SyncResult{Outcome: models.OutcomeSkipped}, fmt.Errorf("failure updating work item: %w", err)
	}

	logging.Info("successfully updated work item", "work_item_id", updated.ID)
	return models.SyncResult{Outcome: models.OutcomeUpdated, WorkItem: updated}, nil
}

// createWorkItem handles the "opened" action. Creation is idempotent:
// when a matching work item already exists the create is canceled and a
// distinct already-exists result is returned.
func (s *Syncer) createWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("creating work item...")

	existing, err := s.locate(ctx)
	if err != nil {
		return models.SyncResult{Outcome: models.OutcomeSkipped}, err
	}
	if existing != nil {
		logging.Warn("work item already exists, canceling creation",
			"work_item_id", existing.ID)
		return models.SyncResult{Outcome: models.OutcomeAlreadyExists, WorkItem: existing}, nil
	}

	created, err := s.items.Create(ctx, s.createPatch(), s.cfg.ADO.Project, s.cfg.ADO.WorkItemType, s.cfg.ADO.BypassRules)
	if err != nil {
		return models.SyncResult{Outcome: models.OutcomeSkipped}, fmt.Errorf("failure creating work item: %w", err)
	}

	logging.Info("successfully created work item", "work_item_id", created.ID)
	return models.SyncResult{Outcome: models.OutcomeCreated, WorkItem: created}, nil
}

// createPatch builds the creation patch document. The history entry is
// always the final op so the narrative reflects the other fields of the
// same patch application.
func (s *Syncer) createPatch() []webapi.JsonPatchOperation {
	issue := s.cfg.Issue
	html := markdown.ToHTML(issue.Body)

	doc := []webapi.JsonPatchOperation{
		ado.AddOp(fieldTitle, fmt.Sprintf("GH #%d: %s", issue.Number, issue.Title)),
		ado.AddOp(fieldDescription, html),
		ado.AddOp(fieldReproSteps, html),
		ado.AddOp(fieldTags, EncodeLabels(linkTags(s.cfg.Repository.FullName), issue.Labels)),
		ado.AddOp(pathRelations, map[string]string{
			"rel": "Hyperlink",
			"url": CleanURL(issue.URL),
		}),
	}

	if s.cfg.ADO.AssignedTo != "" {
		doc = append(doc, ado.AddOp(fieldAssignedTo, s.resolveAssignee(true)))
	}
	if s.cfg.ADO.AreaPath != "" {
		doc = append(doc, ado.AddOp(fieldAreaPath, s.cfg.ADO.AreaPath))
	}
	if s.cfg.ADO.IterationPath != "" {
		doc = append(doc, ado.AddOp(fieldIterationPath, s.cfg.ADO.IterationPath))
	}
	// the service only accepts a caller-chosen CreatedBy when rules are
	// bypassed
	if s.cfg.ADO.BypassRules {
		doc = append(doc, ado.AddOp(fieldCreatedBy, issue.User.Login))
	}

	return append(doc, ado.AddOp(fieldHistory, s.createdHistoryEntry()))
}

func (s *Syncer) closeWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("closing work item...")
	return s.updateWorkItem(ctx, s.closePatch())
}

// closePatch sets the configured closed state. The history entry is
// only recorded when the event carries a close timestamp.
func (s *Syncer) closePatch() []webapi.JsonPatchOperation {
	doc := []webapi.JsonPatchOperation{
		ado.AddOp(fieldState, s.states.Label("closed")),
	}

	if s.cfg.ClosedAt != "" {
		doc = append(doc, ado.AddOp(fieldHistory, s.historyEntry("closed")))
	}

	return doc
}

func (s *Syncer) deleteWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("deleting work item...")

	// issues are never hard-deleted on the ADO side; deletion is a
	// transition to the configured deleted state
	doc := []webapi.JsonPatchOperation{
		ado.AddOp(fieldState, s.states.Label("deleted")),
		ado.AddOp(fieldHistory, s.historyEntry("removed")),
	}

	return s.updateWorkItem(ctx, doc)
}

func (s *Syncer) reopenWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("reopening work item...")

	doc := []webapi.JsonPatchOperation{
		ado.AddOp(fieldState, s.states.Label("reopened")),
		ado.AddOp(fieldHistory, s.historyEntry("reopened")),
	}

	return s.updateWorkItem(ctx, doc)
}

func (s *Syncer) editWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("editing work item...")
	return s.updateWorkItem(ctx, s.editPatch())
}

func (s *Syncer) editPatch() []webapi.JsonPatchOperation {
	issue := s.cfg.Issue
	html := markdown.ToHTML(issue.Body)

	return []webapi.JsonPatchOperation{
		ado.ReplaceOp(fieldTitle, fmt.Sprintf("GH #%d: %s", issue.Number, issue.Title)),
		ado.ReplaceOp(fieldDescription, html),
		ado.ReplaceOp(fieldReproSteps, html),
		ado.AddOp(fieldHistory, s.historyEntry("edited")),
	}
}

func (s *Syncer) labelWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("adding label to work item...")

	// tags use an add op: the service merges the new entry into the
	// existing set
	doc := []webapi.JsonPatchOperation{
		ado.AddOp(fieldTags, EncodeLabels("", []models.Label{*s.cfg.Label})),
		ado.AddOp(fieldHistory, s.historyEntry(fmt.Sprintf("addition of label '%s'", s.cfg.Label.Name))),
	}

	return s.updateWorkItem(ctx, doc)
}

// unlabelWorkItem needs the current tag set, so it locates the work
// item itself and replaces tags with the label encoding stripped out.
func (s *Syncer) unlabelWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("removing label from work item...")

	workItem, err := s.locate(ctx)
	if err != nil {
		return models.SyncResult{Outcome: models.OutcomeSkipped}, err
	}
	if workItem == nil {
		logging.Warn("cannot find work item, canceling update",
			"issue_number", s.cfg.Issue.Number)
		return models.SyncResult{Outcome: models.OutcomeSkipped}, nil
	}

	doc := []webapi.JsonPatchOperation{
		ado.ReplaceOp(fieldTags, StripLabel(workItem.Tags, *s.cfg.Label)),
		ado.AddOp(fieldHistory, s.historyEntry(fmt.Sprintf("removal of label '%s'", s.cfg.Label.Name))),
	}

	return s.applyUpdate(ctx, workItem.ID, doc)
}

func (s *Syncer) assignWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("assigning work item...")
	return s.updateWorkItem(ctx, s.assignPatch())
}

// assignPatch resolves the assignee through the handle mapping only (no
// default fallback); an unresolved assignee clears the assignment.
func (s *Syncer) assignPatch() []webapi.JsonPatchOperation {
	var doc []webapi.JsonPatchOperation

	if assignee := s.resolveAssignee(false); assignee != "" {
		doc = append(doc, ado.AddOp(fieldAssignedTo, assignee))
	} else {
		doc = append(doc, ado.RemoveOp(fieldAssignedTo))
	}

	return append(doc, ado.AddOp(fieldHistory,
		s.historyEntry(fmt.Sprintf("assigned to '%s'", s.cfg.Assignee.Login))))
}

func (s *Syncer) unassignWorkItem(ctx context.Context) (models.SyncResult, error) {
	logging.Info("unassigning work item...")

	doc := []webapi.JsonPatchOperation{
		ado.RemoveOp(fieldAssignedTo),
		ado.AddOp(fieldHistory,
			s.historyEntry(fmt.Sprintf("removal of assignment to '%s'", s.cfg.Assignee.Login))),
	}

	return s.updateWorkItem(ctx, doc)
}

func (s *Syncer) addComment(ctx context.Context) (models.SyncResult, error) {
	logging.Info("adding comment to work item...")

	doc := []webapi.JsonPatchOperation{
		ado.AddOp(fieldHistory, s.commentHistoryEntry(markdown.ToHTML(s.cfg.Comment.Body))),
	}

	return s.updateWorkItem(ctx, doc)
}

// resolveAssignee maps the event's assignee to an ADO identity: the
// handle mapping first, then the configured default when useDefault is
// set, otherwise empty (leave unassigned). Absent mapping tables mean
// "no mapping"; this never fails.
func (s *Syncer) resolveAssignee(useDefault bool) string {
	if s.cfg.Assignee != nil && s.cfg.ADO.Mappings.Handles != nil {
		if mapped, ok := s.cfg.ADO.Mappings.Handles[s.cfg.Assignee.Login]; ok {
			logging.Debug("found mapping for handle",
				"handle", s.cfg.Assignee.Login, "assignee", mapped)
			return mapped
		}
		logging.Debug("no mapping found for handle", "handle", s.cfg.Assignee.Login)
	}

	if useDefault && s.cfg.ADO.AssignedTo != "" {
		logging.Debug("using default assignment", "assignee", s.cfg.ADO.AssignedTo)
		return s.cfg.ADO.AssignedTo
	}

	return ""
}
