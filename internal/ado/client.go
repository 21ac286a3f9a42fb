// Package ado provides functionality for interacting with the Azure
// DevOps work item tracking API.
package ado

import (
	"context"
	"fmt"
	"time"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"

	"github.com/issuebridge/gitsync/internal/logging"
	"github.com/issuebridge/gitsync/pkg/models"
)

// Client encapsulates the work item tracking API client.
type Client struct {
	client workitemtracking.Client
}

// NewClient connects to an Azure DevOps organization using a personal
// access token. A failure here means the organization cannot be reached
// and aborts the containing operation.
func NewClient(ctx context.Context, orgURL, token string) (*Client, error) {
	logging.Info("ado configuration",
		"org_url", orgURL,
		"token", logging.MaskSensitive(token))

	connection := azuredevops.NewPatConnection(orgURL, token)

	client, err := workitemtracking.NewClient(ctx, connection)
	if err != nil {
		logging.Error("cannot connect to organization", "org_url", orgURL, "error", err)
		return nil, fmt.Errorf("cannot connect to organization: %w", err)
	}

	return &Client{client: client}, nil
}

// QueryIDs runs a WIQL query against the given team project and returns
// the matching work item ids in backend order. The query step returns
// identifiers only; full field data requires a second fetch.
func (c *Client) QueryIDs(ctx context.Context, query, project string) ([]int, error) {
	logging.Debug("wiql query", "query", query, "project", project)

	result, err := c.client.QueryByWiql(ctx, workitemtracking.QueryByWiqlArgs{
		Wiql:    &workitemtracking.Wiql{Query: &query},
		Project: &project,
	})
	if err != nil {
		return nil, fmt.Errorf("work item query failed: %w", err)
	}
	if result == nil || result.WorkItems == nil {
		// the service answers this way when the project name is bad
		return nil, fmt.Errorf("work item query returned no result: project name appears to be invalid")
	}

	ids := make([]int, 0, len(*result.WorkItems))
	for _, ref := range *result.WorkItems {
		if ref.Id != nil {
			ids = append(ids, *ref.Id)
		}
	}

	logging.Debug("wiql query results", "count", len(ids))
	return ids, nil
}

// Get fetches a work item by id. When fields is nil the full record,
// including relations, is returned.
func (c *Client) Get(ctx context.Context, id int, fields []string) (*models.WorkItem, error) {
	args := workitemtracking.GetWorkItemArgs{Id: &id}
	if fields != nil {
		args.Fields = &fields
	} else {
		args.Expand = &workitemtracking.WorkItemExpandValues.All
	}

	workItem, err := c.client.GetWorkItem(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("failed to get work item %d: %w", id, err)
	}

	return fromAPI(workItem), nil
}

// Create creates a work item of the given type from a JSON patch
// document. A nil result from the service usually means the work item
// type is not valid for the project.
func (c *Client) Create(ctx context.Context, doc []webapi.JsonPatchOperation, project, workItemType string, bypassRules bool) (*models.WorkItem, error) {
	validateOnly := false

	result, err := c.client.CreateWorkItem(ctx, workitemtracking.CreateWorkItemArgs{
		Document:     &doc,
		Project:      &project,
		Type:         &workItemType,
		ValidateOnly: &validateOnly,
		BypassRules:  &bypassRules,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create work item: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("failed to create work item: work item type may not be correct: %s", workItemType)
	}

	return fromAPI(result), nil
}

// Update applies a JSON patch document to an existing work item.
func (c *Client) Update(ctx context.Context, doc []webapi.JsonPatchOperation, id int, project string, bypassRules bool) (*models.WorkItem, error) {
	validateOnly := false

	result, err := c.client.UpdateWorkItem(ctx, workitemtracking.UpdateWorkItemArgs{
		Document:     &doc,
		Id:           &id,
		Project:      &project,
		ValidateOnly: &validateOnly,
		BypassRules:  &bypassRules,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update work item %d: %w", id, err)
	}

	return fromAPI(result), nil
}

// fromAPI converts the API work item record to our internal model.
func fromAPI(workItem *workitemtracking.WorkItem) *models.WorkItem {
	if workItem == nil {
		return nil
	}

	item := &models.WorkItem{}
	if workItem.Id != nil {
		item.ID = *workItem.Id
	}
	if workItem.Fields == nil {
		return item
	}

	fields := *workItem.Fields
	item.Title = stringField(fields, "System.Title")
	item.Description = stringField(fields, "System.Description")
	item.State = stringField(fields, "System.State")
	item.Tags = stringField(fields, "System.Tags")
	item.AssignedTo = identityField(fields, "System.AssignedTo")

	if raw := stringField(fields, "System.ChangedDate"); raw != "" {
		changed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			logging.Warn("unparseable changed date on work item",
				"work_item_id", item.ID, "value", raw, "error", err)
		} else {
			item.ChangedDate = changed
		}
	}

	return item
}

// stringField reads a string-valued field, tolerating its absence.
func stringField(fields map[string]interface{}, name string) string {
	if value, ok := fields[name].(string); ok {
		return value
	}
	return ""
}

// identityField reads an identity reference field. The service returns
// either a plain string or an identity object depending on API surface.
func identityField(fields map[string]interface{}, name string) string {
	switch value := fields[name].(type) {
	case string:
		return value
	case map[string]interface{}:
		if unique, ok := value["uniqueName"].(string); ok {
			return unique
		}
		if display, ok := value["displayName"].(string); ok {
			return display
		}
	}
	return ""
}
