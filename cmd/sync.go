package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuebridge/gitsync/internal/ado"
	"github.com/issuebridge/gitsync/internal/config"
	"github.com/issuebridge/gitsync/internal/github"
	"github.com/issuebridge/gitsync/internal/logging"
	"github.com/issuebridge/gitsync/internal/sync"
	"github.com/issuebridge/gitsync/pkg/models"
)

// syncCmd processes one GitHub webhook event against Azure DevOps.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Apply one GitHub issue event to its Azure DevOps work item",
	Long: `Process a single GitHub webhook event.

The event payload is read from --event-file or $GITHUB_EVENT_PATH and
merged with the JSON configuration file and environment overrides. The
action in the event decides the patch applied to the matching work
item. When the configuration carries the schedule flag, the reverse
sync pass runs after the event is handled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := context.Background()

		adoClient, err := ado.NewClient(ctx, cfg.ADO.OrgURL, cfg.ADO.Token)
		if err != nil {
			return err
		}

		// the issue side is only touched by the reverse pass
		var issues sync.IssueStore
		if cfg.Schedule {
			githubClient, err := github.NewClient(cfg.GitHub.Token)
			if err != nil {
				return fmt.Errorf("failed to initialize github client: %v", err)
			}
			issues = githubClient
		}

		syncer := sync.New(cfg, adoClient, issues)

		result, err := syncer.Run(ctx)
		if err != nil {
			return err
		}

		logging.Info("sync finished",
			"action", cfg.Action,
			"outcome", result.Outcome.String())
		return nil
	},
}

// resolveConfig reads the event payload and merges it with the file and
// environment configuration, then installs the resolved log verbosity.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return nil, err
	}
	eventFile, err := cmd.Flags().GetString("event-file")
	if err != nil {
		return nil, err
	}

	payload, err := loadEvent(eventFile)
	if err != nil {
		return nil, err
	}

	cfg := config.Resolve(payload, configFile)
	logging.SetupLogger(os.Stdout, logging.LogLevel(cfg.LogLevel))

	logging.Debug("resolved configuration",
		"action", cfg.Action,
		"repository", cfg.RepoFullName(),
		"organization", cfg.ADO.Organization,
		"project", cfg.ADO.Project,
		"schedule", cfg.Schedule,
		"ado_token", logging.MaskSensitive(cfg.ADO.Token),
		"github_token", logging.MaskSensitive(cfg.GitHub.Token))

	return cfg, nil
}

// loadEvent decodes the webhook payload. A missing path yields an empty
// payload so schedule-only runs work without an event file.
func loadEvent(path string) (*models.EventPayload, error) {
	if path == "" {
		path = os.Getenv("GITHUB_EVENT_PATH")
	}
	if path == "" {
		logging.Info("no event payload available, proceeding with an empty event")
		return &models.EventPayload{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %v", err)
	}

	payload := &models.EventPayload{}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %v", err)
	}

	return payload, nil
}
