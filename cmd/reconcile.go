package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuebridge/gitsync/internal/ado"
	"github.com/issuebridge/gitsync/internal/github"
	"github.com/issuebridge/gitsync/internal/logging"
	"github.com/issuebridge/gitsync/internal/sync"
)

// reconcileCmd runs the reverse-sync pass on its own, without
// processing an event first.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Push recent Azure DevOps work item changes back to GitHub",
	Long: `Run the reverse synchronization pass.

Queries Azure DevOps for GitHub-linked work items changed within the
trailing day and, for each one whose change date is strictly newer than
the linked issue's update time, pushes the derived title, body, and
state back to the GitHub issue.`,
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

		githubClient, err := github.NewClient(cfg.GitHub.Token)
		if err != nil {
			return fmt.Errorf("failed to initialize github client: %v", err)
		}

		syncer := sync.New(cfg, adoClient, githubClient)

		if err := syncer.ReconcileAll(ctx); err != nil {
			return err
		}

		logging.Info("reconcile finished", "repository", cfg.RepoFullName())
		return nil
	},
}
