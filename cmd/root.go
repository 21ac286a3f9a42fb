// Package cmd provides the command-line interface for the gitsync tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gitsync",
	Short: "gitsync bridges GitHub issues and Azure DevOps work items",
	Long: `gitsync keeps GitHub issues and Azure DevOps work items in sync.

On a webhook event it locates the work item matching the issue by the
"GH #<n>:" title and GitHub tag convention and applies the patch the
event calls for: creating the work item, changing its state, mirroring
edits and labels, recording assignments and comments. On a scheduled
run it performs the reverse pass, pushing recent Azure DevOps changes
back to the GitHub issue when the work item holds the newer truth.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().StringP("config-file", "c", "", "Path to the JSON configuration file")
	rootCmd.PersistentFlags().StringP("event-file", "e", "", "Path to the webhook event payload (defaults to $GITHUB_EVENT_PATH)")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(reconcileCmd)
}
