// Package main is the entry point for the gitsync tool.
package main

import (
	"fmt"
	"os"

	"github.com/issuebridge/gitsync/cmd"
	"github.com/issuebridge/gitsync/internal/logging"
)

// main executes the root command. A nonzero exit is the failure signal
// the invoking automation watches for.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
