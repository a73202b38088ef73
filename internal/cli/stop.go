// Package cli: stop.go implements the "composectl stop" command.
//
// stop lets the project's containers shut down gracefully and keeps them,
// so a later "up" restarts the same containers.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
)

// NewStopCommand creates the "stop" cobra command.
func NewStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the project's running containers",
		Long: `Stop the project's running containers without removing them.

Examples:
  composectl stop
  composectl --json stop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLifecycle(cmd.Context(), cmd, compose.VerbStop, nil)
		},
	}
}
