// Package cli: up.go implements the "composectl up" command.
//
// up creates and starts every service of the project in detached mode and
// returns once the compose tool reports the containers started.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
)

// NewUpCommand creates the "up" cobra command.
func NewUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create and start the project's containers",
		Long: `Create and start every service of the compose project in the background.

Examples:
  composectl up
  composectl up -f docker-compose.yml -f docker-compose.ci.yml
  composectl --cwd ./stack --log up`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLifecycle(cmd.Context(), cmd, compose.VerbUp, nil)
		},
	}
}
