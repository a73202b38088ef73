package cli

import (
	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
)

// NewKillCommand creates the "kill" cobra command. Containers receive
// SIGKILL and are kept.
func NewKillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kill",
		Short: "Force the project's running containers to stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLifecycle(cmd.Context(), cmd, compose.VerbKill, nil)
		},
	}
}
