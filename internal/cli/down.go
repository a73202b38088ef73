// Package cli: down.go implements the "composectl down" command.
//
// down stops and removes the project's containers and networks. With
// --volumes the named and anonymous volumes are removed as well.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
)

type downFlags struct {
	volumes bool
}

// NewDownCommand creates the "down" cobra command.
func NewDownCommand() *cobra.Command {
	flags := &downFlags{}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the project's containers and networks",
		Long: `Stop and remove the project's containers and networks.

Examples:
  composectl down
  composectl down --volumes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLifecycle(cmd.Context(), cmd, compose.VerbDown, func(opts *compose.Options) {
				opts.RemoveVolumes = flags.volumes
			})
		},
	}

	cmd.Flags().BoolVar(&flags.volumes, "volumes", false, "Also remove volumes")

	return cmd
}
