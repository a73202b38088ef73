package cli

import (
	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
)

// NewExecCommand creates the "exec" cobra command. It shares its logic
// with run; see runInService.
func NewExecCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <service> <command...>",
		Short: "Run a command in a running service container",
		Long: `Run the command inside the service's running container and print its
stdout. The project must be up.

Examples:
  composectl exec db cat /etc/os-release
  composectl --json exec db ps aux`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInService(cmd.Context(), cmd, compose.VerbExec, args[0], args[1:])
		},
	}

	cmd.Flags().SetInterspersed(false)

	return cmd
}
