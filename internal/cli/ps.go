// Package cli: ps.go implements the "composectl ps" command.
//
// ps asks the Docker API, not the compose tool, which containers carry the
// project's com.docker.compose.project label. This is the same view the
// integration tests use to verify up, stop, kill and down.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/internal/docker"
	"github.com/modjke/docker-compose/internal/model"
)

// psFlags holds the flag values for the ps command.
type psFlags struct {
	// all includes stopped containers.
	all bool
}

// NewPsCommand creates the "ps" cobra command.
func NewPsCommand() *cobra.Command {
	flags := &psFlags{}

	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List the project's containers",
		Long: `List the containers of the compose project as reported by the Docker
daemon. Only running containers are shown unless --all is given.

Examples:
  composectl ps
  composectl ps --all --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPs(cmd.Context(), cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "Include stopped containers")

	return cmd
}

func runPs(ctx context.Context, cmd *cobra.Command, flags *psFlags) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	project := s.projectName()

	cli, err := docker.NewClient()
	if err != nil {
		return err // NewClient already returns CLIError with ExitDockerNotRunning
	}
	defer func() { _ = cli.Close() }()

	VerboseLog("Connected to Docker daemon")

	containers, err := docker.ListProjectContainers(ctx, cli.Inner(), project, flags.all)
	if err != nil {
		return err
	}
	VerboseLog("Found %d containers for project %q", len(containers), project)

	sortContainers(containers)
	return printContainers(cmd.OutOrStdout(), project, containers)
}

// sortContainers orders by service, then name, for stable output.
func sortContainers(containers []model.ContainerInfo) {
	sort.Slice(containers, func(i, j int) bool {
		if containers[i].ServiceName != containers[j].ServiceName {
			return containers[i].ServiceName < containers[j].ServiceName
		}
		return containers[i].ContainerName < containers[j].ContainerName
	})
}

type psJSON struct {
	Project    string                `json:"project"`
	Containers []model.ContainerInfo `json:"containers"`
}

func printContainers(w io.Writer, project string, containers []model.ContainerInfo) error {
	if IsJSONOutput() {
		out := psJSON{
			Project: project,
			// Empty slice so the output shows [] instead of null.
			Containers: make([]model.ContainerInfo, 0, len(containers)),
		}
		out.Containers = append(out.Containers, containers...)
		return writeJSON(w, out)
	}

	if len(containers) == 0 {
		_, err := fmt.Fprintf(w, "No containers found for project %q.\n", project)
		return err
	}

	// NAME                           SERVICE    STATE      ID            STATUS
	// compose_test_db                db         running    0123456789ab  Up 2 minutes
	_, _ = fmt.Fprintf(w, "%-30s %-12s %-10s %-13s %s\n", "NAME", "SERVICE", "STATE", "ID", "STATUS")
	for _, c := range containers {
		_, _ = fmt.Fprintf(w, "%-30s %-12s %-10s %-13s %s\n",
			c.ContainerName,
			FormatService(c),
			c.State.String(),
			c.ShortID(),
			c.Status,
		)
	}
	return nil
}

// FormatService returns the service column for a container: the service
// name, marked "(run)" for one-off containers, or "-" outside compose.
func FormatService(c model.ContainerInfo) string {
	switch {
	case c.ServiceName == "":
		return "-"
	case c.OneOff:
		return c.ServiceName + " (run)"
	default:
		return c.ServiceName
	}
}
