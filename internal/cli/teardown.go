// Package cli: teardown.go implements the "composectl teardown" command.
//
// teardown cleans up after test runs that leave containers behind: every
// running container whose name starts with the prefix is stopped (or
// killed), and with --remove deleted. It talks to the Docker API directly
// and works without compose files.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/internal/docker"
	"github.com/modjke/docker-compose/internal/model"
)

// teardownFlags holds the flag values for the teardown command.
type teardownFlags struct {
	// kill sends SIGKILL instead of a graceful stop.
	kill bool

	// remove deletes the containers, including already stopped ones.
	remove bool
}

// NewTeardownCommand creates the "teardown" cobra command.
func NewTeardownCommand() *cobra.Command {
	flags := &teardownFlags{}

	cmd := &cobra.Command{
		Use:   "teardown <prefix>",
		Short: "Stop containers whose name starts with a prefix",
		Long: `Stop every running container whose name starts with the prefix.

With --remove the matching containers are also deleted, including ones
that were already stopped.

Examples:
  composectl teardown compose_test_
  composectl teardown --kill --remove compose_test_`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTeardown(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.kill, "kill", false, "Kill instead of stopping gracefully")
	cmd.Flags().BoolVar(&flags.remove, "remove", false, "Remove the containers after stopping them")

	return cmd
}

func runTeardown(ctx context.Context, w io.Writer, prefix string, flags *teardownFlags) error {
	if err := checkPrefix(prefix); err != nil {
		return err
	}

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	processed, err := teardown(ctx, cli.Inner(), prefix, flags)
	if perr := printTeardown(w, prefix, processed); perr != nil {
		return perr
	}
	return err
}

type teardownEntry struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Action  string `json:"action"`
	Failure string `json:"error,omitempty"`
}

// teardown stops or kills, then optionally removes, each matching container.
// A failure on one container does not stop the sweep.
func teardown(ctx context.Context, api docker.API, prefix string, flags *teardownFlags) ([]teardownEntry, error) {
	if err := checkPrefix(prefix); err != nil {
		return nil, err
	}

	// Stopped containers only matter when they are to be removed.
	containers, err := docker.ListByNamePrefix(ctx, api, prefix, flags.remove)
	if err != nil {
		return nil, err
	}

	entries := make([]teardownEntry, 0, len(containers))
	var errs []error
	for _, c := range containers {
		entry := teardownEntry{Name: c.ContainerName, ID: c.ShortID()}

		var opErr error
		switch {
		case !c.State.IsRunning():
			entry.Action = "skipped"
		case flags.kill:
			entry.Action = "killed"
			opErr = docker.KillContainer(ctx, api, c.ContainerID)
		default:
			entry.Action = "stopped"
			opErr = docker.StopContainer(ctx, api, c.ContainerID)
		}

		if opErr == nil && flags.remove {
			entry.Action = "removed"
			opErr = docker.RemoveContainer(ctx, api, c.ContainerID, true)
		}

		if opErr != nil {
			entry.Failure = opErr.Error()
			errs = append(errs, opErr)
		}
		VerboseLog("Teardown %s: %s", entry.Name, entry.Action)
		entries = append(entries, entry)
	}

	if len(errs) > 0 {
		return entries, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("teardown of %d container(s) failed", len(errs)), errors.Join(errs...))
	}
	return entries, nil
}

// checkPrefix rejects prefixes that would match every container.
func checkPrefix(prefix string) error {
	if strings.TrimPrefix(strings.TrimSpace(prefix), "/") == "" {
		return model.NewCLIError(model.ExitInvalidOptions, "prefix must not be empty")
	}
	return nil
}

func printTeardown(w io.Writer, prefix string, entries []teardownEntry) error {
	if IsJSONOutput() {
		if entries == nil {
			entries = []teardownEntry{}
		}
		return writeJSON(w, struct {
			Prefix     string          `json:"prefix"`
			Containers []teardownEntry `json:"containers"`
		}{prefix, entries})
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No containers match prefix %q.\n", prefix)
		return err
	}
	for _, e := range entries {
		if e.Failure != "" {
			_, _ = fmt.Fprintf(w, "%-30s %s failed: %s\n", e.Name, e.Action, e.Failure)
			continue
		}
		_, _ = fmt.Fprintf(w, "%-30s %s\n", e.Name, e.Action)
	}
	return nil
}
