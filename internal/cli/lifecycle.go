package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
)

// lifecycleResult is the JSON output of up, down, stop and kill.
type lifecycleResult struct {
	Project string   `json:"project"`
	Action  string   `json:"action"`
	Cwd     string   `json:"cwd"`
	Files   []string `json:"files,omitempty"`
}

// pastTense maps a project-wide verb to the word used in text output.
var pastTense = map[compose.Verb]string{
	compose.VerbUp:   "started",
	compose.VerbDown: "removed",
	compose.VerbStop: "stopped",
	compose.VerbKill: "killed",
}

// runLifecycle runs a project-wide verb and reports the outcome.
func runLifecycle(ctx context.Context, cmd *cobra.Command, verb compose.Verb, configure func(*compose.Options)) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if configure != nil {
		configure(&s.opts)
	}

	project := s.projectName()
	VerboseLog("Running compose %s for project %q", verb, project)

	if _, err := s.runner.Execute(ctx, verb, s.opts, "", ""); err != nil {
		return err
	}

	return printLifecycleResult(cmd.OutOrStdout(), lifecycleResult{
		Project: project,
		Action:  pastTense[verb],
		Cwd:     s.opts.Cwd,
		Files:   s.opts.Config,
	})
}

func printLifecycleResult(w io.Writer, res lifecycleResult) error {
	if IsJSONOutput() {
		return writeJSON(w, res)
	}
	_, err := fmt.Fprintf(w, "Compose project %q %s\n", res.Project, res.Action)
	return err
}
