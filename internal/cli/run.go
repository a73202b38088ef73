// Package cli: run.go implements the "composectl run" and "composectl exec"
// commands and the logic they share.
//
// Both execute a command for one service and print what it wrote to stdout.
// run starts a one-off container that is removed afterwards; exec uses the
// service's running container. When the command fails, its exit code
// becomes composectl's exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
	"github.com/modjke/docker-compose/internal/model"
)

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <service> <command...>",
		Short: "Run a command in a one-off service container",
		Long: `Start a one-off container for the service, run the command in it and
remove the container afterwards. The command's stdout is printed.

Everything after the service name is the command, including flags.

Examples:
  composectl run alpine cat /etc/os-release
  composectl run -e TAG=ci db ls -la /data`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInService(cmd.Context(), cmd, compose.VerbRun, args[0], args[1:])
		},
	}

	// Stop flag parsing at the service name so the command keeps its flags.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// serviceResult is the JSON output of run and exec.
type serviceResult struct {
	Service  string `json:"service"`
	Command  string `json:"command"`
	Out      string `json:"out"`
	Err      string `json:"err,omitempty"`
	ExitCode int    `json:"exitCode"`
}

// runInService runs command for service with verb run or exec.
func runInService(ctx context.Context, cmd *cobra.Command, verb compose.Verb, service string, command []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := s.requireService(service); err != nil {
		return err
	}

	line := strings.Join(command, " ")
	VerboseLog("Running %q in service %q (%s)", line, service, verb)

	res, err := s.runner.Execute(ctx, verb, s.opts, service, line)

	var exitErr *compose.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return err
	}

	if perr := printServiceResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), serviceResult{
		Service:  service,
		Command:  line,
		Out:      res.Out,
		Err:      res.Err,
		ExitCode: res.ExitCode,
	}); perr != nil {
		return perr
	}

	if exitErr != nil {
		return commandExitError(verb, service, res)
	}
	return nil
}

// commandExitError passes the command's exit status through as the CLI exit
// code. A status the OS cannot represent (signal kills report -1) falls
// back to ExitComposeFailed.
func commandExitError(verb compose.Verb, service string, res compose.Result) *model.CLIError {
	code := model.ExitCode(res.ExitCode)
	if res.ExitCode <= 0 || res.ExitCode > 255 {
		code = model.ExitComposeFailed
	}
	return model.NewCLIError(code,
		fmt.Sprintf("%s in service %q exited with code %d", verb, service, res.ExitCode))
}

func printServiceResult(stdout, stderr io.Writer, res serviceResult) error {
	if IsJSONOutput() {
		return writeJSON(stdout, res)
	}
	if _, err := io.WriteString(stdout, res.Out); err != nil {
		return err
	}
	if res.Err != "" {
		_, err := io.WriteString(stderr, res.Err)
		return err
	}
	return nil
}
