// Package cli implements the cobra-based CLI commands for composectl.
//
// Each subcommand (up, down, stop, kill, run, exec, services, ps, teardown)
// is defined in its own file within this package. This file defines the root
// command, the global flags shared by every subcommand, and the translation
// of errors into exit codes.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
	"github.com/modjke/docker-compose/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool

	// global holds the compose-related flags.
	global globalFlags
)

// globalFlags are the persistent flags that feed compose.Options.
type globalFlags struct {
	cwd         string
	files       []string
	env         []string
	projectName string
	log         bool
	binary      string
}

// appFs is the filesystem config and compose files are read from.
// Tests swap in afero.NewMemMapFs().
var appFs = afero.NewOsFs()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags.
func NewRootCommand() *cobra.Command {
	global = globalFlags{}
	jsonOutput = false
	verbose = false

	rootCmd := &cobra.Command{
		Use:   "composectl",
		Short: "Thin wrapper around the docker compose CLI",
		Long: `composectl drives a compose project through the docker compose CLI:
bring it up or down, stop or kill its containers, and run commands in
one-off or running service containers.

Defaults can be kept in a .composectl.jsonc file in the working directory.
Flags override the file and the COMPOSECTL_* environment variables.`,

		// We handle usage and error output ourselves (text or JSON).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogging(cmd.ErrOrStderr())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&global.cwd, "cwd", "", "Compose project directory (default: current directory)")
	pf.StringArrayVarP(&global.files, "file", "f", nil, "Compose file, repeatable; later files override earlier ones")
	pf.StringArrayVarP(&global.env, "env", "e", nil, "Environment variable KEY=VALUE for the compose process, repeatable")
	pf.StringVarP(&global.projectName, "project-name", "p", "", "Compose project name")
	pf.BoolVar(&global.log, "log", false, "Forward compose output to the log while it runs")
	pf.StringVar(&global.binary, "binary", "", `Compose executable: "docker" (plugin) or "docker-compose"`)

	rootCmd.AddCommand(NewUpCommand())
	rootCmd.AddCommand(NewDownCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewKillCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewExecCommand())
	rootCmd.AddCommand(NewServicesCommand())
	rootCmd.AddCommand(NewPsCommand())
	rootCmd.AddCommand(NewTeardownCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code matching the error.
// This is the main entry point called from main.go.
//
// The compose process runs in its own process group, so a Ctrl-C at the
// terminal reaches only composectl. The signal cancels the command's
// context instead, which kills the compose process group.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	// os.Exit skips deferred calls, so release the signal handler first.
	stop()

	if err != nil {
		cliErr := toCLIError(err)
		printError(os.Stderr, cliErr.Message, cliErr.Err)
		os.Exit(int(cliErr.Code))
	}
}

// toCLIError classifies err. CLIErrors keep their code; compose errors map
// to the exit code of their class; anything else is a general error.
func toCLIError(err error) *model.CLIError {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var exitErr *compose.ExitError
	switch {
	case errors.Is(err, compose.ErrInvalidOptions):
		return model.WrapCLIError(model.ExitInvalidOptions, "invalid options", err)
	case errors.Is(err, compose.ErrSpawnFailure):
		return model.WrapCLIError(model.ExitSpawnFailure, "failed to start the compose tool", err)
	case errors.As(err, &exitErr):
		return model.WrapCLIError(model.ExitComposeFailed,
			fmt.Sprintf("compose %s failed", exitErr.Verb), err)
	default:
		return model.WrapCLIError(model.ExitGeneralError, err.Error(), nil)
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		_, _ = fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		_, _ = fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		_, _ = fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// configureLogging points the standard logrus logger at w. Compose output
// forwarded with --log and VerboseLog traces both go through it.
func configureLogging(w io.Writer) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// VerboseLog logs a debug message, visible only with --verbose.
func VerboseLog(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
