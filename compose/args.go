package compose

import (
	"fmt"
	"strings"
)

// BuildArgs returns the argument vector for one compose invocation, without
// the binary itself. The layout is:
//
//	[-f <file>]... [-p <project>] [--project-directory <cwd>] <verb> <verb args>
//
// service and command are only read for run and exec; command is split on
// whitespace into separate arguments. BuildArgs never touches the filesystem
// and returns an error wrapping ErrInvalidOptions when a required value is
// missing.
func BuildArgs(verb Verb, opts Options, service, command string) ([]string, error) {
	if !verb.IsValid() {
		return nil, invalidOption("verb", fmt.Sprintf("unsupported verb %q", verb))
	}
	if strings.TrimSpace(opts.Cwd) == "" {
		return nil, invalidOption("cwd", "working directory is required")
	}

	// Global flags must precede the verb; compose rejects "-f" after it.
	// Files keep their order because later files override earlier ones.
	args := make([]string, 0, len(opts.Config)*2+8)
	for i, f := range opts.Config {
		if strings.TrimSpace(f) == "" {
			return nil, invalidOption("config", fmt.Sprintf("compose file entry %d is empty", i))
		}
		args = append(args, "-f", f)
	}
	if opts.ProjectName != "" {
		args = append(args, "-p", opts.ProjectName)
	}
	// The process already runs in Cwd, but with -f pointing elsewhere compose
	// would take the first file's directory as the project directory. Passing
	// it explicitly keeps .env lookup and relative paths anchored to Cwd.
	args = append(args, "--project-directory", opts.Cwd)

	args = append(args, verb.String())

	switch verb {
	case VerbUp:
		// Detached, so the call returns once containers are started.
		args = append(args, "-d")
	case VerbDown:
		if opts.RemoveVolumes {
			args = append(args, "-v")
		}
	case VerbRun:
		// One-off containers are removed once the command exits.
		args = append(args, "--rm")
	}

	if verb.NeedsService() {
		if strings.TrimSpace(service) == "" {
			return nil, invalidOption("service", "service name is required for "+verb.String())
		}
		// Split on whitespace without shell quoting: "sh -c 'a b'" becomes
		// four arguments. Callers needing quoting wrap it in a script.
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return nil, invalidOption("command", "command is required for "+verb.String())
		}
		// -T: output is captured, not attached to a terminal.
		args = append(args, "-T", service)
		args = append(args, fields...)
	}

	return args, nil
}
