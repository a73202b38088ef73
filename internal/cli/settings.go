package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/compose"
	"github.com/modjke/docker-compose/internal/composefile"
	"github.com/modjke/docker-compose/internal/config"
	"github.com/modjke/docker-compose/internal/model"
)

// settings is the resolved configuration of one command invocation.
type settings struct {
	opts   compose.Options
	runner *compose.Runner

	// configPath is the defaults file that was applied, if any.
	configPath string
}

// resolveSettings merges, lowest precedence first, the .composectl.jsonc
// file, the environment and the global flags.
func resolveSettings(cmd *cobra.Command) (*settings, error) {
	dir := global.cwd
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to determine working directory", err)
		}
		dir = wd
	}

	file, err := config.Load(appFs, dir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidOptions, "failed to load defaults", err)
	}
	if err := file.ApplyEnv(os.Getenv); err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidOptions, "invalid environment", err)
	}
	if file.Path != "" {
		VerboseLog("Loaded defaults from %s", file.Path)
	}

	// --cwd names the project directory itself; the file's cwd does not
	// apply on top of it.
	if global.cwd != "" {
		file.Cwd = ""
	}

	opts, err := file.ToOptions()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidOptions, "invalid working directory", err)
	}

	if len(global.files) > 0 {
		opts.Config = compose.Configs(global.files...)
	}
	if global.projectName != "" {
		opts.ProjectName = global.projectName
	}
	// Only an explicit --log overrides the file and environment.
	if f := cmd.Flag("log"); f != nil && f.Changed {
		opts.Log = global.log
	}

	extra, err := config.ParseEnvPairs(global.env)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidOptions, "invalid --env value", err)
	}
	for k, v := range extra {
		if opts.Env == nil {
			opts.Env = make(map[string]string, len(extra))
		}
		opts.Env[k] = v
	}

	binary := file.Binary
	if global.binary != "" {
		binary = global.binary
	}

	VerboseLog("Project directory: %s", opts.Cwd)
	return &settings{
		opts:       opts,
		runner:     compose.NewRunnerForBinary(binary),
		configPath: file.Path,
	}, nil
}

// loadProject reads the compose files the invocation would use.
func (s *settings) loadProject() (*composefile.Project, error) {
	return composefile.Load(appFs, s.opts.Cwd, s.opts.Config)
}

// projectName returns the compose project name: the explicit name if one
// was given, else the name from the compose files, else the normalized
// directory name the compose tool would fall back to.
func (s *settings) projectName() string {
	if s.opts.ProjectName != "" {
		return s.opts.ProjectName
	}
	p, err := s.loadProject()
	if err == nil {
		return p.Name
	}
	VerboseLog("Could not read compose files: %v", err)
	return composefile.NormalizeProjectName(filepath.Base(s.opts.Cwd))
}

// requireService rejects a service the compose files do not define. When
// the files cannot be read the check is skipped and the compose tool gets
// the final word.
func (s *settings) requireService(service string) error {
	p, err := s.loadProject()
	if err != nil {
		VerboseLog("Skipping service check: %v", err)
		return nil
	}
	if !p.HasService(service) {
		return model.NewCLIError(model.ExitInvalidOptions,
			fmt.Sprintf("service %q is not defined (available: %v)", service, p.ServiceNames()))
	}
	return nil
}
