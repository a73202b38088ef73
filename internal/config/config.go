// Package config loads the defaults composectl applies before command-line
// flags: an optional .composectl.jsonc file in the working directory and a
// few environment variables.
//
// Precedence, lowest first: file, environment, flags. Flags are applied by
// the cli package; this package only produces the merged defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/modjke/docker-compose/compose"
)

// FileName is the defaults file looked up in the working directory.
const FileName = ".composectl.jsonc"

// Environment variables read by ApplyEnv.
const (
	EnvBinary      = "COMPOSECTL_BINARY"
	EnvLog         = "COMPOSECTL_LOG"
	EnvProjectName = "COMPOSE_PROJECT_NAME"
)

// File holds composectl defaults. Every field is optional.
//
// Example .composectl.jsonc:
//
//	{
//	  // run from the repository root
//	  "cwd": "..",
//	  "config": ["docker-compose.yml", "docker-compose.ci.yml"],
//	  "log": true,
//	  "env": {"TAG": "latest"},
//	  "binary": "docker-compose",
//	}
type File struct {
	// Cwd is the compose project directory. Relative values resolve
	// against the directory the file was loaded from.
	Cwd string `json:"cwd,omitempty"`

	// Config accepts a single path or a list, like compose.Options.
	Config compose.ConfigFiles `json:"config,omitempty"`

	// Log is a pointer so an explicit false in the file is distinguishable
	// from an absent key.
	Log *bool `json:"log,omitempty"`

	Env         map[string]string `json:"env,omitempty"`
	ProjectName string            `json:"projectName,omitempty"`

	// Binary selects the compose executable: "docker" (plugin form, the
	// default), "docker-compose", or a path to a standalone binary.
	Binary string `json:"binary,omitempty"`

	// Dir is the directory the defaults apply to. It is not read from the
	// file.
	Dir string `json:"-"`

	// Path is the file that was loaded, empty when none was found.
	Path string `json:"-"`
}

// Load reads FileName from dir. A missing file is not an error and yields
// defaults with only Dir set.
func Load(fs afero.Fs, dir string) (*File, error) {
	f := &File{Dir: dir}

	path := filepath.Join(dir, FileName)
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Comments and trailing commas are stripped before decoding.
	if err := json.Unmarshal(jsonc.ToJSON(data), f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// ApplyEnv overrides file values with environment variables. getenv is
// usually os.Getenv.
func (f *File) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvBinary); v != "" {
		f.Binary = v
	}
	if v := getenv(EnvProjectName); v != "" {
		f.ProjectName = v
	}
	if v := getenv(EnvLog); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvLog, v, err)
		}
		f.Log = &b
	}
	return nil
}

// ToOptions converts the defaults to compose.Options with an absolute Cwd.
// Env is copied so callers may add to it.
func (f *File) ToOptions() (compose.Options, error) {
	cwd := f.Cwd
	if cwd == "" {
		cwd = f.Dir
	} else if !filepath.IsAbs(cwd) {
		cwd = filepath.Join(f.Dir, cwd)
	}

	abs, err := filepath.Abs(cwd)
	if err != nil {
		return compose.Options{}, fmt.Errorf("failed to resolve working directory %q: %w", cwd, err)
	}

	opts := compose.Options{
		Cwd:         abs,
		Config:      compose.Configs(f.Config...),
		ProjectName: f.ProjectName,
	}
	if f.Log != nil {
		opts.Log = *f.Log
	}
	if len(f.Env) > 0 {
		opts.Env = make(map[string]string, len(f.Env))
		for k, v := range f.Env {
			opts.Env[k] = v
		}
	}
	return opts, nil
}

// ParseEnvPairs parses KEY=VALUE strings as given to --env. The value may
// be empty or contain "=".
func ParseEnvPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment variable %q: expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}
