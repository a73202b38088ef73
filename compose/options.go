package compose

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Verb is a compose subcommand supported by this package.
type Verb string

const (
	// VerbUp creates and starts the project's containers in detached mode.
	VerbUp Verb = "up"

	// VerbDown stops and removes containers and networks.
	VerbDown Verb = "down"

	// VerbStop stops running containers without removing them.
	VerbStop Verb = "stop"

	// VerbKill forces running containers to stop with SIGKILL.
	VerbKill Verb = "kill"

	// VerbRun starts a one-off container for a service and runs a command in it.
	VerbRun Verb = "run"

	// VerbExec runs a command inside an already running service container.
	VerbExec Verb = "exec"
)

// Verbs lists every supported verb in a stable order.
var Verbs = []Verb{VerbUp, VerbDown, VerbStop, VerbKill, VerbRun, VerbExec}

// String returns the subcommand name.
func (v Verb) String() string {
	return string(v)
}

// IsValid reports whether v is one of the supported verbs.
func (v Verb) IsValid() bool {
	switch v {
	case VerbUp, VerbDown, VerbStop, VerbKill, VerbRun, VerbExec:
		return true
	default:
		return false
	}
}

// NeedsService reports whether the verb takes a service name and a command.
func (v Verb) NeedsService() bool {
	return v == VerbRun || v == VerbExec
}

// ConfigFiles is an ordered list of compose file paths. Later files override
// earlier ones when the tool merges them.
//
// When decoded from JSON or YAML a single string is accepted and normalized
// to a one-element list, so "a.yml" and ["a.yml"] are the same value.
type ConfigFiles []string

// Configs builds a ConfigFiles value from individual paths.
func Configs(paths ...string) ConfigFiles {
	if len(paths) == 0 {
		return nil
	}
	files := make(ConfigFiles, len(paths))
	copy(files, paths)
	return files
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (c *ConfigFiles) UnmarshalJSON(data []byte) error {
	// Scalar form first, then the list form.
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = normalizeSingle(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("compose config must be a string or a list of strings: %w", err)
	}
	*c = ConfigFiles(list)
	return nil
}

// UnmarshalYAML accepts either a scalar or a sequence of scalars.
func (c *ConfigFiles) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*c = normalizeSingle(single)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("compose config must be a list of strings: %w", err)
		}
		*c = ConfigFiles(list)
		return nil
	default:
		// Mappings and aliases to them are rejected; node.Line points the
		// user at the offending key.
		return fmt.Errorf("compose config must be a string or a list of strings (line %d)", node.Line)
	}
}

// normalizeSingle turns a scalar config value into a list. An empty string
// means "no explicit file" and yields a nil list.
func normalizeSingle(s string) ConfigFiles {
	if s == "" {
		return nil
	}
	return ConfigFiles{s}
}

// Options configures a single compose invocation. A value is built per call
// and never retained by the runner.
type Options struct {
	// Cwd is the project directory. The process runs there and relative
	// compose file paths resolve against it. Required.
	Cwd string `json:"cwd" yaml:"cwd"`

	// Config lists compose files passed with -f. When empty the tool falls
	// back to its own discovery of docker-compose.yml in Cwd.
	Config ConfigFiles `json:"config,omitempty" yaml:"config,omitempty"`

	// Log forwards the tool's stdout and stderr to the runner's logger
	// while the process runs.
	Log bool `json:"log,omitempty" yaml:"log,omitempty"`

	// Env is added on top of the current process environment.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// ProjectName, when set, is passed as -p and overrides the name the tool
	// would derive from the directory.
	ProjectName string `json:"projectName,omitempty" yaml:"projectName,omitempty"`

	// RemoveVolumes adds -v to down so named and anonymous volumes go too.
	RemoveVolumes bool `json:"removeVolumes,omitempty" yaml:"removeVolumes,omitempty"`
}
