package docker

import (
	"strconv"
	"strings"
)

// Label keys written by Docker Compose on every container it creates.
// They are the only link between a running container and its project, so
// project-level queries filter on them server-side.
const (
	// LabelPrefix is the namespace Compose uses for its labels.
	LabelPrefix = "com.docker.compose."

	// LabelProject holds the compose project name.
	LabelProject = LabelPrefix + "project"

	// LabelService holds the service name from the compose file.
	LabelService = LabelPrefix + "service"

	// LabelOneOff is "True" for containers created by "compose run".
	LabelOneOff = LabelPrefix + "oneoff"

	// LabelContainerNumber is the replica index within the service.
	LabelContainerNumber = LabelPrefix + "container-number"

	// LabelConfigFiles is a comma-separated list of compose files used.
	LabelConfigFiles = LabelPrefix + "project.config_files"

	// LabelWorkingDir is the project directory compose ran in.
	LabelWorkingDir = LabelPrefix + "project.working_dir"
)

// ComposeLabels is the compose metadata decoded from a container's labels.
type ComposeLabels struct {
	Project     string
	Service     string
	OneOff      bool
	Number      int
	ConfigFiles []string
	WorkingDir  string
}

// IsCompose reports whether the labels came from a compose-managed container.
func (l ComposeLabels) IsCompose() bool {
	return l.Project != ""
}

// ParseComposeLabels decodes compose labels. Missing or malformed values are
// left at their zero value; containers started outside compose simply yield
// an empty ComposeLabels.
func ParseComposeLabels(labels map[string]string) ComposeLabels {
	parsed := ComposeLabels{
		Project:    labels[LabelProject],
		Service:    labels[LabelService],
		WorkingDir: labels[LabelWorkingDir],
	}

	// Compose writes "True"/"False"; accept any case.
	parsed.OneOff = strings.EqualFold(labels[LabelOneOff], "true")

	if n, err := strconv.Atoi(labels[LabelContainerNumber]); err == nil {
		parsed.Number = n
	}

	if files := labels[LabelConfigFiles]; files != "" {
		for _, f := range strings.Split(files, ",") {
			if f = strings.TrimSpace(f); f != "" {
				parsed.ConfigFiles = append(parsed.ConfigFiles, f)
			}
		}
	}

	return parsed
}

// ProjectFilter returns the label filter value selecting one project's
// containers, in the "key=value" form the Docker API expects.
func ProjectFilter(project string) string {
	return LabelProject + "=" + project
}
