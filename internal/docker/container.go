// container.go implements the container queries used to verify what the
// compose tool did: listing containers, matching them by name or project,
// and stopping or removing them by ID.
//
// Every function takes the API it talks to as an argument. Tests hand in a
// fake, production code hands in Client.Inner().
package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/modjke/docker-compose/internal/model"
)

// API is the subset of the Docker Engine SDK used by this package.
// *client.Client satisfies it.
type API interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerKill(ctx context.Context, containerID, signal string) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
}

var _ API = (*client.Client)(nil)

// ListContainers returns containers known to the daemon. With all=false only
// running containers are returned, matching "docker ps"; with all=true
// stopped and created ones are included as well.
func ListContainers(ctx context.Context, api API, all bool) ([]model.ContainerInfo, error) {
	return listContainers(ctx, api, container.ListOptions{All: all})
}

// ListProjectContainers returns the containers of one compose project,
// selected server-side by the com.docker.compose.project label.
func ListProjectContainers(ctx context.Context, api API, project string, all bool) ([]model.ContainerInfo, error) {
	if project == "" {
		return nil, errors.New("project name must not be empty")
	}
	return listContainers(ctx, api, container.ListOptions{
		All:     all,
		Filters: filters.NewArgs(filters.Arg("label", ProjectFilter(project))),
	})
}

// ListByNamePrefix returns containers that have at least one name starting
// with prefix. A leading "/" in prefix is optional.
func ListByNamePrefix(ctx context.Context, api API, prefix string, all bool) ([]model.ContainerInfo, error) {
	containers, err := ListContainers(ctx, api, all)
	if err != nil {
		return nil, err
	}

	matched := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		if HasNamePrefix(c, prefix) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// FindContainer looks up a container by exact name, including stopped ones.
// Returns a CLIError with ExitContainerNotFound if nothing matches.
func FindContainer(ctx context.Context, api API, name string) (*model.ContainerInfo, error) {
	containers, err := listContainers(ctx, api, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", trimSlash(name))),
	})
	if err != nil {
		return nil, err
	}

	// The name filter is a substring match, so confirm the exact name here.
	for i := range containers {
		if MatchesName(containers[i], name) {
			return &containers[i], nil
		}
	}
	return nil, model.NewCLIError(
		model.ExitContainerNotFound,
		fmt.Sprintf("container %q not found", trimSlash(name)),
	)
}

// IsContainerRunning reports whether a running container carries the given
// name. Both "name" and the API form "/name" are accepted.
func IsContainerRunning(ctx context.Context, api API, name string) (bool, error) {
	containers, err := ListContainers(ctx, api, false)
	if err != nil {
		return false, err
	}
	for _, c := range containers {
		if MatchesName(c, name) && c.State.IsRunning() {
			return true, nil
		}
	}
	return false, nil
}

// StopByNamePrefix stops every running container whose name starts with
// prefix and returns the ones it attempted. Failures do not stop the sweep;
// they are joined into the returned error.
func StopByNamePrefix(ctx context.Context, api API, prefix string) ([]model.ContainerInfo, error) {
	if trimSlash(prefix) == "" {
		return nil, errors.New("name prefix must not be empty")
	}

	containers, err := ListByNamePrefix(ctx, api, prefix, false)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, c := range containers {
		if err := StopContainer(ctx, api, c.ContainerID); err != nil {
			errs = append(errs, err)
		}
	}
	return containers, errors.Join(errs...)
}

// StopContainer stops a container, letting Docker apply its default grace
// period before SIGKILL.
func StopContainer(ctx context.Context, api API, containerID string) error {
	if err := api.ContainerStop(ctx, containerID, container.StopOptions{}); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to stop container %q", containerID),
			err,
		)
	}
	return nil
}

// KillContainer sends SIGKILL to a container.
func KillContainer(ctx context.Context, api API, containerID string) error {
	if err := api.ContainerKill(ctx, containerID, "SIGKILL"); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to kill container %q", containerID),
			err,
		)
	}
	return nil
}

// RemoveContainer removes a container. With force, a running container is
// killed first.
func RemoveContainer(ctx context.Context, api API, containerID string, force bool) error {
	err := api.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: force})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID),
			err,
		)
	}
	return nil
}

// MatchesName reports whether any of the container's names equals name.
func MatchesName(c model.ContainerInfo, name string) bool {
	want := trimSlash(name)
	if want == "" {
		return false
	}
	if c.ContainerName == want {
		return true
	}
	for _, n := range c.Names {
		if trimSlash(n) == want {
			return true
		}
	}
	return false
}

// HasNamePrefix reports whether any of the container's names starts with prefix.
func HasNamePrefix(c model.ContainerInfo, prefix string) bool {
	p := trimSlash(prefix)
	if p == "" {
		return false
	}
	if strings.HasPrefix(c.ContainerName, p) {
		return true
	}
	for _, n := range c.Names {
		if strings.HasPrefix(trimSlash(n), p) {
			return true
		}
	}
	return false
}

func listContainers(ctx context.Context, api API, opts container.ListOptions) ([]model.ContainerInfo, error) {
	summaries, err := api.ContainerList(ctx, opts)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.ContainerInfo, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, containerToInfo(s))
	}
	return result, nil
}

// containerToInfo maps an API summary onto the domain record. The API
// prefixes names with "/"; ContainerName drops it while Names keeps the
// API form.
func containerToInfo(c container.Summary) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = trimSlash(c.Names[0])
	}

	// A state newer than the ones this package knows is kept verbatim so
	// it still shows up in output; it is never treated as running.
	state, err := model.ParseContainerState(string(c.State))
	if err != nil {
		state = model.ContainerState(c.State)
	}

	info := model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		Names:         c.Names,
		Image:         c.Image,
		State:         state,
		Status:        c.Status,
		Labels:        c.Labels,
	}

	// Service and one-off labels mean nothing without a project label, so
	// containers started outside compose get none of the compose fields.
	if labels := ParseComposeLabels(c.Labels); labels.IsCompose() {
		info.ProjectName = labels.Project
		info.ServiceName = labels.Service
		info.OneOff = labels.OneOff
	}
	return info
}

func trimSlash(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "/")
}
