package docker

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modjke/docker-compose/internal/model"
)

// fakeAPI is an in-memory API. ContainerList honours the All flag but not
// filters, which is enough to exercise the client-side matching.
type fakeAPI struct {
	containers []container.Summary
	listErr    error
	stopErr    map[string]error

	lastList container.ListOptions
	stopped  []string
	killed   []string
	removed  []string
	forced   []bool
}

func (f *fakeAPI) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.lastList = opts
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []container.Summary
	for _, c := range f.containers {
		if !opts.All && c.State != "running" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeAPI) ContainerStop(_ context.Context, id string, _ container.StopOptions) error {
	if err := f.stopErr[id]; err != nil {
		return err
	}
	f.stopped = append(f.stopped, id)
	return nil
}

func (f *fakeAPI) ContainerKill(_ context.Context, id, _ string) error {
	f.killed = append(f.killed, id)
	return nil
}

func (f *fakeAPI) ContainerRemove(_ context.Context, id string, opts container.RemoveOptions) error {
	f.removed = append(f.removed, id)
	f.forced = append(f.forced, opts.Force)
	return nil
}

// makeSummary builds an API container summary for a compose service.
func makeSummary(id, name, project, service, state string) container.Summary {
	labels := map[string]string{}
	if project != "" {
		labels[LabelProject] = project
		labels[LabelService] = service
		labels[LabelOneOff] = "False"
	}
	return container.Summary{
		ID:     id,
		Names:  []string{"/" + name},
		Image:  "debian:bookworm-slim",
		State:  state,
		Status: "Up 2 minutes",
		Labels: labels,
	}
}

func newFake() *fakeAPI {
	return &fakeAPI{
		containers: []container.Summary{
			makeSummary("aaa111", "compose_test_db", "compose_test", "db", "running"),
			makeSummary("bbb222", "compose_test_db_2", "compose_test_2", "db", "exited"),
			makeSummary("ccc333", "unrelated", "", "", "running"),
		},
		stopErr: map[string]error{},
	}
}

func TestListContainers(t *testing.T) {
	api := newFake()

	running, err := ListContainers(context.Background(), api, false)
	require.NoError(t, err)
	assert.Len(t, running, 2)
	assert.False(t, api.lastList.All)

	all, err := ListContainers(context.Background(), api, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, api.lastList.All)
}

func TestListContainers_Error(t *testing.T) {
	api := newFake()
	api.listErr = errors.New("connection refused")

	_, err := ListContainers(context.Background(), api, true)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitDockerNotRunning, cliErr.Code)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListProjectContainers_UsesLabelFilter(t *testing.T) {
	api := newFake()

	_, err := ListProjectContainers(context.Background(), api, "compose_test", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.docker.compose.project=compose_test"}, api.lastList.Filters.Get("label"))
}

func TestListProjectContainers_EmptyProject(t *testing.T) {
	_, err := ListProjectContainers(context.Background(), newFake(), "", true)
	assert.Error(t, err)
}

func TestListByNamePrefix(t *testing.T) {
	api := newFake()

	running, err := ListByNamePrefix(context.Background(), api, "/compose_test_", false)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "aaa111", running[0].ContainerID)

	all, err := ListByNamePrefix(context.Background(), api, "compose_test_", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindContainer(t *testing.T) {
	api := newFake()

	// "compose_test_db" is a prefix of "compose_test_db_2"; only the exact
	// name may match.
	info, err := FindContainer(context.Background(), api, "/compose_test_db")
	require.NoError(t, err)
	assert.Equal(t, "aaa111", info.ContainerID)
	assert.Equal(t, []string{"compose_test_db"}, api.lastList.Filters.Get("name"))

	stopped, err := FindContainer(context.Background(), api, "compose_test_db_2")
	require.NoError(t, err)
	assert.Equal(t, model.StateExited, stopped.State)
	assert.True(t, api.lastList.All, "stopped containers must be searched too")
}

func TestFindContainer_NotFound(t *testing.T) {
	_, err := FindContainer(context.Background(), newFake(), "compose_test")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitContainerNotFound, cliErr.Code)
}

func TestIsContainerRunning(t *testing.T) {
	api := newFake()

	tests := []struct {
		name string
		want bool
	}{
		{"/compose_test_db", true},
		{"compose_test_db", true},
		{"compose_test_db_2", false}, // exited
		{"compose_test", false},      // prefix only
		{"missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsContainerRunning(context.Background(), api, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStopByNamePrefix(t *testing.T) {
	api := newFake()
	api.containers = append(api.containers,
		makeSummary("ddd444", "compose_test_alpine_run", "compose_test", "alpine", "running"))

	stopped, err := StopByNamePrefix(context.Background(), api, "/compose_test_")
	require.NoError(t, err)
	assert.Len(t, stopped, 2)
	assert.ElementsMatch(t, []string{"aaa111", "ddd444"}, api.stopped)
}

func TestStopByNamePrefix_ContinuesAfterFailure(t *testing.T) {
	api := newFake()
	api.containers = append(api.containers,
		makeSummary("ddd444", "compose_test_cache", "compose_test", "cache", "running"))
	api.stopErr["aaa111"] = errors.New("permission denied")

	stopped, err := StopByNamePrefix(context.Background(), api, "compose_test_")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Len(t, stopped, 2)
	assert.Equal(t, []string{"ddd444"}, api.stopped)
}

func TestStopByNamePrefix_RejectsEmptyPrefix(t *testing.T) {
	api := newFake()

	_, err := StopByNamePrefix(context.Background(), api, "/")
	require.Error(t, err)
	assert.Empty(t, api.stopped, "an empty prefix must never stop every container")
}

func TestKillAndRemoveContainer(t *testing.T) {
	api := newFake()

	require.NoError(t, KillContainer(context.Background(), api, "aaa111"))
	require.NoError(t, RemoveContainer(context.Background(), api, "aaa111", true))

	assert.Equal(t, []string{"aaa111"}, api.killed)
	assert.Equal(t, []string{"aaa111"}, api.removed)
	assert.Equal(t, []bool{true}, api.forced)
}

func TestContainerToInfo(t *testing.T) {
	s := makeSummary("aaa111", "compose_test_db", "compose_test", "db", "Running")
	s.Names = append(s.Names, "/alias")
	s.Labels[LabelOneOff] = "True"

	info := containerToInfo(s)

	assert.Equal(t, "aaa111", info.ContainerID)
	assert.Equal(t, "compose_test_db", info.ContainerName)
	assert.Equal(t, []string{"/compose_test_db", "/alias"}, info.Names)
	assert.Equal(t, "compose_test", info.ProjectName)
	assert.Equal(t, "db", info.ServiceName)
	assert.True(t, info.OneOff)
	assert.Equal(t, model.StateRunning, info.State)
	assert.Equal(t, "Up 2 minutes", info.Status)
}

func TestContainerToInfo_NoNames(t *testing.T) {
	info := containerToInfo(container.Summary{ID: "x", State: "created"})
	assert.Empty(t, info.ContainerName)
	assert.Empty(t, info.ProjectName)
	assert.Equal(t, model.StateCreated, info.State)
}

func TestContainerToInfo_UnknownState(t *testing.T) {
	info := containerToInfo(container.Summary{ID: "x", State: "hibernating"})
	assert.Equal(t, model.ContainerState("hibernating"), info.State)
	assert.False(t, info.State.IsRunning())
}

func TestContainerToInfo_ServiceLabelWithoutProject(t *testing.T) {
	s := makeSummary("ccc333", "stray", "", "", "running")
	s.Labels[LabelService] = "db"
	s.Labels[LabelOneOff] = "True"

	info := containerToInfo(s)
	assert.Empty(t, info.ServiceName)
	assert.False(t, info.OneOff)
}

func TestMatchesName(t *testing.T) {
	c := model.ContainerInfo{ContainerName: "web", Names: []string{"/web", "/web-alias"}}

	assert.True(t, MatchesName(c, "web"))
	assert.True(t, MatchesName(c, "/web-alias"))
	assert.False(t, MatchesName(c, "we"))
	assert.False(t, MatchesName(c, ""))
	assert.False(t, MatchesName(c, "/"))
}

func TestHasNamePrefix(t *testing.T) {
	c := model.ContainerInfo{ContainerName: "compose_test_db", Names: []string{"/compose_test_db"}}

	assert.True(t, HasNamePrefix(c, "compose_test_"))
	assert.True(t, HasNamePrefix(c, "/compose_"))
	assert.False(t, HasNamePrefix(c, "other"))
	assert.False(t, HasNamePrefix(c, ""))
}
