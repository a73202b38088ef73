// Package cli: output_test.go contains unit tests for the error mapping and
// output formatting helpers. None of them need a Docker daemon.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modjke/docker-compose/compose"
	"github.com/modjke/docker-compose/internal/composefile"
	"github.com/modjke/docker-compose/internal/model"
)

// withJSON enables --json for the duration of a test.
func withJSON(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}

func TestToCLIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ExitCode
	}{
		{
			name: "CLIError keeps its code",
			err:  model.NewCLIError(model.ExitContainerNotFound, "missing"),
			want: model.ExitContainerNotFound,
		},
		{
			name: "wrapped CLIError",
			err:  fmt.Errorf("ps: %w", model.NewCLIError(model.ExitDockerNotRunning, "down")),
			want: model.ExitDockerNotRunning,
		},
		{
			name: "invalid options",
			err:  &compose.OptionsError{Field: "cwd", Reason: "required"},
			want: model.ExitInvalidOptions,
		},
		{
			name: "spawn failure",
			err:  &compose.SpawnError{Binary: "docker", Err: exec.ErrNotFound},
			want: model.ExitSpawnFailure,
		},
		{
			name: "non-zero exit",
			err:  &compose.ExitError{Verb: compose.VerbUp, Result: compose.Result{ExitCode: 1, Err: "no such image"}},
			want: model.ExitComposeFailed,
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: model.ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toCLIError(tt.err)
			assert.Equal(t, tt.want, got.Code)
		})
	}
}

func TestToCLIError_ExitMessage(t *testing.T) {
	got := toCLIError(&compose.ExitError{Verb: compose.VerbDown, Result: compose.Result{ExitCode: 1}})
	assert.Equal(t, "compose down failed", got.Message)
	assert.True(t, errors.Is(got, compose.ErrNonZeroExit))
}

func TestCommandExitError(t *testing.T) {
	tests := []struct {
		code int
		want model.ExitCode
	}{
		{code: 1, want: 1},
		{code: 42, want: 42},
		{code: -1, want: model.ExitComposeFailed},
		{code: 300, want: model.ExitComposeFailed},
	}
	for _, tt := range tests {
		err := commandExitError(compose.VerbExec, "db", compose.Result{ExitCode: tt.code})
		assert.Equal(t, tt.want, err.Code, "exit code %d", tt.code)
		assert.Contains(t, err.Message, `service "db"`)
	}
}

func TestPrintError_Text(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, "compose up failed", errors.New("exit status 1"))
	assert.Equal(t, "Error: compose up failed: exit status 1\n", buf.String())

	buf.Reset()
	printError(&buf, "prefix must not be empty", nil)
	assert.Equal(t, "Error: prefix must not be empty\n", buf.String())
}

func TestPrintError_JSON(t *testing.T) {
	withJSON(t)

	var buf bytes.Buffer
	printError(&buf, "compose up failed", errors.New("exit status 1"))

	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "compose up failed", got["error"]["message"])
	assert.Equal(t, "exit status 1", got["error"]["detail"])
}

func TestFormatService(t *testing.T) {
	assert.Equal(t, "db", FormatService(model.ContainerInfo{ServiceName: "db"}))
	assert.Equal(t, "alpine (run)", FormatService(model.ContainerInfo{ServiceName: "alpine", OneOff: true}))
	assert.Equal(t, "-", FormatService(model.ContainerInfo{}))
}

func sampleContainers() []model.ContainerInfo {
	return []model.ContainerInfo{
		{ContainerID: "bbbbbbbbbbbbbbbb", ContainerName: "compose_test-alpine-run-1", ServiceName: "alpine", OneOff: true, State: model.StateRunning, Status: "Up 1 second"},
		{ContainerID: "aaaaaaaaaaaaaaaa", ContainerName: "compose_test_db", ServiceName: "db", State: model.StateExited, Status: "Exited (137)"},
	}
}

func TestSortContainers(t *testing.T) {
	cs := []model.ContainerInfo{
		{ContainerName: "b", ServiceName: "web"},
		{ContainerName: "z", ServiceName: "db"},
		{ContainerName: "a", ServiceName: "web"},
	}
	sortContainers(cs)
	assert.Equal(t, "z", cs[0].ContainerName)
	assert.Equal(t, "a", cs[1].ContainerName)
	assert.Equal(t, "b", cs[2].ContainerName)
}

func TestPrintContainers_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printContainers(&buf, "compose_test", sampleContainers()))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "alpine (run)")
	assert.Contains(t, out, "aaaaaaaaaaaa ")
	assert.NotContains(t, out, "aaaaaaaaaaaaa")
	assert.Contains(t, out, "Exited (137)")

	buf.Reset()
	require.NoError(t, printContainers(&buf, "compose_test", nil))
	assert.Equal(t, "No containers found for project \"compose_test\".\n", buf.String())
}

func TestPrintContainers_JSON(t *testing.T) {
	withJSON(t)

	var buf bytes.Buffer
	require.NoError(t, printContainers(&buf, "compose_test", nil))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "compose_test", got["project"])
	assert.Equal(t, []interface{}{}, got["containers"])

	buf.Reset()
	require.NoError(t, printContainers(&buf, "compose_test", sampleContainers()))
	var full psJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &full))
	require.Len(t, full.Containers, 2)
	assert.Equal(t, model.StateExited, full.Containers[1].State)
}

func TestPrintServices(t *testing.T) {
	p := &composefile.Project{
		Name:  "compose_test",
		Files: []string{"/app/docker-compose.yml"},
		Services: map[string]composefile.Service{
			"db":     {Name: "db", ContainerName: "compose_test_db", Image: "debian:bookworm-slim"},
			"alpine": {Name: "alpine"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printServices(&buf, p))
	assert.Contains(t, buf.String(), "Project: compose_test\n")
	assert.Regexp(t, `alpine\s+compose_test-alpine-1\s+-`, buf.String())
	assert.Regexp(t, `db\s+compose_test_db\s+debian:bookworm-slim`, buf.String())

	withJSON(t)
	buf.Reset()
	require.NoError(t, printServices(&buf, p))

	var got servicesJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "compose_test", got.Project)
	require.Len(t, got.Services, 2)
	assert.Equal(t, "alpine", got.Services[0].Name)
	assert.Equal(t, "compose_test_db", got.Services[1].ContainerName)
}

func TestPrintServiceResult(t *testing.T) {
	var stdout, stderr bytes.Buffer
	res := serviceResult{Service: "db", Command: "false", Out: "partial\n", Err: "boom\n", ExitCode: 1}

	require.NoError(t, printServiceResult(&stdout, &stderr, res))
	assert.Equal(t, "partial\n", stdout.String())
	assert.Equal(t, "boom\n", stderr.String())

	withJSON(t)
	stdout.Reset()
	stderr.Reset()
	require.NoError(t, printServiceResult(&stdout, &stderr, res))
	assert.Empty(t, stderr.String())

	var got serviceResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, res, got)
}

func TestPrintLifecycleResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printLifecycleResult(&buf, lifecycleResult{Project: "compose_test", Action: "stopped"}))
	assert.Equal(t, "Compose project \"compose_test\" stopped\n", buf.String())
}
