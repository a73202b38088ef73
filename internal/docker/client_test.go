package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketCandidates(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		home     string
		expected []string
		hasError bool
	}{
		{name: "linux", goos: "linux", home: "/home/dev", expected: []string{"/var/run/docker.sock"}},
		{
			name:     "darwin with home",
			goos:     "darwin",
			home:     "/Users/dev",
			expected: []string{"/var/run/docker.sock", filepath.Join("/Users/dev", ".docker", "run", "docker.sock")},
		},
		{name: "darwin without home", goos: "darwin", expected: []string{"/var/run/docker.sock"}},
		{name: "unsupported", goos: "plan9", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := socketCandidates(tt.goos, tt.home)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetectUnixSocket(t *testing.T) {
	dir := t.TempDir()

	// detectUnixSocket only checks existence, so a plain file stands in for
	// the socket.
	sock := filepath.Join(dir, "docker.sock")
	require.NoError(t, os.WriteFile(sock, nil, 0o600))

	host, err := detectUnixSocket([]string{filepath.Join(dir, "missing.sock"), sock})
	require.NoError(t, err)
	assert.Equal(t, "unix://"+sock, host)
}

func TestDetectUnixSocket_NoneFound(t *testing.T) {
	dir := t.TempDir()

	_, err := detectUnixSocket([]string{filepath.Join(dir, "a.sock"), filepath.Join(dir, "b.sock")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Docker socket not found")
}

func TestNewClient_DockerHost(t *testing.T) {
	t.Setenv("DOCKER_HOST", "tcp://127.0.0.1:2375")

	c, err := NewClient()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.NotNil(t, c.Inner())
}

func TestClient_CloseNil(t *testing.T) {
	var c Client
	assert.NoError(t, c.Close())
}
