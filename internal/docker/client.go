package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/modjke/docker-compose/internal/model"
)

// defaultPingTimeout bounds a Ping so an unresponsive daemon (for example a
// paused Docker Desktop VM) fails fast instead of hanging the caller.
const defaultPingTimeout = 5 * time.Second

// windowsPipe is the named pipe Docker Desktop listens on.
const windowsPipe = `//./pipe/docker_engine`

// Client wraps the Docker Engine SDK client. It is the handle callers pass
// around explicitly; nothing in this package keeps a shared instance.
//
// Usage:
//
//	c, err := docker.NewClient()
//	if err != nil { /* handle */ }
//	defer c.Close()
//	running, err := docker.IsContainerRunning(ctx, c.Inner(), "compose_test_db")
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client. DOCKER_HOST wins when set; otherwise
// the platform's usual socket locations are probed:
//   - Linux: /var/run/docker.sock
//   - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//   - Windows: the docker_engine named pipe
//
// Returns a model.CLIError with ExitDockerNotRunning when no endpoint is
// found or the client cannot be created.
func NewClient() (*Client, error) {
	// DOCKER_HOST is the standard override (remote daemons, rootless
	// Docker, Colima, Podman's compat socket). Honour it before guessing.
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return newClientWithHost(host)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker socket not found",
			err,
		)
	}

	return newClientWithHost(host)
}

// newClientWithHost creates a client for a Docker connection string such as
// "unix:///var/run/docker.sock". API version negotiation keeps the client
// usable against older daemons.
func newClientWithHost(host string) (*Client, error) {
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}

	return &Client{inner: c}, nil
}

// detectDockerHost returns the connection string for the first Docker
// endpoint that exists on this machine.
func detectDockerHost() (string, error) {
	if runtime.GOOS == "windows" {
		// Named pipes live outside the regular filesystem, so os.Stat
		// cannot tell whether Docker Desktop is listening. Opening a
		// connection is the only reliable probe. The connection is closed
		// straight away; the SDK client dials its own.
		conn, err := net.DialTimeout("pipe", windowsPipe, 1*time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", windowsPipe, err)
		}
		_ = conn.Close()
		return "npipe://" + windowsPipe, nil
	}

	// A missing home directory only drops the per-user candidate on macOS;
	// the system socket is still worth trying.
	home, _ := os.UserHomeDir()
	paths, err := socketCandidates(runtime.GOOS, home)
	if err != nil {
		return "", err
	}
	return detectUnixSocket(paths)
}

// socketCandidates lists Unix socket paths to probe, most preferred first.
func socketCandidates(goos, home string) ([]string, error) {
	switch goos {
	case "linux":
		return []string{"/var/run/docker.sock"}, nil
	case "darwin":
		paths := []string{"/var/run/docker.sock"}
		if home != "" {
			// Newer Docker Desktop releases may skip the /var/run symlink.
			paths = append(paths, filepath.Join(home, ".docker", "run", "docker.sock"))
		}
		return paths, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// detectUnixSocket returns a unix:// host for the first path that exists.
// Existence does not prove the daemon is listening; Ping checks that.
func detectUnixSocket(paths []string) (string, error) {
	// Order matters: the first existing path wins, so callers list the
	// system-wide socket before per-user ones.
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of: %v (is Docker running?)", paths)
}

// Ping verifies that the Docker daemon answers within defaultPingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	// The timeout is derived from ctx so a caller's earlier deadline still
	// wins. cancel releases the timer as soon as Ping returns instead of
	// holding it until the timeout fires.
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker daemon is not responding (is Docker running?)",
			err,
		)
	}
	return nil
}

// Close releases the client's connections. Safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the SDK client. It satisfies API, which is what the query
// functions in this package accept.
func (c *Client) Inner() *client.Client {
	return c.inner
}
