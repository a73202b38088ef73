package compose

import "context"

// DefaultRunner backs the package-level functions. It invokes the
// "docker compose" plugin and logs through the logrus standard logger.
var DefaultRunner = NewRunner()

// Up creates and starts the project's containers in the background.
func Up(ctx context.Context, opts Options) (Result, error) {
	return DefaultRunner.Up(ctx, opts)
}

// Down stops and removes the project's containers and networks.
func Down(ctx context.Context, opts Options) (Result, error) {
	return DefaultRunner.Down(ctx, opts)
}

// Stop stops the project's running containers, keeping them on disk.
func Stop(ctx context.Context, opts Options) (Result, error) {
	return DefaultRunner.Stop(ctx, opts)
}

// Kill sends SIGKILL to the project's running containers.
func Kill(ctx context.Context, opts Options) (Result, error) {
	return DefaultRunner.Kill(ctx, opts)
}

// Run executes command in a fresh one-off container of service.
func Run(ctx context.Context, service, command string, opts Options) (Result, error) {
	return DefaultRunner.Run(ctx, service, command, opts)
}

// Exec executes command in the running container of service.
func Exec(ctx context.Context, service, command string, opts Options) (Result, error) {
	return DefaultRunner.Exec(ctx, service, command, opts)
}
