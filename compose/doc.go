// Package compose drives the Docker Compose command-line tool.
//
// Each verb (up, down, stop, kill, run, exec) is a single blocking call that
// builds an argument vector from Options, spawns exactly one compose process
// in the project directory, and returns the captured output as a Result.
//
// Usage:
//
//	opts := compose.Options{Cwd: "/srv/app", Config: compose.ConfigFiles{"docker-compose.yml"}}
//	if _, err := compose.Up(ctx, opts); err != nil { /* handle */ }
//	res, err := compose.Exec(ctx, "db", "cat /etc/os-release", opts)
//
// Failures fall into three classes that can be told apart with errors.Is:
// ErrInvalidOptions (rejected before spawning), ErrSpawnFailure (the binary
// could not be started) and ErrNonZeroExit (the tool ran and failed).
// Nothing is retried, and overlapping calls against the same project are not
// serialized here; the compose tool itself owns that coordination.
package compose
