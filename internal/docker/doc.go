// Package docker queries the Docker Engine API to observe the containers a
// compose project produced.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Container listing and matching by exact name, name prefix, or
//     compose project label
//   - Stop, kill and remove by container ID, including the prefix sweep
//     used to clean up after test runs
//   - Decoding the com.docker.compose.* labels compose writes
//
// It never starts containers; that is the compose tool's job. Queries take
// an API value instead of reaching for a shared client.
package docker
