package compose

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// waitDelay is how long Execute waits for the output pipes to close after
// the process was killed on cancellation. Once it passes the pipes are
// closed forcibly and whatever output arrived so far is returned.
const waitDelay = 5 * time.Second

// Result is the outcome of one compose invocation.
type Result struct {
	// Out is everything the tool wrote to stdout. For run and exec this is
	// the output of the command inside the container.
	Out string `json:"out"`

	// Err holds the tool's stderr when the process failed and is empty on
	// success. Progress chatter written to stderr by a successful call is
	// only visible through log forwarding.
	Err string `json:"err"`

	// ExitCode is the process exit status. -1 means the process was killed
	// by a signal (for example on context cancellation).
	ExitCode int `json:"exitCode"`
}

// Runner spawns the compose tool. The zero value is not usable; build one
// with NewRunner or NewLegacyRunner. A Runner holds no per-call state and is
// safe for concurrent use.
type Runner struct {
	// Binary is the executable name or path, e.g. "docker".
	Binary string

	// BaseArgs precede the built arguments, e.g. {"compose"} for the plugin
	// form "docker compose".
	BaseArgs []string

	// Logger receives invocation traces and, when Options.Log is set, the
	// tool's output line by line.
	Logger *logrus.Entry
}

// NewRunner returns a runner for the plugin form "docker compose".
func NewRunner() *Runner {
	return &Runner{
		Binary:   "docker",
		BaseArgs: []string{"compose"},
		Logger:   logrus.NewEntry(logrus.StandardLogger()),
	}
}

// NewLegacyRunner returns a runner for the standalone "docker-compose" binary.
func NewLegacyRunner() *Runner {
	return &Runner{
		Binary: "docker-compose",
		Logger: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// NewRunnerForBinary picks the runner matching a binary setting. "" and
// "docker" give the plugin form, "docker-compose" the legacy binary, and any
// other value is used as a standalone compose executable.
func NewRunnerForBinary(binary string) *Runner {
	switch binary {
	case "", "docker":
		return NewRunner()
	case "docker-compose":
		return NewLegacyRunner()
	default:
		r := NewLegacyRunner()
		r.Binary = binary
		return r
	}
}

// CommandLine returns the full command (binary first) that Execute would
// spawn for the given call, or the validation error.
func (r *Runner) CommandLine(verb Verb, opts Options, service, command string) ([]string, error) {
	args, err := BuildArgs(verb, opts, service, command)
	if err != nil {
		return nil, err
	}
	full := make([]string, 0, 1+len(r.BaseArgs)+len(args))
	full = append(full, r.Binary)
	full = append(full, r.BaseArgs...)
	full = append(full, args...)
	return full, nil
}

// Execute runs one verb and waits for the process to exit.
//
// Options are validated first; an invalid call returns an error wrapping
// ErrInvalidOptions and spawns nothing. A binary that cannot be started
// yields a *SpawnError. A non-zero exit yields the Result together with an
// *ExitError whose Result.Err holds stderr.
func (r *Runner) Execute(ctx context.Context, verb Verb, opts Options, service, command string) (Result, error) {
	cmdline, err := r.CommandLine(verb, opts, service, command)
	if err != nil {
		return Result{}, err
	}

	logger := r.logger().WithFields(logrus.Fields{
		"verb": verb.String(),
		"cwd":  opts.Cwd,
	})
	logger.WithField("args", cmdline[1:]).Debug("running compose")

	// #nosec G204 -- arguments come from BuildArgs, not a shell.
	cmd := exec.CommandContext(ctx, cmdline[0], cmdline[1:]...)
	cmd.Dir = opts.Cwd

	// os.Environ() first, Options.Env after it: exec takes the last
	// occurrence of a duplicated key, so the caller's values win.
	cmd.Env = mergeEnv(os.Environ(), opts.Env)

	// "docker compose" runs the compose plugin as a child of docker, and
	// that child holds our stdout/stderr pipes too. Killing only the direct
	// child on cancellation would leave Wait blocked until the plugin exits
	// on its own, so the whole process group is killed instead (on
	// platforms that have one). WaitDelay bounds the wait for anything that
	// escaped the group and still holds the pipes.
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var forwarders []*lineWriter
	if opts.Log {
		outFwd := newLineWriter(logger.WithField("stream", "stdout"), logrus.InfoLevel)
		errFwd := newLineWriter(logger.WithField("stream", "stderr"), logrus.WarnLevel)
		forwarders = append(forwarders, outFwd, errFwd)
		cmd.Stdout = io.MultiWriter(&stdout, outFwd)
		cmd.Stderr = io.MultiWriter(&stderr, errFwd)
	}

	runErr := cmd.Run()

	// Run returns only after the copy goroutines have written everything to
	// the forwarders, so flushing here cannot race with a pending Write. A
	// last line without a trailing newline (common for error messages) would
	// otherwise never reach the log.
	for _, f := range forwarders {
		f.Flush()
	}

	res := Result{Out: stdout.String()}

	// ErrWaitDelay alone means the process exited successfully but something
	// it started kept the output pipes open past waitDelay.
	if errors.Is(runErr, exec.ErrWaitDelay) {
		logger.Debug("compose exited but its output pipes stayed open")
		runErr = nil
	}
	if runErr == nil {
		logger.Debug("compose finished")
		return res, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		// The process never ran: binary missing, not executable, or a bad Dir.
		if ctxErr := ctx.Err(); ctxErr != nil && cmd.Process == nil {
			return Result{}, ctxErr
		}
		logger.WithError(runErr).Debug("compose could not be started")
		return Result{}, &SpawnError{Binary: cmdline[0], Err: runErr}
	}

	res.Err = stderr.String()
	res.ExitCode = exitErr.ExitCode()
	logger.WithField("exit_code", res.ExitCode).Debug("compose failed")
	return res, &ExitError{Verb: verb, Result: res}
}

// Up runs "up -d".
func (r *Runner) Up(ctx context.Context, opts Options) (Result, error) {
	return r.Execute(ctx, VerbUp, opts, "", "")
}

// Down runs "down", adding -v when opts.RemoveVolumes is set.
func (r *Runner) Down(ctx context.Context, opts Options) (Result, error) {
	return r.Execute(ctx, VerbDown, opts, "", "")
}

// Stop runs "stop".
func (r *Runner) Stop(ctx context.Context, opts Options) (Result, error) {
	return r.Execute(ctx, VerbStop, opts, "", "")
}

// Kill runs "kill".
func (r *Runner) Kill(ctx context.Context, opts Options) (Result, error) {
	return r.Execute(ctx, VerbKill, opts, "", "")
}

// Run starts a one-off container for service, runs command in it and
// removes the container afterwards.
func (r *Runner) Run(ctx context.Context, service, command string, opts Options) (Result, error) {
	return r.Execute(ctx, VerbRun, opts, service, command)
}

// Exec runs command inside the running container of service.
func (r *Runner) Exec(ctx context.Context, service, command string, opts Options) (Result, error) {
	return r.Execute(ctx, VerbExec, opts, service, command)
}

func (r *Runner) logger() *logrus.Entry {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// mergeEnv appends extra variables to base in sorted key order. Later
// entries win when the process environment is read, so extra overrides base.
//
// base is not deduplicated; os/exec keeps only the last value of a repeated
// key on every platform.
func mergeEnv(base []string, extra map[string]string) []string {
	env := make([]string, 0, len(base)+len(extra))
	env = append(env, base...)

	// Map iteration order is random; sorting keeps the environment, and so
	// the debug output of a failing test, identical from run to run.
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// lineWriter logs each complete line written to it. Partial lines are held
// until the next newline or Flush.
type lineWriter struct {
	entry *logrus.Entry
	level logrus.Level
	buf   bytes.Buffer
}

func newLineWriter(entry *logrus.Entry, level logrus.Level) *lineWriter {
	return &lineWriter{entry: entry, level: level}
}

// Write buffers p and logs every complete line in it. The pipe copy hands
// over arbitrary chunks, so a line can arrive split across several calls.
func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// No newline yet: put the fragment back for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			return len(p), nil
		}
		w.emit(line)
	}
}

// Flush logs any trailing fragment that did not end in a newline.
func (w *lineWriter) Flush() {
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

// emit logs one line. Carriage returns are stripped too, since compose
// draws its progress output with "\r" even when not attached to a TTY.
func (w *lineWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	w.entry.Log(w.level, line)
}
