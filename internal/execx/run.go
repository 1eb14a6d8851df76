// Package execx runs external tools for tasks, streaming their output.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/google/shlex"

	"github.com/dotandev/tooling/internal/logger"
)

// ErrEmptyCommand is returned when there is nothing to run.
var ErrEmptyCommand = errors.New("empty command")

// ExitError reports a child process that exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Options tunes Run.
type Options struct {
	// NoThrow returns the exit code instead of an *ExitError.
	NoThrow bool
	// Stdout receives the child's standard output; os.Stdout when nil.
	Stdout io.Writer
	// Stderr receives the child's standard error; os.Stderr when nil.
	Stderr io.Writer
	// InheritEnv adds the parent environment beneath env.
	InheritEnv bool
}

// Split turns a command line into argv, honoring shell quoting.
func Split(cmdLine string) ([]string, error) {
	argv, err := shlex.Split(cmdLine)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", cmdLine, err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// Join renders argv as a command line Split would parse back.
func Join(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\n'\"\\$`") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}

// Run executes argv with env and waits for it to exit. Output is streamed as
// it is produced. A zero exit returns (0, nil). A non-zero exit returns an
// *ExitError, or the code with a nil error when opts.NoThrow is set.
func Run(ctx context.Context, argv []string, env map[string]string, opts Options) (int, error) {
	if len(argv) == 0 {
		return 0, ErrEmptyCommand
	}
	cmdLine := strings.Join(argv, " ")
	logger.Logger.Debug("Executing command", "cmd", cmdLine)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = buildEnv(env, opts.InheritEnv)
	cmd.Stdin = os.Stdin
	cmd.Stdout = orDefault(opts.Stdout, os.Stdout)
	cmd.Stderr = orDefault(opts.Stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	// a killed child reports an exit status, not the context error
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 1, fmt.Errorf("%s: %w", argv[0], ctxErr)
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return 1, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	code := ee.ExitCode()
	if code <= 0 {
		// killed by a signal
		code = 1
	}
	if opts.NoThrow {
		return code, nil
	}
	return code, &ExitError{Command: argv[0], Code: code}
}

// RunLine splits cmdLine and runs it.
func RunLine(ctx context.Context, cmdLine string, env map[string]string, opts Options) (int, error) {
	argv, err := Split(cmdLine)
	if err != nil {
		return 1, err
	}
	return Run(ctx, argv, env, opts)
}

// Capture runs argv with the parent environment and returns its trimmed
// standard output.
func Capture(ctx context.Context, argv ...string) (string, error) {
	var out bytes.Buffer
	if _, err := Run(ctx, argv, nil, Options{Stdout: &out, Stderr: io.Discard, InheritEnv: true}); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func buildEnv(env map[string]string, inherit bool) []string {
	var out []string
	if inherit {
		out = os.Environ()
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

func orDefault(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
