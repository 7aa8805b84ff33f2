// Package shell executes scheduler command lines and captures their output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ppqm/hpc-funcs/internal/utils"
)

// ErrCommandNotFound indicates the requested executable is not on PATH.
var ErrCommandNotFound = errors.New("command not found")

// CommandError reports a command that exited with a non-zero status
// while strict checking was requested.
type CommandError struct {
	Command  string // Command line that was executed
	ExitCode int    // Process exit code
	Stdout   string // Captured standard output
	Stderr   string // Captured standard error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with status %d: %s",
		e.Command, e.ExitCode, firstLine(e.Stderr))
}

// Is allows errors.Is to match CommandError.
func (e *CommandError) Is(target error) bool {
	_, ok := target.(*CommandError)
	return ok
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Options controls how a command is executed.
type Options struct {
	// Dir is the working directory. Empty, "." and "./" run in the
	// current directory; anything else must exist.
	Dir string

	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration

	// Check makes a non-zero exit status an error. When false the
	// Result is returned with the exit code and a nil error.
	Check bool
}

// Which resolves an executable name via PATH.
// Returns ErrCommandNotFound when the lookup fails.
func Which(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}
	return path, nil
}

// Run executes a shell command line and returns its captured output.
//
// The command is passed to `sh -c` so that the caller can assemble
// scheduler command strings with flags and filters directly.
func Run(ctx context.Context, command string, opts *Options) (Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	dir, err := resolveWorkdir(opts.Dir)
	if err != nil {
		return Result{}, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	utils.PrintDebug("Executing: %s", utils.StyleCommand(command))

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		// A timed-out or cancelled command is a transport failure, not
		// an exit status: it must surface as an error even on tolerant
		// invocations, or a hung scheduler query would read as empty
		// output downstream.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("command %q: %w", command, ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return res, fmt.Errorf("failed to run %q: %w", command, runErr)
		}
		res.ExitCode = exitErr.ExitCode()
		if opts.Check {
			utils.PrintDebug("Command failed with status %d", res.ExitCode)
			return res, &CommandError{
				Command:  command,
				ExitCode: res.ExitCode,
				Stdout:   res.Stdout,
				Stderr:   res.Stderr,
			}
		}
	}

	return res, nil
}

// RunWithRetry executes a command, re-running it up to maxRetries times
// with a fixed delay after a failed attempt. Scheduler frontends fail
// transiently under load, so callers polling them opt into this variant.
//
// What counts as a failure follows the caller's Options: an unchecked
// invocation tolerates non-zero exits (tolerant queries rely on that)
// and only retries launch errors.
func RunWithRetry(ctx context.Context, command string, opts *Options, maxRetries int, delay time.Duration) (Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		res, err := Run(ctx, command, opts)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if errors.Is(err, ErrCommandNotFound) || ctx.Err() != nil {
			return res, err
		}
		if attempt >= maxRetries {
			utils.PrintError("Max retries reached for command %s", utils.StyleCommand(command))
			return res, lastErr
		}

		utils.PrintWarning("Command %s failed, retrying in %s", utils.StyleCommand(command), delay)
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// resolveWorkdir validates the requested working directory.
// Empty and current-directory spellings collapse to "" (inherit cwd).
func resolveWorkdir(dir string) (string, error) {
	switch dir {
	case "", ".", "./":
		return "", nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("cannot change directory, does not exist: %s", dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}
	return dir, nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
