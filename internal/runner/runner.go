package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes a command to completion.
type Runner interface {
	// Run starts name with args and waits for it. A non-zero exit or a spawn
	// failure is reported as *CommandError.
	Run(ctx context.Context, name string, args ...string) error
	// Output runs the command silently and returns its trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// CommandError describes a command that failed to start or exited non-zero.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int // -1 when the process never started
	Err      error
}

// CommandLine returns the command and its arguments as typed by a user.
func (e *CommandError) CommandLine() string {
	return strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s failed to start: %v", e.CommandLine(), e.Err)
	}
	return fmt.Sprintf("%s execute failed (exit status %d)", e.CommandLine(), e.ExitCode)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Exec runs commands as child processes.
type Exec struct {
	// Dir is the working directory; empty means the current process directory.
	Dir string
	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Exec bound to dir with inherited standard streams.
func New(dir string) *Exec {
	return &Exec{Dir: dir}
}

// Run executes name with args, inheriting the configured streams so
// interactive tools keep working.
func (r *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return wrap(name, args, cmd.Run())
}

// Output executes name with args and captures stdout. Stderr is discarded.
func (r *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	if err := wrap(name, args, cmd.Run()); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Available reports whether name runs successfully with args, e.g.
// Available(ctx, r, "git", "--version").
func Available(ctx context.Context, r Runner, name string, args ...string) bool {
	_, err := r.Output(ctx, name, args...)
	return err == nil
}

func wrap(name string, args []string, err error) error {
	if err == nil {
		return nil
	}
	ce := &CommandError{Command: name, Args: append([]string(nil), args...), ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.ExitCode = exitErr.ExitCode()
	}
	return ce
}
