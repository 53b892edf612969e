// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pkgen-dev/pkgen/internal/runner"
)

// Fake records every invocation and answers from scripted tables keyed by the
// full command line, e.g. "yarn --version".
type Fake struct {
	mu sync.Mutex
	// Outputs holds stdout returned by Output.
	Outputs map[string]string
	// Fail lists command lines that exit with status 1.
	Fail map[string]bool
	// Missing lists executables that cannot be started.
	Missing map[string]bool
	// OnRun, when set, is called for every Run before the scripted result.
	OnRun func(line string)

	calls []string
}

// New returns an empty Fake on which every command succeeds.
func New() *Fake {
	return &Fake{
		Outputs: map[string]string{},
		Fail:    map[string]bool{},
		Missing: map[string]bool{},
	}
}

// Run implements runner.Runner.
func (f *Fake) Run(ctx context.Context, name string, args ...string) error {
	line := f.record(name, args)
	if f.OnRun != nil {
		f.OnRun(line)
	}
	return f.result(ctx, line, name, args)
}

// Output implements runner.Runner.
func (f *Fake) Output(ctx context.Context, name string, args ...string) (string, error) {
	line := f.record(name, args)
	if err := f.result(ctx, line, name, args); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Outputs[line], nil
}

// Calls returns the recorded command lines in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Called reports whether line was invoked.
func (f *Fake) Called(line string) bool {
	for _, c := range f.Calls() {
		if c == line {
			return true
		}
	}
	return false
}

// CalledWithPrefix returns the first recorded line starting with prefix.
func (f *Fake) CalledWithPrefix(prefix string) (string, bool) {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return c, true
		}
	}
	return "", false
}

func (f *Fake) record(name string, args []string) string {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.mu.Lock()
	f.calls = append(f.calls, line)
	f.mu.Unlock()
	return line
}

func (f *Fake) result(ctx context.Context, line, name string, args []string) error {
	if err := ctx.Err(); err != nil {
		return &runner.CommandError{Command: name, Args: args, ExitCode: -1, Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Missing[name] {
		return &runner.CommandError{Command: name, Args: args, ExitCode: -1, Err: errors.New("executable file not found in $PATH")}
	}
	if f.Fail[line] {
		return &runner.CommandError{Command: name, Args: args, ExitCode: 1, Err: errors.New("exit status 1")}
	}
	return nil
}
