package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pkgen-dev/pkgen/internal/branding"
	"github.com/pkgen-dev/pkgen/internal/config"
	"github.com/pkgen-dev/pkgen/internal/ui"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitMissingInput = 1
	ExitFailed       = 2
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// ExitError carries a process exit code. Its message has already been shown
// to the user when Err is nil.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [project-directory]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a new TypeScript package: package.json, sources, lint and
compiler configuration. It initializes git, installs dependencies with yarn
and records the initial commit.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
	RunE: runCreate,
}

func init() {
	addCreateFlags(rootCmd)
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code. SIGINT cancels running subprocesses.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return exitCode(rootCmd.ExecuteContext(ctx), os.Stderr)
}

// exitCode maps a command error to a process exit code, printing errors that
// have not been shown yet.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			ui.New(stderr, stderr).Error(ee.Err.Error())
		}
		return ee.Code
	}
	ui.New(stderr, stderr).Error(err.Error())
	return ExitMissingInput
}
