package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkgen-dev/pkgen/internal/config"
	"github.com/pkgen-dev/pkgen/internal/generator"
	"github.com/pkgen-dev/pkgen/internal/netprobe"
	"github.com/pkgen-dev/pkgen/internal/runner"
	"github.com/pkgen-dev/pkgen/internal/ui"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the tools pkgen depends on",
	Long: `Check that yarn, git and npm are installed and that the package registry
is reachable. Only a missing or outdated yarn makes generation impossible.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := runner.New("")
		prober := netprobe.New(config.Get(config.KeyRegistryHost), r)
		if !runDoctor(cmd.Context(), cmd.OutOrStdout(), r, prober, config.Get(config.KeyRegistryHost), config.Get(config.KeyYarnURL)) {
			return &ExitError{Code: ExitFailed}
		}
		return nil
	},
}

// runDoctor prints one line per check and reports whether generation can run.
func runDoctor(ctx context.Context, w io.Writer, r runner.Runner, prober generator.Prober, registry, installURL string) bool {
	fmt.Fprintln(w, "Toolchain check:")

	ready := true
	version, err := generator.CheckToolchain(ctx, r, installURL)
	if err != nil {
		ready = false
		fmt.Fprintf(w, "  %s %v\n", ui.Tag(false), err)
	} else {
		fmt.Fprintf(w, "  %s yarn %s\n", ui.Tag(true), version)
	}

	for _, tool := range []struct{ name, missing string }{
		{"git", "repositories will not be initialized"},
		{"npm", "proxy settings from .npmrc will not be read"},
	} {
		out, err := r.Output(ctx, tool.name, "--version")
		if err != nil {
			fmt.Fprintf(w, "  %s %s not found; %s\n", ui.Tag(false), tool.name, tool.missing)
			continue
		}
		fmt.Fprintf(w, "  %s %s %s\n", ui.Tag(true), tool.name, strings.TrimPrefix(out, tool.name+" version "))
	}

	fmt.Fprintln(w, "Network check:")
	if prober != nil && prober.Online(ctx) {
		fmt.Fprintf(w, "  %s %s is reachable\n", ui.Tag(true), registry)
	} else {
		fmt.Fprintf(w, "  %s %s is unreachable; installs will use the offline cache\n", ui.Tag(false), registry)
	}

	fmt.Fprintf(w, "Config: %s\n", config.FilePath())
	fmt.Fprintf(w, "History: %s\n", config.JournalPath())
	return ready
}
