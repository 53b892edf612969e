package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkgen-dev/pkgen/internal/config"
	"github.com/pkgen-dev/pkgen/internal/journal"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent generation runs",
	Long: `Show recent generation runs, newest first, with the last state each run
reached. A failed run shows how far generation progressed before it stopped.

With a run id, show every state that run reached and when.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if len(args) == 1 {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			id = n
		}

		path := config.JournalPath()
		if path == journalOff {
			fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled.")
			return nil
		}
		j, err := journal.Open(path)
		if err != nil {
			return err
		}
		defer j.Close()

		if id != 0 {
			run, err := j.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			trs, err := j.Transitions(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRun(cmd.OutOrStdout(), run, trs)
		}

		runs, err := j.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		return printHistory(cmd.OutOrStdout(), runs)
	},
}

func printHistory(w io.Writer, runs []journal.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tFLAVOR\tSTATUS\tSTATE\tPATH")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Flavor, r.Status, r.State, r.Root)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range runs {
		if r.Error == "" && len(r.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n#%d %s\n", r.ID, r.Name)
		if r.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", r.Error)
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	}
	return nil
}

func printRun(w io.Writer, r *journal.Run, trs []journal.Transition) error {
	fmt.Fprintf(w, "#%d %s (%s)\n", r.ID, r.Name, r.Flavor)
	fmt.Fprintf(w, "  path:   %s\n", r.Root)
	fmt.Fprintf(w, "  status: %s\n", r.Status)
	if r.CommitHash != "" {
		fmt.Fprintf(w, "  commit: %s\n", r.CommitHash)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "  error:  %s\n", r.Error)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "STATE\tAT")
	for _, tr := range trs {
		fmt.Fprintf(tw, "%s\t%s\n", tr.State, tr.At.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
