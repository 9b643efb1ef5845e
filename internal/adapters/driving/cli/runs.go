package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show clone run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent clone runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the page outcomes of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "maximum number of runs")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := runService.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tSOURCE\tTARGET")
	for i := range runs {
		r := &runs[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s/%s\n",
			r.ID, formatTime(r.StartedAt), r.Status, r.SourceSpace, r.TargetSpace, r.TargetParentID)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	run, err := runService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		return fmt.Errorf("failed to get run: %w", err)
	}

	cmd.Printf("Run %s (%s)\n", run.ID, run.Status)
	cmd.Printf("  Source:   %s\n", run.SourceSpace)
	cmd.Printf("  Target:   %s under %s\n", run.TargetSpace, run.TargetParentID)
	if run.Pattern != "" {
		cmd.Printf("  Rewrite:  %s -> %s\n", run.Pattern, run.Replacement)
	}
	cmd.Printf("  Started:  %s\n", formatTime(run.StartedAt))
	cmd.Printf("  Finished: %s\n", formatTime(run.FinishedAt))
	if run.Err != "" {
		cmd.Printf("  Error:    %s\n", run.Err)
	}
	cmd.Printf("  Pages:    %d created, %d failed\n\n", run.Created(), run.Failed())

	for _, o := range run.Pages {
		printOutcome(cmd, o)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
