package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"knapsack/internal/knapsack"
)

func newRunsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored run results, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := a.store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.out, "no runs stored")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tALGO\tDATASET\tSEED\tFITNESS\tVALUE\tSIZE\tFOUND AT\tDURATION")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%d\t%d/%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Algorithm, r.Dataset, r.Seed,
					r.Fitness, r.Value, r.Size, r.Capacity, r.FoundAt, r.Duration.Round(time.Millisecond))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list; 0 lists all")
	cmd.AddCommand(newRunsShowCmd(a))
	return cmd
}

func newRunsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored run with its selected items and configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok, err := a.store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("run %s not found", args[0])
			}
			bits, err := knapsack.ParseCandidate(run.Solution)
			if err != nil {
				return fmt.Errorf("run %s: %w", run.ID, err)
			}
			var picked []string
			for i, on := range bits {
				if on {
					picked = append(picked, fmt.Sprint(i))
				}
			}

			fmt.Fprintf(a.out, "run %s (%s on %s, seed %d)\n", run.ID, run.Algorithm, run.Dataset, run.Seed)
			fmt.Fprintf(a.out, "  created:  %s\n", run.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(a.out, "  fitness:  %.2f (value %d, size %d/%d, feasible %t)\n",
				run.Fitness, run.Value, run.Size, run.Capacity, run.Feasible)
			fmt.Fprintf(a.out, "  found at: %d after %d evaluations in %s\n", run.FoundAt, run.Evaluations, run.Duration)
			fmt.Fprintf(a.out, "  items:    %d of %d [%s]\n", len(picked), len(bits), strings.Join(picked, " "))
			if run.Config != "" {
				fmt.Fprintf(a.out, "  config:\n%s", indent(run.Config, "    "))
			}
			return nil
		},
	}
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}
