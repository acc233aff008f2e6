package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"simtagger/internal/history"
	"simtagger/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				mode := "dry-run"
				if run.Apply {
					mode = "apply"
				}
				duration := ""
				if !run.FinishedAt.IsZero() {
					duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					mode,
					strconv.Itoa(run.Manifests),
					duration,
				})
			}
			fmt.Fprintln(out, report.RenderRows([]string{"Run", "Started", "Mode", "Manifests", "Duration"}, rows, stdoutIsTerminal()))
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report lines recorded for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.RunOutcomes(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load run outcomes: %w", err)
			}
			if len(records) == 0 {
				return fmt.Errorf("no outcomes recorded for run %s", args[0])
			}

			out := cmd.OutOrStdout()
			for _, record := range records {
				fmt.Fprintln(out, record.Line())
			}
			return nil
		},
	}
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled in configuration")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}
