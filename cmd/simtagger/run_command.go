package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"simtagger/internal/logging"
	"simtagger/internal/report"
	"simtagger/internal/runner"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile manifests and relocate accepted addons",
		Long: `Scans the addons root for manifest.json files, checks each against the
feed index, and corrects the simType tag where the feed disagrees. Addons
whose resolved tag matches the accepted tag are relocated to the destination
root. Without --apply the run reports what it would do and changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, logPath, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			out := cmd.OutOrStdout()
			mode := "dry-run"
			if apply {
				mode = "apply"
			}
			fmt.Fprintf(out, "simtagger %s\n", mode)
			fmt.Fprintf(out, "  config: %s\n", ctx.configPath)
			fmt.Fprintf(out, "  addons: %s\n", cfg.Paths.AddonsRoot)
			fmt.Fprintf(out, "  feed:   %s\n", cfg.Paths.FeedRoot)
			fmt.Fprintf(out, "  dest:   %s\n", cfg.Paths.DestRoot)
			if logPath != "" {
				fmt.Fprintf(out, "  log:    %s\n", logPath)
			}
			fmt.Fprintln(out)

			summary, err := runner.New(cfg, apply, logger, out).Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprint(out, report.RenderSummary(summary.Counters, stdoutIsTerminal()))
			fmt.Fprintf(out, "\n%d manifests, %d feed entries, %s\n",
				summary.Manifests, summary.Indexed, summary.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write manifest changes and move accepted addons")
	return cmd
}
