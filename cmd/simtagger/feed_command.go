package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"simtagger/internal/feed"
	"simtagger/internal/logging"
	"simtagger/internal/report"
)

func newFeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "List the feed index built from the configured feed root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			index, err := feed.LoadIndex(cfg.Paths.FeedRoot, cfg.Matching.AcceptedTag, logging.NewNop())
			if err != nil {
				return fmt.Errorf("load feed index: %w", err)
			}

			out := cmd.OutOrStdout()
			if index.Len() == 0 {
				fmt.Fprintf(out, "No acceptable entries under %s\n", cfg.Paths.FeedRoot)
				return nil
			}

			rows := make([][]string, 0, index.Len())
			for _, row := range index.Rows() {
				rows = append(rows, []string{row.Code, row.Version, row.Tag})
			}
			fmt.Fprintln(out, report.RenderRows([]string{"ICAO", "Version", "Tag"}, rows, stdoutIsTerminal()))
			fmt.Fprintf(out, "%d entries\n", index.Len())
			return nil
		},
	}
}
