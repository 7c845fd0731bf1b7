package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/stats"
)

var (
	statsRebuild bool
	statsTop     int
	statsWindow  int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show overall statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsRebuild, "rebuild", false, "recompute counters from stored completed sessions")
	cmd.Flags().IntVar(&statsTop, "top", 10, "number of most missed words to show")
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window of the accuracy trend")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		sessions, err := a.sessions.GetAll(ctx)
		if err != nil {
			return err
		}
		var summary model.SessionStats
		if statsRebuild {
			summary, err = a.stats.Rebuild(ctx, sessions)
		} else {
			summary, err = a.stats.Get(ctx)
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := stats.RenderSummary(out, summary, sessions, statsWindow); err != nil {
			return err
		}
		if summary.TotalSessions == 0 {
			return nil
		}
		if err := printf(cmd, "\n"); err != nil {
			return err
		}
		return stats.RenderTroubleWords(out, stats.TroubleWords(sessions, statsTop))
	})
}
