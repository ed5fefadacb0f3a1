package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/benkyo/internal/config"
	"github.com/verte-zerg/benkyo/internal/stats"
)

const defaultStatsDays = 14

var statsLast int

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily review stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", defaultStatsDays, "number of days to show")
	cmd.Flags().IntVar(&reviewGoal, "goal", config.DefaultDailyGoal, "daily answer goal")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "goal", &reviewGoal, fileCfg.Review.DailyGoal)
	if statsLast <= 0 {
		return fmt.Errorf("--last must be greater than 0")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	daily, err := st.LoadDailyStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	now := time.Now()
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, daily, now, reviewGoal); err != nil {
		return err
	}
	return stats.RenderDays(out, stats.Window(daily, now, statsLast))
}
