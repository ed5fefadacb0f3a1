package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/benkyo/internal/config"
	"github.com/verte-zerg/benkyo/internal/kana"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/review"
	"github.com/verte-zerg/benkyo/internal/store"
	"github.com/verte-zerg/benkyo/internal/tui"
)

var (
	reviewWrongOnly bool
	reviewFresh     bool
	reviewResume    bool
	reviewGoal      int

	kanaMode    string
	kanaFrom    string
	kanaOrdered bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&reviewWrongOnly, "wrong-only", false, "review only the mistake book")
	addSessionFlags(cmd)
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&reviewFresh, "fresh", false, "discard unfinished progress and start over")
	cmd.Flags().BoolVar(&reviewResume, "resume", false, "resume unfinished progress without asking")
	cmd.Flags().IntVar(&reviewGoal, "goal", config.DefaultDailyGoal, "daily answer goal shown in the footer")
	cmd.MarkFlagsMutuallyExclusive("fresh", "resume")
}

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review words by reading",
		Args:  cobra.NoArgs,
		RunE:  runReviewCmd,
	}
	addReviewFlags(cmd)
	return cmd
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "goal", &reviewGoal, fileCfg.Review.DailyGoal)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	scope := model.ScopeWords
	var pool []model.Item
	if reviewWrongOnly {
		scope = model.ScopeWordsWrong
		mistakes, err := st.LoadMistakes(ctx, scope.MistakeDomain())
		if err != nil {
			return fmt.Errorf("failed to load mistakes: %w", err)
		}
		pool = mistakes.Values()
	} else {
		words, err := st.LoadWords(ctx)
		if err != nil {
			return fmt.Errorf("failed to load words: %w", err)
		}
		pool = model.Items(words)
	}

	r := review.New(st)
	return runSession(cmd, st, r, scope, func(ctx context.Context) (*review.Session, error) {
		return r.Start(ctx, pool, scope)
	})
}

func newKanaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kana",
		Short: "Practice kana readings",
		Args:  cobra.NoArgs,
		RunE:  runKanaCmd,
	}
	cmd.Flags().StringVar(&kanaMode, "mode", string(kana.Hiragana), "hiragana, katakana or both")
	cmd.Flags().StringVar(&kanaFrom, "from", "", "start at this glyph in table order")
	cmd.Flags().BoolVar(&kanaOrdered, "ordered", false, "keep table order instead of shuffling")
	addSessionFlags(cmd)
	return cmd
}

func runKanaCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "mode", &kanaMode, fileCfg.Kana.Mode)
	applyIntConfig(cmd, "goal", &reviewGoal, fileCfg.Review.DailyGoal)

	mode, err := kana.ParseMode(kanaMode)
	if err != nil {
		return err
	}
	pool := model.Items(kana.Pool(mode))
	start := 0
	if kanaFrom != "" {
		idx, ok := kana.IndexOf(mode, kanaFrom)
		if !ok {
			return fmt.Errorf("%q is not in the %s table", kanaFrom, mode)
		}
		start = idx
		reviewFresh = true
		reviewResume = false
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	r := review.New(st)
	scope := mode.Scope()
	return runSession(cmd, st, r, scope, func(ctx context.Context) (*review.Session, error) {
		if kanaFrom != "" || kanaOrdered {
			return r.StartAt(ctx, pool, scope, start)
		}
		return r.Start(ctx, pool, scope)
	})
}

// runSession settles resume or restart and then drives the session in the
// terminal UI, or line by line when stdin is not a terminal.
func runSession(cmd *cobra.Command, st *store.Store, r *review.Reviewer, scope model.Scope, fresh func(context.Context) (*review.Session, error)) error {
	ctx := cmd.Context()
	pending, ok, err := r.ResumeCheck(ctx, scope)
	if err != nil {
		return err
	}
	if reviewFresh {
		ok = false
	}
	if reviewResume && !ok {
		logErrln("no unfinished session; starting a new one")
	}

	start := fresh
	if ok && (reviewResume || !interactive()) {
		start = func(context.Context) (*review.Session, error) {
			return r.Resume(pending), nil
		}
		ok = false
	}

	if !interactive() {
		sess, err := start(ctx)
		if err != nil {
			return userError(scope, err)
		}
		return tui.RunLines(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	cfg := tui.ReviewConfig{
		Reviewer: r,
		Stats:    st,
		Scope:    scope,
		Goal:     reviewGoal,
		Fresh:    start,
	}
	if ok {
		cfg.Pending = &pending
	}
	m := tui.NewReview(ctx, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return userError(scope, err)
	}
	return nil
}
