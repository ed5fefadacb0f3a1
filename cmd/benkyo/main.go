// Package main provides the CLI entrypoint for benkyo.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/benkyo/internal/config"
	"github.com/verte-zerg/benkyo/internal/export"
	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/library"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/review"
	"github.com/verte-zerg/benkyo/internal/store"
)

var dbPath string

// interactive reports whether the terminal UI can be used. Tests and pipes
// fall back to line mode.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "benkyo",
		Short:         "Japanese vocabulary, grammar and kana trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReviewCmd,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	addReviewFlags(rootCmd)

	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newKanaCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DB)
	return fileCfg, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.ExpandHome(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// userError turns package sentinels into messages that say what to do next.
func userError(scope model.Scope, err error) error {
	switch {
	case errors.Is(err, review.ErrEmptyPool) && scope == model.ScopeWordsWrong:
		return errors.New("mistake book is empty; nothing to review")
	case errors.Is(err, review.ErrEmptyPool):
		return errors.New("word list is empty; add words with `benkyo add word` or `benkyo import`")
	case errors.Is(err, importer.ErrMalformedImport):
		return fmt.Errorf("cannot read import file: %w", err)
	case errors.Is(err, importer.ErrEmptyBatch):
		return errors.New("import file has no usable rows (key and answer columns must be filled)")
	case errors.Is(err, export.ErrNothingToExport):
		return errors.New("nothing to export; the selected collection is empty")
	case errors.Is(err, library.ErrIncomplete):
		return errors.New("both the key and the answer must be given")
	default:
		return err
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := config.EnsureTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
