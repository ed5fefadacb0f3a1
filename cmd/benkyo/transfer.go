package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/benkyo/internal/export"
	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/library"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/store"
	"github.com/verte-zerg/benkyo/internal/tui"
)

const askPolicy = "ask"

var (
	importKind        string
	importOnDuplicate string

	exportKind   string
	exportFormat string
	exportOut    string
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words or grammar notes from CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importKind, "kind", "words", "words or notes")
	cmd.Flags().StringVar(&importOnDuplicate, "on-duplicate", askPolicy, "ask, cover-all or skip-all")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "on-duplicate", &importOnDuplicate, fileCfg.Import.OnDuplicate)
	var bulk importer.Resolution
	if importOnDuplicate != askPolicy {
		bulk, err = importer.ParseResolution(importOnDuplicate)
		if err != nil || (bulk != importer.CoverAll && bulk != importer.SkipAll) {
			return fmt.Errorf("--on-duplicate must be ask, cover-all or skip-all")
		}
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	isJSON := strings.EqualFold(filepath.Ext(args[0]), ".json")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	lib := library.New(st)
	ctx := cmd.Context()

	switch importKind {
	case "words":
		if isJSON && importer.IsBackup(data) {
			return restoreBackup(cmd, lib, data)
		}
		parse := importer.ParseWordsCSV
		if isJSON {
			parse = importer.ParseWordsJSON
		}
		batch, err := parse(bytes.NewReader(data), lib.ImportOptions())
		if err != nil {
			return userError("", err)
		}
		rec, err := lib.BeginWordImport(ctx, batch)
		if err != nil {
			return err
		}
		if err := resolveDuplicates(cmd, rec, bulk); err != nil {
			return err
		}
		if err := lib.CommitWords(ctx, rec); err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), rec.Summary(), rec.Remaining())
	case "notes":
		parse := importer.ParseNotesCSV
		if isJSON {
			parse = importer.ParseNotesJSON
		}
		batch, err := parse(bytes.NewReader(data), lib.ImportOptions())
		if err != nil {
			return userError("", err)
		}
		rec, err := lib.BeginNoteImport(ctx, batch)
		if err != nil {
			return err
		}
		if err := resolveDuplicates(cmd, rec, bulk); err != nil {
			return err
		}
		if err := lib.CommitNotes(ctx, rec); err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), rec.Summary(), rec.Remaining())
	default:
		return fmt.Errorf("unknown --kind %q", importKind)
	}
}

// resolveDuplicates applies bulk when set, otherwise asks per duplicate.
func resolveDuplicates[R model.Record](cmd *cobra.Command, rec *importer.Reconciler[R], bulk importer.Resolution) error {
	if rec.Done() {
		return nil
	}
	if importOnDuplicate != askPolicy {
		return rec.DecideAll(bulk)
	}
	if !interactive() {
		return tui.PromptDuplicates(rec, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	m := tui.NewReconcile(rec)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI (new records were saved): %w", err)
	}
	if m.Aborted() {
		logErrln("duplicate review cancelled")
	}
	return nil
}

// printSummary reports the counts and any duplicates left without a decision.
func printSummary(w io.Writer, s importer.Summary, remaining int) error {
	if _, err := fmt.Fprintf(w, "added %d, covered %d, skipped %d\n", s.Added, s.Covered, s.Skipped); err != nil {
		return err
	}
	if remaining == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "%d duplicate(s) left unchanged\n", remaining)
	return err
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup.json>",
		Short: "Merge a full backup into the local data",
		Args:  cobra.ExactArgs(1),
		RunE:  runRestoreCmd,
	}
}

func runRestoreCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	return restoreBackup(cmd, library.New(st), data)
}

func restoreBackup(cmd *cobra.Command, lib *library.Library, data []byte) error {
	b, err := importer.ParseBackup(bytes.NewReader(data))
	if err != nil {
		return userError("", err)
	}
	out, err := lib.Restore(cmd.Context(), b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "restored: added %d words, %d already present, %d in mistake book, %d days of stats\n",
		out.Added, out.Duplicates, len(out.Mistakes), len(out.DailyStats))
	return err
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export words, notes, mistakes or a full backup",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportKind, "kind", "words", "words, notes, mistakes or kana-mistakes")
	cmd.Flags().StringVar(&exportFormat, "format", "csv", "csv, json or backup")
	cmd.Flags().StringVarP(&exportOut, "output", "o", "", "output path, - for stdout (default: jp_<kind>_<date>.<ext>)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	name, ext := exportKind, exportFormat
	if exportFormat == "backup" {
		name, ext = "backup", "json"
	}
	write, err := exporter(cmd.Context(), st, exportKind, exportFormat)
	if err != nil {
		return err
	}

	if exportOut == "-" {
		return userError("", write(cmd.OutOrStdout()))
	}
	path := exportOut
	if path == "" {
		path = export.FileName(name, ext, time.Now())
	}
	if err := writeFileAtomic(path, write); err != nil {
		return userError("", err)
	}
	logErrf("Wrote %s\n", path)
	return nil
}

// exporter loads the selected collection and returns its writer.
func exporter(ctx context.Context, st *store.Store, kind, format string) (func(io.Writer) error, error) {
	switch {
	case format == "backup":
		words, mistakes, daily, err := library.New(st).Backup(ctx)
		if err != nil {
			return nil, err
		}
		b := export.NewBackup(words, mistakes, daily, time.Now())
		return func(w io.Writer) error { return export.Backup(w, b) }, nil
	case kind == "words":
		words, err := st.LoadWords(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load words: %w", err)
		}
		switch format {
		case "csv":
			return func(w io.Writer) error { return export.WordsCSV(w, words) }, nil
		case "json":
			return func(w io.Writer) error { return export.WordsJSON(w, words) }, nil
		}
	case kind == "notes":
		notes, err := st.LoadNotes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load notes: %w", err)
		}
		switch format {
		case "csv":
			return func(w io.Writer) error { return export.NotesCSV(w, notes) }, nil
		case "json":
			return func(w io.Writer) error { return export.NotesJSON(w, notes) }, nil
		}
	case kind == "mistakes" || kind == "kana-mistakes":
		domain := model.MistakesWords
		if kind == "kana-mistakes" {
			domain = model.MistakesKana
		}
		set, err := st.LoadMistakes(ctx, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to load mistakes: %w", err)
		}
		if format == "csv" {
			return func(w io.Writer) error { return export.MistakesCSV(w, set) }, nil
		}
	default:
		return nil, fmt.Errorf("unknown --kind %q", kind)
	}
	return nil, fmt.Errorf("--format %s is not available for %s", format, kind)
}

// writeFileAtomic writes through a temp file so a failed export never leaves
// a truncated file behind.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "export-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := write(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
