package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/benkyo/internal/library"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/stats"
	"github.com/verte-zerg/benkyo/internal/tui"
)

var (
	addReplace bool
	listKind   string
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a word or grammar note",
	}
	word := &cobra.Command{
		Use:   "word <word> <reading> [meaning]",
		Short: "Add a vocabulary word",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  runAddWordCmd,
	}
	note := &cobra.Command{
		Use:   "note <title> <content> [example]",
		Short: "Add a grammar note",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  runAddNoteCmd,
	}
	for _, c := range []*cobra.Command{word, note} {
		c.Flags().BoolVar(&addReplace, "replace", false, "update an existing entry with the same key")
		cmd.AddCommand(c)
	}
	return cmd
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func runAddWordCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	lib := library.New(st)
	w, err := lib.AddWord(cmd.Context(), args[0], args[1], optionalArg(args, 2), addReplace)
	if errors.Is(err, library.ErrDuplicateKey) {
		return fmt.Errorf("word %q already exists (use --replace to update it)", args[0])
	}
	if err != nil {
		return userError("", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", w.Word, w.Reading)
	return err
}

func runAddNoteCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	lib := library.New(st)
	n, err := lib.AddNote(cmd.Context(), args[0], args[1], optionalArg(args, 2), addReplace)
	if errors.Is(err, library.ErrDuplicateKey) {
		return fmt.Errorf("note %q already exists (use --replace to update it)", args[0])
	}
	if err != nil {
		return userError("", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", n.Title)
	return err
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a word or grammar note",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "word <word>",
		Short: "Delete a word and its mistake book entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], (*library.Library).RemoveWord)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "note <title>",
		Short: "Delete a grammar note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], (*library.Library).RemoveNote)
		},
	})
	return cmd
}

func runDelete(cmd *cobra.Command, key string, remove func(*library.Library, context.Context, string) error) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := remove(library.New(st), cmd.Context(), key); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("%q not found", key)
		}
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
	return err
}

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Change the key of a word or grammar note",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "word <word> <new-word>",
		Short: "Rename a word, keeping its mistake book entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, args[0], args[1], (*library.Library).RenameWord)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "note <title> <new-title>",
		Short: "Rename a grammar note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, args[0], args[1], (*library.Library).RenameNote)
		},
	})
	return cmd
}

func runRename(cmd *cobra.Command, from, to string, rename func(*library.Library, context.Context, string, string) error) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	err = rename(library.New(st), cmd.Context(), from, to)
	switch {
	case errors.Is(err, library.ErrNotFound):
		return fmt.Errorf("%q not found", from)
	case errors.Is(err, library.ErrDuplicateKey):
		return fmt.Errorf("%q already exists", to)
	case err != nil:
		return userError("", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", from, to)
	return err
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().StringVar(&listKind, "kind", "words", "words, notes, mistakes or kana-mistakes")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	var (
		title   string
		kind    model.Kind
		records []model.Record
	)
	switch listKind {
	case "words":
		words, err := st.LoadWords(ctx)
		if err != nil {
			return fmt.Errorf("failed to load words: %w", err)
		}
		title, kind = "Words", model.KindWord
		for _, w := range words {
			records = append(records, w)
		}
	case "notes":
		notes, err := st.LoadNotes(ctx)
		if err != nil {
			return fmt.Errorf("failed to load notes: %w", err)
		}
		title, kind = "Grammar notes", model.KindNote
		for _, n := range notes {
			records = append(records, n)
		}
	case "mistakes", "kana-mistakes":
		domain, k := model.MistakesWords, model.KindWord
		title = "Mistake book"
		if listKind == "kana-mistakes" {
			domain, k = model.MistakesKana, model.KindKana
			title = "Kana mistakes"
		}
		set, err := st.LoadMistakes(ctx, domain)
		if err != nil {
			return fmt.Errorf("failed to load mistakes: %w", err)
		}
		kind = k
		for _, it := range set.Values() {
			records = append(records, it.Record)
		}
	default:
		return fmt.Errorf("unknown --kind %q", listKind)
	}

	headers := tui.Columns(kind)
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, tui.Row(rec))
	}
	if !interactive() || len(rows) == 0 {
		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			_, err := fmt.Fprintf(out, "%s: none\n", title)
			return err
		}
		for _, line := range stats.FormatTable(headers, rows, nil) {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	program := tea.NewProgram(tui.NewList(title, headers, rows), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
