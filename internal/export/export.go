// Package export writes collections as CSV, JSON arrays or backups.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/benkyo/internal/model"
)

// ErrNothingToExport is returned when the selected collection is empty.
var ErrNothingToExport = errors.New("nothing to export")

// Columns, kept in sync with the import header names.
var (
	wordColumns    = []string{"word", "reading", "meaning", "addedAt", "lastReviewedAt"}
	noteColumns    = []string{"title", "content", "example", "addedAt"}
	mistakeColumns = []string{"kind", "key", "answer", "detail"}
)

const bom = "\ufeff"

// quote always wraps the field, doubling inner quotes.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(bom); err != nil {
		return err
	}
	lines := append([][]string{header}, rows...)
	for i, fields := range lines {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		for j, f := range fields {
			if j > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(f)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WordsCSV writes words in the import column order.
func WordsCSV(w io.Writer, words []*model.WordRecord) error {
	if len(words) == 0 {
		return ErrNothingToExport
	}
	rows := make([][]string, 0, len(words))
	for _, word := range words {
		rows = append(rows, []string{
			word.Word,
			word.Reading,
			word.Meaning,
			word.AddedAt.String(),
			word.LastReviewedAt.String(),
		})
	}
	return writeCSV(w, wordColumns, rows)
}

// NotesCSV writes grammar notes in the import column order.
func NotesCSV(w io.Writer, notes []*model.NoteRecord) error {
	if len(notes) == 0 {
		return ErrNothingToExport
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{n.Title, n.Content, n.Example, n.AddedAt.String()})
	}
	return writeCSV(w, noteColumns, rows)
}

// MistakesCSV writes a mistake book sorted by key.
func MistakesCSV(w io.Writer, set model.MistakeSet) error {
	if len(set) == 0 {
		return ErrNothingToExport
	}
	items := set.Values()
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{string(it.Kind()), it.Key(), it.Answer(), detail(it.Record)})
	}
	return writeCSV(w, mistakeColumns, rows)
}

func detail(rec model.Record) string {
	switch r := rec.(type) {
	case *model.WordRecord:
		return r.Meaning
	case *model.NoteRecord:
		return r.Example
	default:
		return ""
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WordsJSON writes words as a bare JSON array.
func WordsJSON(w io.Writer, words []*model.WordRecord) error {
	if len(words) == 0 {
		return ErrNothingToExport
	}
	return writeJSON(w, words)
}

// NotesJSON writes grammar notes as a bare JSON array.
func NotesJSON(w io.Writer, notes []*model.NoteRecord) error {
	if len(notes) == 0 {
		return ErrNothingToExport
	}
	return writeJSON(w, notes)
}

// NewBackup assembles a backup envelope from the word collections.
func NewBackup(words []*model.WordRecord, mistakes model.MistakeSet, stats model.DailyStats, at time.Time) *model.Backup {
	b := &model.Backup{
		ExportedAt: model.At(at),
		Words:      words,
		WrongBook:  make(map[string]*model.WordRecord, len(mistakes)),
		DailyStats: stats,
	}
	if b.Words == nil {
		b.Words = []*model.WordRecord{}
	}
	if b.DailyStats == nil {
		b.DailyStats = model.DailyStats{}
	}
	for key, it := range mistakes {
		if w, ok := it.Record.(*model.WordRecord); ok {
			b.WrongBook[key] = w
		}
	}
	return b
}

// Backup writes the backup envelope.
func Backup(w io.Writer, b *model.Backup) error {
	if b == nil {
		return ErrNothingToExport
	}
	return writeJSON(w, b)
}

// FileName returns the default download name, e.g. jp_words_2024-06-01.csv.
func FileName(kind, ext string, at time.Time) string {
	return fmt.Sprintf("jp_%s_%s.%s", kind, model.DayKey(at), ext)
}
