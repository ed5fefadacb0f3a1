package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/benkyo/internal/model"
)

var (
	// ErrMalformedImport marks a file that cannot be read as a whole.
	ErrMalformedImport = errors.New("malformed import file")
	// ErrEmptyBatch marks a readable file without a single usable record.
	ErrEmptyBatch = errors.New("import file has no usable records")
)

const utf8BOM = "\ufeff"

// Options supplies the collaborators used while building records.
type Options struct {
	NewID func() string
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedImport, fmt.Sprintf(format, args...))
}

// WordColumns lists the word CSV columns in export order.
var WordColumns = []string{"word", "reading", "meaning", "addedAt", "lastReviewedAt"}

// NoteColumns lists the note CSV columns in export order.
var NoteColumns = []string{"title", "content", "example", "addedAt"}

type csvRow map[string]string

func (r csvRow) get(name string) string {
	return strings.TrimSpace(r[strings.ToLower(name)])
}

// readCSV reads a headed CSV file. Column names match case-insensitively.
func readCSV(r io.Reader, required ...string) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, malformed("%v", err)
	}
	if len(records) == 0 {
		return nil, malformed("missing header row")
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			return nil, malformed("missing %q column", name)
		}
	}

	rows := make([]csvRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := csvRow{}
		for name, idx := range cols {
			if idx < len(rec) {
				row[name] = rec[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseTime(s string, fallback time.Time) model.Timestamp {
	ts, err := model.ParseTimestamp(s)
	if err != nil || ts.IsZero() {
		if fallback.IsZero() {
			return model.Timestamp{}
		}
		return model.At(fallback)
	}
	return ts
}

// ParseWordsCSV reads words from a CSV file with at least word and reading
// columns. Rows missing either value are dropped.
func ParseWordsCSV(r io.Reader, opts Options) ([]*model.WordRecord, error) {
	opts = opts.withDefaults()
	rows, err := readCSV(r, "word", "reading")
	if err != nil {
		return nil, err
	}
	var words []*model.WordRecord
	for _, row := range rows {
		w := &model.WordRecord{
			Base: model.Base{
				ID:             opts.NewID(),
				AddedAt:        parseTime(row.get("addedAt"), opts.Now()),
				LastReviewedAt: parseTime(row.get("lastReviewedAt"), time.Time{}),
			},
			Word:    row.get("word"),
			Reading: row.get("reading"),
			Meaning: row.get("meaning"),
		}
		if w.Word == "" || w.Reading == "" {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, ErrEmptyBatch
	}
	return words, nil
}

// ParseNotesCSV reads grammar notes from a CSV file with at least title and
// content columns. Rows missing either value are dropped.
func ParseNotesCSV(r io.Reader, opts Options) ([]*model.NoteRecord, error) {
	opts = opts.withDefaults()
	rows, err := readCSV(r, "title", "content")
	if err != nil {
		return nil, err
	}
	var notes []*model.NoteRecord
	for _, row := range rows {
		n := &model.NoteRecord{
			Base: model.Base{
				ID:             opts.NewID(),
				AddedAt:        parseTime(row.get("addedAt"), opts.Now()),
				LastReviewedAt: parseTime(row.get("lastReviewedAt"), time.Time{}),
			},
			Title:   row.get("title"),
			Content: row.get("content"),
			Example: row.get("example"),
		}
		if n.Title == "" || n.Content == "" {
			continue
		}
		notes = append(notes, n)
	}
	if len(notes) == 0 {
		return nil, ErrEmptyBatch
	}
	return notes, nil
}

// decodeArray decodes a JSON document whose root must be an array.
func decodeArray(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, malformed("%v", err)
	}
	if _, ok := root.([]any); !ok {
		return nil, malformed("root is not an array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, malformed("%v", err)
	}
	return items, nil
}

// ParseWordsJSON reads a bare JSON array of words.
func ParseWordsJSON(r io.Reader, opts Options) ([]*model.WordRecord, error) {
	opts = opts.withDefaults()
	items, err := decodeArray(r)
	if err != nil {
		return nil, err
	}
	var words []*model.WordRecord
	for i, raw := range items {
		var w model.WordRecord
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, malformed("item %d: %v", i, err)
		}
		if cleaned, ok := cleanWord(&w, opts); ok {
			words = append(words, cleaned)
		}
	}
	if len(words) == 0 {
		return nil, ErrEmptyBatch
	}
	return words, nil
}

// ParseNotesJSON reads a bare JSON array of grammar notes.
func ParseNotesJSON(r io.Reader, opts Options) ([]*model.NoteRecord, error) {
	opts = opts.withDefaults()
	items, err := decodeArray(r)
	if err != nil {
		return nil, err
	}
	var notes []*model.NoteRecord
	for i, raw := range items {
		var n model.NoteRecord
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, malformed("item %d: %v", i, err)
		}
		n.ID = opts.NewID()
		n.Title = strings.TrimSpace(n.Title)
		n.Content = strings.TrimSpace(n.Content)
		if n.Title == "" || n.Content == "" {
			continue
		}
		if n.AddedAt.IsZero() {
			n.AddedAt = model.At(opts.Now())
		}
		notes = append(notes, &n)
	}
	if len(notes) == 0 {
		return nil, ErrEmptyBatch
	}
	return notes, nil
}

func cleanWord(w *model.WordRecord, opts Options) (*model.WordRecord, bool) {
	w.ID = opts.NewID()
	w.Word = strings.TrimSpace(w.Word)
	w.Reading = strings.TrimSpace(w.Reading)
	w.Meaning = strings.TrimSpace(w.Meaning)
	if w.Word == "" || w.Reading == "" {
		return nil, false
	}
	if w.AddedAt.IsZero() {
		w.AddedAt = model.At(opts.Now())
	}
	return w, true
}

// IsBackup reports whether data is a JSON object rather than a bare array,
// i.e. a full backup envelope.
func IsBackup(data []byte) bool {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte(utf8BOM)))
	return len(trimmed) > 0 && trimmed[0] == '{'
}
