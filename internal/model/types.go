// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind tags the concrete type behind a Record.
type Kind string

const (
	KindWord Kind = "word"
	KindNote Kind = "note"
	KindKana Kind = "kana"
)

// Record is one studyable item with a unique, user-meaningful key.
type Record interface {
	Kind() Kind
	// Key identifies the record within its store.
	Key() string
	// Answer is the expected answer when the record is quizzed.
	Answer() string
	Meta() *Base
}

// Base holds the fields every record kind shares.
type Base struct {
	ID             string    `json:"id"`
	AddedAt        Timestamp `json:"addedAt"`
	LastReviewedAt Timestamp `json:"lastReviewedAt"`
}

// Meta returns the shared fields.
func (b *Base) Meta() *Base { return b }

// WordRecord is a vocabulary entry quizzed by reading.
type WordRecord struct {
	Base
	Word    string `json:"word"`
	Reading string `json:"reading"`
	Meaning string `json:"meaning"`
}

func (w *WordRecord) Kind() Kind     { return KindWord }
func (w *WordRecord) Key() string    { return w.Word }
func (w *WordRecord) Answer() string { return w.Reading }

// NoteRecord is a grammar note keyed by its title.
type NoteRecord struct {
	Base
	Title   string `json:"title"`
	Content string `json:"content"`
	Example string `json:"example"`
}

func (n *NoteRecord) Kind() Kind     { return KindNote }
func (n *NoteRecord) Key() string    { return n.Title }
func (n *NoteRecord) Answer() string { return n.Content }

// KanaRecord is a kana glyph quizzed by romaji.
type KanaRecord struct {
	Base
	Kana string `json:"kana"`
	Roma string `json:"roma"`
}

func (k *KanaRecord) Kind() Kind     { return KindKana }
func (k *KanaRecord) Key() string    { return k.Kana }
func (k *KanaRecord) Answer() string { return k.Roma }

// Item wraps a Record so it can be stored with its kind tag.
type Item struct {
	Record
}

type itemEnvelope struct {
	Kind   Kind            `json:"kind"`
	Record json.RawMessage `json:"record"`
}

// MarshalJSON implements json.Marshaler.
func (it Item) MarshalJSON() ([]byte, error) {
	if it.Record == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(it.Record)
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemEnvelope{Kind: it.Kind(), Record: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (it *Item) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		it.Record = nil
		return nil
	}
	var env itemEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	var rec Record
	switch env.Kind {
	case KindWord:
		rec = &WordRecord{}
	case KindNote:
		rec = &NoteRecord{}
	case KindKana:
		rec = &KanaRecord{}
	default:
		return fmt.Errorf("unknown record kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Record, rec); err != nil {
		return fmt.Errorf("decode %s record: %w", env.Kind, err)
	}
	it.Record = rec
	return nil
}

// Items wraps each record of a typed slice.
func Items[R Record](records []R) []Item {
	out := make([]Item, len(records))
	for i, r := range records {
		out[i] = Item{Record: r}
	}
	return out
}

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is an instant encoded as an ISO-8601 UTC string. The zero value
// encodes as an empty string.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp { return Timestamp{Time: t} }

// String formats the timestamp, or returns "" when unset.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp accepts RFC 3339 (with or without fractional seconds) or a
// bare date. Blank input yields the zero Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: parsed}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MistakeSet maps a record key to the last-seen content of an item that was
// graded wrong.
type MistakeSet map[string]Item

// Values returns the entries ordered by key, skipping empty items.
func (m MistakeSet) Values() []Item {
	keys := make([]string, 0, len(m))
	for k, it := range m {
		if it.Record == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Item, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// MistakeDomain names an independent mistake book.
type MistakeDomain string

const (
	MistakesWords MistakeDomain = "words"
	MistakesKana  MistakeDomain = "kana"
)

// DayStats counts gradings for one calendar day.
type DayStats struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// DailyStats maps a UTC date (YYYY-MM-DD) to its counters.
type DailyStats map[string]DayStats

// DayKey returns the DailyStats key for t.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Record adds one grading event on the day of at.
func (d DailyStats) Record(at time.Time, correct bool) {
	day := DayKey(at)
	entry := d[day]
	entry.Total++
	if correct {
		entry.Correct++
	}
	d[day] = entry
}

// SessionState is the persisted traversal of one review session.
type SessionState struct {
	Items []Item `json:"items"`
	Index int    `json:"index"`
	Scope Scope  `json:"scope"`
}

// Complete reports whether the cursor has run past the last item.
func (s SessionState) Complete() bool {
	return s.Index >= len(s.Items)
}

// Resumable reports whether the state holds unfinished work.
func (s SessionState) Resumable() bool {
	return len(s.Items) > 0 && s.Index >= 0 && s.Index < len(s.Items)
}

// Backup is the full-backup file envelope. The wrong book holds bare word
// objects keyed by word.
type Backup struct {
	ExportedAt Timestamp              `json:"exportedAt"`
	Words      []*WordRecord          `json:"words"`
	WrongBook  map[string]*WordRecord `json:"wrongBook"`
	DailyStats DailyStats             `json:"dailyStats"`
}
