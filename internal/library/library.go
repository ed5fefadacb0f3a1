// Package library edits the stored word and note collections and keeps the
// word mistake book consistent with them.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/model"
)

var (
	// ErrDuplicateKey is returned when adding a record whose key exists.
	ErrDuplicateKey = errors.New("key already exists")
	// ErrNotFound is returned when no record has the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrIncomplete is returned when the key or answer field is blank.
	ErrIncomplete = errors.New("key and answer are required")
)

// Store is the persistence the library needs.
type Store interface {
	LoadWords(ctx context.Context) ([]*model.WordRecord, error)
	SaveWords(ctx context.Context, words []*model.WordRecord) error
	LoadNotes(ctx context.Context) ([]*model.NoteRecord, error)
	SaveNotes(ctx context.Context, notes []*model.NoteRecord) error
	LoadMistakes(ctx context.Context, domain model.MistakeDomain) (model.MistakeSet, error)
	SaveMistakes(ctx context.Context, domain model.MistakeDomain, set model.MistakeSet) error
	LoadDailyStats(ctx context.Context) (model.DailyStats, error)
	SaveDailyStats(ctx context.Context, stats model.DailyStats) error
}

// Library wraps a Store with record-level operations.
type Library struct {
	store Store
	newID func() string
	now   func() time.Time
}

// Option configures a Library.
type Option func(*Library)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(l *Library) { l.newID = newID }
}

// New returns a Library backed by st.
func New(st Store, opts ...Option) *Library {
	l := &Library{store: st, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ImportOptions returns parser options sharing the library's id and clock.
func (l *Library) ImportOptions() importer.Options {
	return importer.Options{NewID: l.newID, Now: l.now}
}

// Words returns the stored words.
func (l *Library) Words(ctx context.Context) ([]*model.WordRecord, error) {
	return l.store.LoadWords(ctx)
}

// Notes returns the stored grammar notes.
func (l *Library) Notes(ctx context.Context) ([]*model.NoteRecord, error) {
	return l.store.LoadNotes(ctx)
}

// AddWord appends a word. With replace set, an existing word with the same
// key has its reading and meaning updated in place instead.
func (l *Library) AddWord(ctx context.Context, word, reading, meaning string, replace bool) (*model.WordRecord, error) {
	word, reading, meaning = strings.TrimSpace(word), strings.TrimSpace(reading), strings.TrimSpace(meaning)
	if word == "" || reading == "" {
		return nil, ErrIncomplete
	}
	words, err := l.store.LoadWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	for _, w := range words {
		if w.Word != word {
			continue
		}
		if !replace {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, word)
		}
		w.Reading = reading
		w.Meaning = meaning
		if err := l.store.SaveWords(ctx, words); err != nil {
			return nil, fmt.Errorf("save words: %w", err)
		}
		if err := l.SyncMistake(ctx, w); err != nil {
			return nil, err
		}
		return w, nil
	}
	w := &model.WordRecord{
		Base:    model.Base{ID: l.newID(), AddedAt: model.At(l.now())},
		Word:    word,
		Reading: reading,
		Meaning: meaning,
	}
	if err := l.store.SaveWords(ctx, append(words, w)); err != nil {
		return nil, fmt.Errorf("save words: %w", err)
	}
	return w, nil
}

// RemoveWord deletes a word and its mistake book entry.
func (l *Library) RemoveWord(ctx context.Context, key string) error {
	words, err := l.store.LoadWords(ctx)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	kept := words[:0:0]
	for _, w := range words {
		if w.Word != key {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(words) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err := l.store.SaveWords(ctx, kept); err != nil {
		return fmt.Errorf("save words: %w", err)
	}
	mistakes, err := l.store.LoadMistakes(ctx, model.MistakesWords)
	if err != nil {
		return fmt.Errorf("load mistakes: %w", err)
	}
	if _, ok := mistakes[key]; !ok {
		return nil
	}
	delete(mistakes, key)
	if err := l.store.SaveMistakes(ctx, model.MistakesWords, mistakes); err != nil {
		return fmt.Errorf("save mistakes: %w", err)
	}
	return nil
}

// RenameWord changes the key of a stored word and moves its mistake book
// entry along with it.
func (l *Library) RenameWord(ctx context.Context, from, to string) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if to == "" {
		return ErrIncomplete
	}
	words, err := l.store.LoadWords(ctx)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	var target *model.WordRecord
	for _, w := range words {
		switch w.Word {
		case from:
			target = w
		case to:
			return fmt.Errorf("%w: %s", ErrDuplicateKey, to)
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, from)
	}
	if from == to {
		return nil
	}
	target.Word = to
	if err := l.store.SaveWords(ctx, words); err != nil {
		return fmt.Errorf("save words: %w", err)
	}

	mistakes, err := l.store.LoadMistakes(ctx, model.MistakesWords)
	if err != nil {
		return fmt.Errorf("load mistakes: %w", err)
	}
	if _, ok := mistakes[from]; !ok {
		return nil
	}
	delete(mistakes, from)
	cp := *target
	mistakes[to] = model.Item{Record: &cp}
	if err := l.store.SaveMistakes(ctx, model.MistakesWords, mistakes); err != nil {
		return fmt.Errorf("save mistakes: %w", err)
	}
	return nil
}

// SyncMistake refreshes the mistake book entry for w, if there is one.
func (l *Library) SyncMistake(ctx context.Context, w *model.WordRecord) error {
	return l.syncMistakes(ctx, []*model.WordRecord{w})
}

func (l *Library) syncMistakes(ctx context.Context, words []*model.WordRecord) error {
	mistakes, err := l.store.LoadMistakes(ctx, model.MistakesWords)
	if err != nil {
		return fmt.Errorf("load mistakes: %w", err)
	}
	changed := false
	for _, w := range words {
		if _, ok := mistakes[w.Word]; ok {
			cp := *w
			mistakes[w.Word] = model.Item{Record: &cp}
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := l.store.SaveMistakes(ctx, model.MistakesWords, mistakes); err != nil {
		return fmt.Errorf("save mistakes: %w", err)
	}
	return nil
}

// AddNote prepends a grammar note. With replace set, an existing note with the
// same title has its content and example updated in place instead.
func (l *Library) AddNote(ctx context.Context, title, content, example string, replace bool) (*model.NoteRecord, error) {
	title, content, example = strings.TrimSpace(title), strings.TrimSpace(content), strings.TrimSpace(example)
	if title == "" || content == "" {
		return nil, ErrIncomplete
	}
	notes, err := l.store.LoadNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	for _, n := range notes {
		if n.Title != title {
			continue
		}
		if !replace {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, title)
		}
		n.Content = content
		n.Example = example
		if err := l.store.SaveNotes(ctx, notes); err != nil {
			return nil, fmt.Errorf("save notes: %w", err)
		}
		return n, nil
	}
	n := &model.NoteRecord{
		Base:    model.Base{ID: l.newID(), AddedAt: model.At(l.now())},
		Title:   title,
		Content: content,
		Example: example,
	}
	if err := l.store.SaveNotes(ctx, append([]*model.NoteRecord{n}, notes...)); err != nil {
		return nil, fmt.Errorf("save notes: %w", err)
	}
	return n, nil
}

// RenameNote changes the title of a stored note.
func (l *Library) RenameNote(ctx context.Context, from, to string) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if to == "" {
		return ErrIncomplete
	}
	notes, err := l.store.LoadNotes(ctx)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	var target *model.NoteRecord
	for _, n := range notes {
		switch n.Title {
		case from:
			target = n
		case to:
			return fmt.Errorf("%w: %s", ErrDuplicateKey, to)
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, from)
	}
	if from == to {
		return nil
	}
	target.Title = to
	if err := l.store.SaveNotes(ctx, notes); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

// RemoveNote deletes the note titled key.
func (l *Library) RemoveNote(ctx context.Context, key string) error {
	notes, err := l.store.LoadNotes(ctx)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	kept := notes[:0:0]
	for _, n := range notes {
		if n.Title != key {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(notes) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err := l.store.SaveNotes(ctx, kept); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}
