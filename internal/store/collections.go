package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verte-zerg/benkyo/internal/model"
)

func (s *Store) loadJSON(ctx context.Context, key Key, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) saveJSON(ctx context.Context, key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}

// LoadWords returns the word list, newest first.
func (s *Store) LoadWords(ctx context.Context) ([]*model.WordRecord, error) {
	var words []*model.WordRecord
	if _, err := s.loadJSON(ctx, WordsKey, &words); err != nil {
		return nil, err
	}
	return dropNil(words), nil
}

// SaveWords replaces the word list.
func (s *Store) SaveWords(ctx context.Context, words []*model.WordRecord) error {
	if words == nil {
		words = []*model.WordRecord{}
	}
	return s.saveJSON(ctx, WordsKey, words)
}

// LoadNotes returns the grammar notes, newest first.
func (s *Store) LoadNotes(ctx context.Context) ([]*model.NoteRecord, error) {
	var notes []*model.NoteRecord
	if _, err := s.loadJSON(ctx, NotesKey, &notes); err != nil {
		return nil, err
	}
	return dropNil(notes), nil
}

// dropNil removes null entries left in a hand-edited or damaged slot.
func dropNil[T any](records []*T) []*T {
	kept := records[:0]
	for _, r := range records {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return kept
}

// SaveNotes replaces the grammar notes.
func (s *Store) SaveNotes(ctx context.Context, notes []*model.NoteRecord) error {
	if notes == nil {
		notes = []*model.NoteRecord{}
	}
	return s.saveJSON(ctx, NotesKey, notes)
}

// LoadMistakes returns a mistake book. A missing slot yields an empty set.
func (s *Store) LoadMistakes(ctx context.Context, domain model.MistakeDomain) (model.MistakeSet, error) {
	key, err := MistakesKey(domain)
	if err != nil {
		return nil, err
	}
	set := model.MistakeSet{}
	if _, err := s.loadJSON(ctx, key, &set); err != nil {
		return nil, err
	}
	if set == nil {
		set = model.MistakeSet{}
	}
	for k, it := range set {
		if it.Record == nil {
			delete(set, k)
		}
	}
	return set, nil
}

// SaveMistakes replaces a mistake book.
func (s *Store) SaveMistakes(ctx context.Context, domain model.MistakeDomain, set model.MistakeSet) error {
	key, err := MistakesKey(domain)
	if err != nil {
		return err
	}
	if set == nil {
		set = model.MistakeSet{}
	}
	return s.saveJSON(ctx, key, set)
}

// LoadDailyStats returns the per-day counters.
func (s *Store) LoadDailyStats(ctx context.Context) (model.DailyStats, error) {
	stats := model.DailyStats{}
	if _, err := s.loadJSON(ctx, DailyStatsKey, &stats); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = model.DailyStats{}
	}
	return stats, nil
}

// SaveDailyStats replaces the per-day counters.
func (s *Store) SaveDailyStats(ctx context.Context, stats model.DailyStats) error {
	if stats == nil {
		stats = model.DailyStats{}
	}
	return s.saveJSON(ctx, DailyStatsKey, stats)
}

// LoadProgress returns the persisted session for scope. An unreadable slot is
// reported as absent; progress can always be rebuilt by starting over.
func (s *Store) LoadProgress(ctx context.Context, scope model.Scope) (model.SessionState, bool, error) {
	key, err := ProgressKey(scope)
	if err != nil {
		return model.SessionState{}, false, err
	}
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return model.SessionState{}, false, err
	}
	var state model.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.SessionState{}, false, nil
	}
	for _, it := range state.Items {
		if it.Record == nil {
			return model.SessionState{}, false, nil
		}
	}
	state.Scope = scope
	return state, true, nil
}

// SaveProgress persists a session under its scope.
func (s *Store) SaveProgress(ctx context.Context, state model.SessionState) error {
	key, err := ProgressKey(state.Scope)
	if err != nil {
		return err
	}
	return s.saveJSON(ctx, key, state)
}

// ClearProgress removes the persisted session for scope.
func (s *Store) ClearProgress(ctx context.Context, scope model.Scope) error {
	key, err := ProgressKey(scope)
	if err != nil {
		return err
	}
	return s.Delete(ctx, key)
}

// MarkReviewed stamps lastReviewedAt on the stored record matching rec. Kana
// glyphs are built in and have no stored record, so they are ignored.
func (s *Store) MarkReviewed(ctx context.Context, rec model.Record, at time.Time) error {
	switch rec.Kind() {
	case model.KindWord:
		words, err := s.LoadWords(ctx)
		if err != nil {
			return err
		}
		if !stamp(words, rec.Key(), at) {
			return nil
		}
		return s.SaveWords(ctx, words)
	case model.KindNote:
		notes, err := s.LoadNotes(ctx)
		if err != nil {
			return err
		}
		if !stamp(notes, rec.Key(), at) {
			return nil
		}
		return s.SaveNotes(ctx, notes)
	default:
		return nil
	}
}

func stamp[R model.Record](records []R, key string, at time.Time) bool {
	found := false
	for _, r := range records {
		if r.Key() == key {
			r.Meta().LastReviewedAt = model.At(at)
			found = true
		}
	}
	return found
}
