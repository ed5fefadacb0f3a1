package library

import (
	"context"
	"fmt"

	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/model"
)

// BeginWordImport reconciles batch against the stored words and saves the
// words with new keys at once. Duplicates wait for CommitWords.
func (l *Library) BeginWordImport(ctx context.Context, batch []*model.WordRecord) (*importer.Reconciler[*model.WordRecord], error) {
	words, err := l.store.LoadWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	rec := importer.New(words, batch)
	if rec.Summary().Added > 0 {
		if err := l.store.SaveWords(ctx, rec.Records()); err != nil {
			return nil, fmt.Errorf("save words: %w", err)
		}
	}
	return rec, nil
}

// CommitWords stores the reconciled words and refreshes mistake book entries
// of covered words.
func (l *Library) CommitWords(ctx context.Context, rec *importer.Reconciler[*model.WordRecord]) error {
	words := rec.Records()
	if err := l.store.SaveWords(ctx, words); err != nil {
		return fmt.Errorf("save words: %w", err)
	}
	return l.syncMistakes(ctx, words)
}

// BeginNoteImport reconciles batch against the stored notes and saves the
// notes with new titles at once.
func (l *Library) BeginNoteImport(ctx context.Context, batch []*model.NoteRecord) (*importer.Reconciler[*model.NoteRecord], error) {
	notes, err := l.store.LoadNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	rec := importer.New(notes, batch)
	if rec.Summary().Added > 0 {
		if err := l.store.SaveNotes(ctx, rec.Records()); err != nil {
			return nil, fmt.Errorf("save notes: %w", err)
		}
	}
	return rec, nil
}

// CommitNotes stores the reconciled notes.
func (l *Library) CommitNotes(ctx context.Context, rec *importer.Reconciler[*model.NoteRecord]) error {
	if err := l.store.SaveNotes(ctx, rec.Records()); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

// Restore merges a backup into the stored words, word mistake book and daily
// counters.
func (l *Library) Restore(ctx context.Context, b *model.Backup) (importer.Restored, error) {
	words, err := l.store.LoadWords(ctx)
	if err != nil {
		return importer.Restored{}, fmt.Errorf("load words: %w", err)
	}
	mistakes, err := l.store.LoadMistakes(ctx, model.MistakesWords)
	if err != nil {
		return importer.Restored{}, fmt.Errorf("load mistakes: %w", err)
	}
	stats, err := l.store.LoadDailyStats(ctx)
	if err != nil {
		return importer.Restored{}, fmt.Errorf("load daily stats: %w", err)
	}
	out := importer.Restore(words, mistakes, stats, b, l.ImportOptions())
	if err := l.store.SaveWords(ctx, out.Words); err != nil {
		return out, fmt.Errorf("save words: %w", err)
	}
	if err := l.store.SaveMistakes(ctx, model.MistakesWords, out.Mistakes); err != nil {
		return out, fmt.Errorf("save mistakes: %w", err)
	}
	if err := l.store.SaveDailyStats(ctx, out.DailyStats); err != nil {
		return out, fmt.Errorf("save daily stats: %w", err)
	}
	return out, nil
}

// Backup gathers the collections written to a full backup file.
func (l *Library) Backup(ctx context.Context) ([]*model.WordRecord, model.MistakeSet, model.DailyStats, error) {
	words, err := l.store.LoadWords(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load words: %w", err)
	}
	mistakes, err := l.store.LoadMistakes(ctx, model.MistakesWords)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load mistakes: %w", err)
	}
	stats, err := l.store.LoadDailyStats(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load daily stats: %w", err)
	}
	return words, mistakes, stats, nil
}
