package store

import (
	"fmt"

	"github.com/verte-zerg/benkyo/internal/model"
)

// Key names a storage slot.
type Key string

const (
	WordsKey      Key = "records/words"
	NotesKey      Key = "records/notes"
	DailyStatsKey Key = "stats/daily"
)

const (
	mistakesPrefix = "mistakes/"
	progressPrefix = "review-progress/"
)

// MistakesKey returns the slot of a mistake book.
func MistakesKey(domain model.MistakeDomain) (Key, error) {
	switch domain {
	case model.MistakesWords, model.MistakesKana:
		return Key(mistakesPrefix + string(domain)), nil
	default:
		return "", fmt.Errorf("unknown mistake book %q", domain)
	}
}

// ProgressKey returns the slot holding resumable progress for scope.
func ProgressKey(scope model.Scope) (Key, error) {
	if !scope.Valid() {
		return "", fmt.Errorf("unknown review scope %q", scope)
	}
	return Key(progressPrefix + string(scope)), nil
}
