package importer

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/verte-zerg/benkyo/internal/model"
)

// ParseBackup reads a full backup envelope. The root must be an object; a
// backup carrying no words, mistakes or stats is an empty batch.
func ParseBackup(r io.Reader) (*model.Backup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if !IsBackup(data) {
		return nil, malformed("backup root is not an object")
	}
	var b model.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, malformed("%v", err)
	}
	if len(b.Words) == 0 && len(b.WrongBook) == 0 && len(b.DailyStats) == 0 {
		return nil, ErrEmptyBatch
	}
	return &b, nil
}

// Restored is the outcome of merging a backup into local state.
type Restored struct {
	Words      []*model.WordRecord
	Mistakes   model.MistakeSet
	DailyStats model.DailyStats

	Added      int
	Duplicates int
}

// Restore merges a backup into the current collections. Backup words get
// fresh ids and only words whose key is new are added; the wrong book and
// daily counters are merged per key with the backup taking precedence.
// None of the inputs are modified.
func Restore(words []*model.WordRecord, mistakes model.MistakeSet, stats model.DailyStats, b *model.Backup, opts Options) Restored {
	opts = opts.withDefaults()

	var batch []*model.WordRecord
	for _, w := range b.Words {
		if w == nil {
			continue
		}
		cp := *w
		if cleaned, ok := cleanWord(&cp, opts); ok {
			batch = append(batch, cleaned)
		}
	}
	uniques, duplicates := Partition(batch, words)

	mergedMistakes := make(model.MistakeSet, len(mistakes)+len(b.WrongBook))
	for k, v := range mistakes {
		mergedMistakes[k] = v
	}
	for k, w := range b.WrongBook {
		if w == nil {
			continue
		}
		cp := *w
		mergedMistakes[k] = model.Item{Record: &cp}
	}

	mergedStats := make(model.DailyStats, len(stats)+len(b.DailyStats))
	for day, v := range stats {
		mergedStats[day] = v
	}
	for day, v := range b.DailyStats {
		mergedStats[day] = v
	}

	return Restored{
		Words:      MergeUniques(words, uniques),
		Mistakes:   mergedMistakes,
		DailyStats: mergedStats,
		Added:      len(uniques),
		Duplicates: len(duplicates),
	}
}
