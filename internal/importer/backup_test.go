package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/benkyo/internal/model"
)

const sampleBackup = `{
  "exportedAt": "2024-06-01T08:00:00.000Z",
  "words": [
    {"id": "b1", "word": "水", "reading": "みず", "meaning": "water", "addedAt": "2024-01-01T00:00:00.000Z", "lastReviewedAt": ""},
    {"id": "b2", "word": "火", "reading": "ひ", "meaning": "fire", "addedAt": "2024-01-01T00:00:00.000Z", "lastReviewedAt": ""}
  ],
  "wrongBook": {
    "水": {"id": "b1", "word": "水", "reading": "みず", "meaning": "water", "addedAt": "", "lastReviewedAt": ""}
  },
  "dailyStats": {
    "2024-05-31": {"total": 10, "correct": 7}
  }
}`

func TestParseBackup(t *testing.T) {
	b, err := ParseBackup(strings.NewReader(sampleBackup))
	require.NoError(t, err)
	assert.Len(t, b.Words, 2)
	assert.Contains(t, b.WrongBook, "水")
	assert.Equal(t, model.DayStats{Total: 10, Correct: 7}, b.DailyStats["2024-05-31"])
}

func TestParseBackupErrors(t *testing.T) {
	_, err := ParseBackup(strings.NewReader(`[]`))
	assert.ErrorIs(t, err, ErrMalformedImport)

	_, err = ParseBackup(strings.NewReader(`{"words": [`))
	assert.ErrorIs(t, err, ErrMalformedImport)

	_, err = ParseBackup(strings.NewReader(`{"exportedAt": ""}`))
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestRestoreNeverDuplicatesKeys(t *testing.T) {
	b, err := ParseBackup(strings.NewReader(sampleBackup))
	require.NoError(t, err)

	words := []*model.WordRecord{{Base: model.Base{ID: "local"}, Word: "水", Reading: "すい"}}
	mistakes := model.MistakeSet{"木": {Record: &model.WordRecord{Word: "木", Reading: "き"}}}
	stats := model.DailyStats{
		"2024-05-31": {Total: 1, Correct: 1},
		"2024-05-30": {Total: 3, Correct: 2},
	}

	got := Restore(words, mistakes, stats, b, testOptions())
	assert.Equal(t, 1, got.Added)
	assert.Equal(t, 1, got.Duplicates)

	seen := map[string]int{}
	for _, w := range got.Words {
		seen[w.Word]++
	}
	assert.Equal(t, map[string]int{"水": 1, "火": 1}, seen)
	assert.Equal(t, "火", got.Words[0].Word)
	assert.Equal(t, "id-2", got.Words[0].ID)
	assert.Equal(t, "すい", got.Words[1].Reading, "local word wins on restore")

	assert.Len(t, got.Mistakes, 2)
	assert.Equal(t, "みず", got.Mistakes["水"].Answer())

	assert.Equal(t, model.DayStats{Total: 10, Correct: 7}, got.DailyStats["2024-05-31"])
	assert.Equal(t, model.DayStats{Total: 3, Correct: 2}, got.DailyStats["2024-05-30"])

	assert.Len(t, words, 1)
	assert.Len(t, mistakes, 1)
	assert.Equal(t, "b1", b.Words[0].ID)
}
