package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/model"
)

var exportNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func TestWordsCSVFormat(t *testing.T) {
	words := []*model.WordRecord{
		{Base: model.Base{AddedAt: model.At(exportNow)}, Word: "食べる", Reading: "たべる", Meaning: `to "eat"`},
	}
	var buf bytes.Buffer
	require.NoError(t, WordsCSV(&buf, words))

	want := bom +
		`"word","reading","meaning","addedAt","lastReviewedAt"` + "\n" +
		`"食べる","たべる","to ""eat""","2024-06-01T08:00:00.000Z",""`
	assert.Equal(t, want, buf.String())
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{ writes int }

func (f *failingWriter) Write([]byte) (int, error) {
	f.writes++
	return 0, errDiskFull
}

func TestWordsCSVStopsOnWriteError(t *testing.T) {
	words := make([]*model.WordRecord, 0, 200)
	for i := 0; i < 200; i++ {
		words = append(words, &model.WordRecord{Word: fmt.Sprintf("word-%d", i), Reading: strings.Repeat("よ", 20)})
	}
	w := &failingWriter{}
	err := WordsCSV(w, words)
	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 1, w.writes)
}

func TestWordsCSVRoundTrip(t *testing.T) {
	words := []*model.WordRecord{
		{Word: "水", Reading: "みず", Meaning: "water, liquid"},
		{Word: "火", Reading: "ひ", Meaning: "say \"fire\"\nor flame"},
		{Word: "木", Reading: "き"},
	}
	var buf bytes.Buffer
	require.NoError(t, WordsCSV(&buf, words))

	got, err := importer.ParseWordsCSV(&buf, importer.Options{})
	require.NoError(t, err)
	require.Len(t, got, len(words))
	for i := range words {
		assert.Equal(t, words[i].Word, got[i].Word)
		assert.Equal(t, words[i].Reading, got[i].Reading)
		assert.Equal(t, words[i].Meaning, got[i].Meaning)
	}
}

func TestNotesJSONRoundTrip(t *testing.T) {
	notes := []*model.NoteRecord{{Title: "は", Content: "topic", Example: "私は<学生>です"}}
	var buf bytes.Buffer
	require.NoError(t, NotesJSON(&buf, notes))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {"))
	assert.Contains(t, buf.String(), "<学生>")

	got, err := importer.ParseNotesJSON(&buf, importer.Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "topic", got[0].Content)
}

func TestMistakesCSV(t *testing.T) {
	set := model.MistakeSet{
		"か": {Record: &model.KanaRecord{Kana: "か", Roma: "ka"}},
		"水": {Record: &model.WordRecord{Word: "水", Reading: "みず", Meaning: "water"}},
	}
	var buf bytes.Buffer
	require.NoError(t, MistakesCSV(&buf, set))
	lines := strings.Split(strings.TrimPrefix(buf.String(), bom), "\n")
	assert.Equal(t, []string{
		`"kind","key","answer","detail"`,
		`"kana","か","ka",""`,
		`"word","水","みず","water"`,
	}, lines)
}

func TestBackupRestoresThroughImporter(t *testing.T) {
	words := []*model.WordRecord{{Word: "水", Reading: "みず"}}
	mistakes := model.MistakeSet{
		"水": {Record: words[0]},
		"か": {Record: &model.KanaRecord{Kana: "か", Roma: "ka"}},
	}
	stats := model.DailyStats{"2024-06-01": {Total: 2, Correct: 1}}

	b := NewBackup(words, mistakes, stats, exportNow)
	assert.Len(t, b.WrongBook, 1, "only word mistakes are backed up")

	var buf bytes.Buffer
	require.NoError(t, Backup(&buf, b))
	parsed, err := importer.ParseBackup(&buf)
	require.NoError(t, err)
	assert.Equal(t, exportNow, parsed.ExportedAt.UTC())
	assert.Equal(t, "みず", parsed.WrongBook["水"].Reading)
	assert.Equal(t, stats, parsed.DailyStats)
}

func TestEmptyCollections(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WordsCSV(&buf, nil), ErrNothingToExport)
	assert.ErrorIs(t, NotesCSV(&buf, nil), ErrNothingToExport)
	assert.ErrorIs(t, MistakesCSV(&buf, nil), ErrNothingToExport)
	assert.ErrorIs(t, WordsJSON(&buf, nil), ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "jp_words_2024-06-01.csv", FileName("words", "csv", exportNow))
}
