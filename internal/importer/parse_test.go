package importer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func testOptions() Options {
	n := 0
	return Options{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time { return importNow },
	}
}

func TestParseWordsCSV(t *testing.T) {
	in := utf8BOM + "Word,Reading,Meaning,addedAt,lastReviewedAt\n" +
		"\"食べる\",\"たべる\",\"to eat\",\"2024-01-02T03:04:05.000Z\",\"\"\n" +
		"飲む,のむ,\"to drink, to swallow\",,\n" +
		",みる,to see,,\n" +
		"行く,,to go,,\n"

	words, err := ParseWordsCSV(strings.NewReader(in), testOptions())
	require.NoError(t, err)
	require.Len(t, words, 2)

	assert.Equal(t, "食べる", words[0].Word)
	assert.Equal(t, "たべる", words[0].Reading)
	assert.Equal(t, "id-1", words[0].ID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), words[0].AddedAt.UTC())
	assert.True(t, words[0].LastReviewedAt.IsZero())

	assert.Equal(t, "to drink, to swallow", words[1].Meaning)
	assert.Equal(t, importNow, words[1].AddedAt.Time)
}

func TestParseCSVHeaderOnlyIsEmptyBatch(t *testing.T) {
	_, err := ParseWordsCSV(strings.NewReader("word,reading,meaning\n"), testOptions())
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = ParseNotesCSV(strings.NewReader("title,content\n,\n,\n"), testOptions())
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestParseCSVMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing answer": "word,meaning\n食べる,to eat\n",
		"bad quoting":    "word,reading\n\"食べる,たべる\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWordsCSV(strings.NewReader(in), testOptions())
			assert.ErrorIs(t, err, ErrMalformedImport)
		})
	}
}

func TestParseNotesCSV(t *testing.T) {
	in := "title,content,example\n〜ている,progressive,\"食べている\"\n"
	notes, err := ParseNotesCSV(strings.NewReader(in), testOptions())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "〜ている", notes[0].Title)
	assert.Equal(t, "progressive", notes[0].Content)
	assert.Equal(t, "食べている", notes[0].Example)
	assert.Equal(t, importNow, notes[0].AddedAt.Time)
}

func TestParseNotesJSON(t *testing.T) {
	in := `[
  {"id": "old", "title": "は", "content": "topic", "example": "私は", "addedAt": ""},
  {"title": "", "content": "dropped"},
  {"title": "が", "content": "subject", "addedAt": "2023-05-01"}
]`
	notes, err := ParseNotesJSON(strings.NewReader(in), testOptions())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "id-1", notes[0].ID)
	assert.Equal(t, importNow, notes[0].AddedAt.Time)
	assert.Equal(t, "が", notes[1].Title)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), notes[1].AddedAt.UTC())
}

func TestParseJSONErrors(t *testing.T) {
	_, err := ParseNotesJSON(strings.NewReader(`{"title":"x"}`), testOptions())
	assert.ErrorIs(t, err, ErrMalformedImport)

	_, err = ParseWordsJSON(strings.NewReader(`[{"word":`), testOptions())
	assert.ErrorIs(t, err, ErrMalformedImport)

	_, err = ParseWordsJSON(strings.NewReader(`[]`), testOptions())
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = ParseWordsJSON(strings.NewReader(`[{"word":"x","reading":""}]`), testOptions())
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestIsBackup(t *testing.T) {
	assert.True(t, IsBackup([]byte("  {\"words\": []}")))
	assert.True(t, IsBackup([]byte(utf8BOM+"{}")))
	assert.False(t, IsBackup([]byte("[]")))
	assert.False(t, IsBackup(nil))
}
