package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/benkyo/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "benkyo.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSlotLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, ok, err := st.Get(ctx, WordsKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Put(ctx, WordsKey, []byte(`[]`)))
	require.NoError(t, st.Put(ctx, WordsKey, []byte(`[{"word":"a"}]`)))
	raw, ok, err := st.Get(ctx, WordsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"word":"a"}]`, string(raw))

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Key{WordsKey}, keys)

	require.NoError(t, st.Delete(ctx, WordsKey))
	require.NoError(t, st.Delete(ctx, WordsKey))
	_, ok, err = st.Get(ctx, WordsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWordsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	words, err := st.LoadWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, words)

	added := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	in := []*model.WordRecord{
		{Base: model.Base{ID: "1", AddedAt: model.At(added)}, Word: "猫", Reading: "ねこ", Meaning: "cat"},
	}
	require.NoError(t, st.SaveWords(ctx, in))

	out, err := st.LoadWords(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ねこ", out[0].Reading)
	assert.True(t, out[0].AddedAt.Equal(added))
	assert.True(t, out[0].LastReviewedAt.IsZero())
}

func TestMistakeBooksAreIndependent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	words := model.MistakeSet{"猫": {Record: &model.WordRecord{Word: "猫", Reading: "ねこ"}}}
	require.NoError(t, st.SaveMistakes(ctx, model.MistakesWords, words))

	kana, err := st.LoadMistakes(ctx, model.MistakesKana)
	require.NoError(t, err)
	assert.Empty(t, kana)

	loaded, err := st.LoadMistakes(ctx, model.MistakesWords)
	require.NoError(t, err)
	require.Contains(t, loaded, "猫")
	assert.Equal(t, model.KindWord, loaded["猫"].Kind())

	_, err = st.LoadMistakes(ctx, model.MistakeDomain("notes"))
	assert.Error(t, err)
}

func TestProgressIsKeyedByScope(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	state := model.SessionState{
		Items: model.Items([]*model.KanaRecord{{Kana: "あ", Roma: "a"}, {Kana: "い", Roma: "i"}}),
		Index: 1,
		Scope: model.ScopeKanaHiragana,
	}
	require.NoError(t, st.SaveProgress(ctx, state))

	_, ok, err := st.LoadProgress(ctx, model.ScopeKanaKatakana)
	require.NoError(t, err)
	assert.False(t, ok)

	loaded, ok, err := st.LoadProgress(ctx, model.ScopeKanaHiragana)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, loaded.Index)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "い", loaded.Items[1].Key())

	require.NoError(t, st.ClearProgress(ctx, model.ScopeKanaHiragana))
	_, ok, err = st.LoadProgress(ctx, model.ScopeKanaHiragana)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptProgressIsAbsent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	key, err := ProgressKey(model.ScopeWords)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, key, []byte(`{"items": 3`)))

	_, ok, err := st.LoadProgress(ctx, model.ScopeWords)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgressWithNullItemIsAbsent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	key, err := ProgressKey(model.ScopeWords)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, key, []byte(`{"items":[null],"index":0,"scope":"words"}`)))

	_, ok, err := st.LoadProgress(ctx, model.ScopeWords)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNullEntriesAreDropped(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	water := model.Item{Record: &model.WordRecord{Word: "水", Reading: "みず"}}
	book, err := json.Marshal(map[string]any{"水": water, "火": nil})
	require.NoError(t, err)
	key, err := MistakesKey(model.MistakesWords)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, key, book))

	set, err := st.LoadMistakes(ctx, model.MistakesWords)
	require.NoError(t, err)
	assert.Len(t, set, 1)
	assert.Contains(t, set, "水")

	require.NoError(t, st.Put(ctx, WordsKey, []byte(`[null,{"word":"水","reading":"みず"}]`)))
	words, err := st.LoadWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "水", words[0].Word)

	require.NoError(t, st.Put(ctx, NotesKey, []byte(`[null]`)))
	notes, err := st.LoadNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestProgressKeyRejectsUnknownScope(t *testing.T) {
	_, err := ProgressKey(model.Scope("words "))
	assert.Error(t, err)

	a, err := ProgressKey(model.ScopeWords)
	require.NoError(t, err)
	b, err := ProgressKey(model.ScopeWordsWrong)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestMarkReviewed(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveWords(ctx, []*model.WordRecord{
		{Word: "猫", Reading: "ねこ"},
		{Word: "犬", Reading: "いぬ"},
	}))
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.MarkReviewed(ctx, &model.WordRecord{Word: "犬"}, at))
	require.NoError(t, st.MarkReviewed(ctx, &model.KanaRecord{Kana: "あ"}, at))

	words, err := st.LoadWords(ctx)
	require.NoError(t, err)
	assert.True(t, words[0].LastReviewedAt.IsZero())
	assert.True(t, words[1].LastReviewedAt.Equal(at))
}

func TestDailyStatsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	stats, err := st.LoadDailyStats(ctx)
	require.NoError(t, err)
	stats.Record(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, st.SaveDailyStats(ctx, stats))

	loaded, err := st.LoadDailyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DayStats{Total: 1, Correct: 1}, loaded["2024-06-01"])
}
