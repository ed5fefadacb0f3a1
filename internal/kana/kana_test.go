package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/benkyo/internal/model"
)

func TestPoolSizes(t *testing.T) {
	for _, m := range []Mode{Hiragana, Katakana, Both} {
		pool := Pool(m)
		assert.Len(t, pool, 46, m)
		seen := map[string]bool{}
		for _, rec := range pool {
			assert.NotEmpty(t, rec.Roma)
			assert.False(t, seen[rec.Key()], "duplicate glyph %s", rec.Key())
			seen[rec.Key()] = true
		}
	}
}

func TestPoolGlyphs(t *testing.T) {
	assert.Equal(t, "し", Pool(Hiragana)[11].Kana)
	assert.Equal(t, "shi", Pool(Hiragana)[11].Roma)
	assert.Equal(t, "シ", Pool(Katakana)[11].Kana)
	assert.Equal(t, "し / シ", Pool(Both)[11].Kana)
	assert.Equal(t, "ん", Pool(Hiragana)[45].Kana)
}

func TestIndexOf(t *testing.T) {
	idx, ok := IndexOf(Hiragana, "や")
	require.True(t, ok)
	assert.Equal(t, "や", Pool(Hiragana)[idx].Kana)

	idx, ok = IndexOf(Both, "ヲ")
	require.True(t, ok)
	assert.Equal(t, "を / ヲ", Pool(Both)[idx].Kana)

	_, ok = IndexOf(Katakana, "あ")
	assert.False(t, ok)
	_, ok = IndexOf(Hiragana, "")
	assert.False(t, ok)
}

func TestModeScope(t *testing.T) {
	mode, err := ParseMode(" Katakana ")
	require.NoError(t, err)
	assert.Equal(t, model.ScopeKanaKatakana, mode.Scope())
	assert.Equal(t, model.ScopeKanaBoth, Both.Scope())
	_, err = ParseMode("romaji")
	assert.Error(t, err)
}
