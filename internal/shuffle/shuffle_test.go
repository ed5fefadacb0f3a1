package shuffle

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/benkyo/internal/model"
)

func kanaItems(glyphs ...string) []model.Item {
	recs := make([]*model.KanaRecord, len(glyphs))
	for i, g := range glyphs {
		recs[i] = &model.KanaRecord{Kana: g}
	}
	return model.Items(recs)
}

func keys(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}

func TestShuffleIsPermutation(t *testing.T) {
	g := NewSeeded(42)
	for n := 0; n < 20; n++ {
		glyphs := make([]string, n)
		for i := range glyphs {
			glyphs[i] = string(rune('a' + i))
		}
		items := kanaItems(glyphs...)
		g.Shuffle(items)
		got := keys(items)
		sort.Strings(got)
		assert.Equal(t, glyphs, got)
	}
}

func TestShuffleMovesItems(t *testing.T) {
	g := NewSeeded(7)
	in := []string{"あ", "い", "う", "え", "お", "か", "き", "く", "け", "こ"}
	moved := false
	for attempt := 0; attempt < 5 && !moved; attempt++ {
		items := kanaItems(in...)
		g.Shuffle(items)
		moved = !assert.ObjectsAreEqual(in, keys(items))
	}
	assert.True(t, moved, "expected at least one non-identity permutation")
}

func TestIdentity(t *testing.T) {
	items := kanaItems("あ", "い")
	Identity(items)
	assert.Equal(t, []string{"あ", "い"}, keys(items))
}
