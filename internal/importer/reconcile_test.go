package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/benkyo/internal/model"
)

func word(key, reading string) *model.WordRecord {
	return &model.WordRecord{Word: key, Reading: reading}
}

func keys[R model.Record](records []R) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key()
	}
	return out
}

func TestPartition(t *testing.T) {
	existing := []*model.WordRecord{word("a", "0"), word("b", "0")}
	batch := []*model.WordRecord{word("c", "1"), word("a", "1"), word("d", "1"), word("c", "2")}

	uniques, duplicates := Partition(batch, existing)
	assert.Equal(t, []string{"c", "d"}, keys(uniques))
	assert.Equal(t, []string{"a", "c"}, keys(duplicates))
	assert.Len(t, batch, len(uniques)+len(duplicates))

	seen := map[string]bool{}
	for _, r := range existing {
		seen[r.Key()] = true
	}
	for _, u := range uniques {
		assert.False(t, seen[u.Key()], "unique %q collides", u.Key())
		seen[u.Key()] = true
	}
}

func TestPartitionEmpty(t *testing.T) {
	uniques, duplicates := Partition[*model.WordRecord](nil, []*model.WordRecord{word("a", "0")})
	assert.Empty(t, uniques)
	assert.Empty(t, duplicates)
}

func TestMergeUniquesPreservesExisting(t *testing.T) {
	existing := []*model.WordRecord{word("a", "0"), word("b", "0")}
	merged := MergeUniques(existing, []*model.WordRecord{word("c", "1")})

	assert.Equal(t, []string{"c", "a", "b"}, keys(merged))
	assert.Equal(t, []string{"a", "b"}, keys(existing))
	for _, r := range existing {
		assert.Contains(t, merged, r)
	}
}

func TestScenarioSkipKeepsExisting(t *testing.T) {
	existing := []*model.WordRecord{word("x", "0")}
	rec := New(existing, []*model.WordRecord{word("x", "1")})

	require.Equal(t, 1, rec.Remaining())
	cand, cur, ok := rec.Pending()
	require.True(t, ok)
	assert.Equal(t, "1", cand.Reading)
	assert.Equal(t, "0", cur.Reading)

	require.NoError(t, rec.DecideOne(Skip))
	assert.True(t, rec.Done())
	got := rec.Records()
	require.Len(t, got, 1)
	assert.Equal(t, "0", got[0].Reading)
	assert.Equal(t, Summary{Skipped: 1}, rec.Summary())
}

func TestScenarioCoverReplaces(t *testing.T) {
	existing := []*model.WordRecord{word("w", "0"), word("x", "0")}
	rec := New(existing, []*model.WordRecord{word("x", "1")})

	require.NoError(t, rec.DecideOne(Cover))
	got := rec.Records()
	assert.Equal(t, []string{"w", "x"}, keys(got))
	assert.Equal(t, "1", got[1].Reading)
	assert.Equal(t, "0", existing[1].Reading)
	assert.Equal(t, Summary{Covered: 1}, rec.Summary())
}

func TestUniquesMergedOnConstruction(t *testing.T) {
	rec := New([]*model.WordRecord{word("a", "0")}, []*model.WordRecord{word("b", "1"), word("a", "1")})
	assert.Equal(t, []string{"b", "a"}, keys(rec.Records()))
	assert.Equal(t, 1, rec.Summary().Added)
	assert.False(t, rec.Done())
}

func TestDecideAll(t *testing.T) {
	existing := []*model.WordRecord{word("a", "0"), word("b", "0"), word("c", "0")}
	batch := []*model.WordRecord{word("a", "1"), word("b", "1"), word("c", "1")}

	t.Run("cover all after one skip", func(t *testing.T) {
		rec := New(existing, batch)
		require.NoError(t, rec.DecideOne(Skip))
		require.NoError(t, rec.Decide(CoverAll))
		got := rec.Records()
		assert.Equal(t, []string{"0", "1", "1"}, []string{got[0].Reading, got[1].Reading, got[2].Reading})
		assert.Equal(t, Summary{Covered: 2, Skipped: 1}, rec.Summary())
	})

	t.Run("skip all", func(t *testing.T) {
		rec := New(existing, batch)
		require.NoError(t, rec.Decide(SkipAll))
		assert.True(t, rec.Done())
		assert.Equal(t, Summary{Skipped: 3}, rec.Summary())
		for _, r := range rec.Records() {
			assert.Equal(t, "0", r.Reading)
		}
	})
}

func TestDecideAfterResolved(t *testing.T) {
	rec := New([]*model.WordRecord{word("a", "0")}, []*model.WordRecord{word("b", "1")})
	assert.True(t, rec.Done())
	assert.ErrorIs(t, rec.DecideOne(Cover), ErrResolved)
	assert.ErrorIs(t, rec.DecideAll(SkipAll), ErrResolved)

	_, _, ok := rec.Pending()
	assert.False(t, ok)
}

func TestDecideRejectsWrongGranularity(t *testing.T) {
	rec := New([]*model.WordRecord{word("a", "0")}, []*model.WordRecord{word("a", "1")})
	assert.Error(t, rec.DecideOne(CoverAll))
	assert.Error(t, rec.DecideAll(Skip))
	assert.Equal(t, 1, rec.Remaining())
}

func TestInBatchRepeatCoversFirstOccurrence(t *testing.T) {
	rec := New(nil, []*model.WordRecord{word("a", "1"), word("a", "2")})
	require.Equal(t, 1, rec.Remaining())
	require.NoError(t, rec.DecideOne(Cover))
	got := rec.Records()
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].Reading)
}

func TestParseResolution(t *testing.T) {
	for _, r := range []Resolution{Cover, Skip, CoverAll, SkipAll} {
		got, err := ParseResolution(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseResolution("maybe")
	assert.Error(t, err)
}
