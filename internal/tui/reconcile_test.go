package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/model"
)

func words(pairs ...string) []*model.WordRecord {
	var out []*model.WordRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, &model.WordRecord{Word: pairs[i], Reading: pairs[i+1]})
	}
	return out
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReconcileKeys(t *testing.T) {
	rec := importer.New(words("a", "0", "b", "0", "c", "0"), words("a", "1", "b", "1", "c", "1"))
	m := NewReconcile(rec)

	assert.Contains(t, m.View(), "Duplicate 1/3: a")
	_, cmd := m.Update(key("c"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Duplicate 2/3: b")

	m.Update(key("x"))
	assert.Equal(t, 2, rec.Remaining())

	_, cmd = m.Update(key("S"))
	assert.NotNil(t, cmd)
	assert.True(t, rec.Done())
	assert.False(t, m.Aborted())
	assert.Equal(t, importer.Summary{Covered: 1, Skipped: 2}, rec.Summary())
}

func TestReconcileAbort(t *testing.T) {
	rec := importer.New(words("a", "0"), words("a", "1"))
	m := NewReconcile(rec)
	m.Update(key("q"))
	assert.True(t, m.Aborted())
}

func TestReconcileNothingPending(t *testing.T) {
	rec := importer.New(nil, words("a", "1"))
	m := NewReconcile(rec)
	assert.NotNil(t, m.Init())
	assert.Empty(t, m.View())
}

func TestCompareFieldsMarksChanges(t *testing.T) {
	out := compareFields(
		&model.WordRecord{Word: "水", Reading: "みず", Meaning: "water"},
		&model.WordRecord{Word: "水", Reading: "すい", Meaning: "water"},
	)
	require.Contains(t, out, "*reading")
	assert.NotContains(t, out, "*meaning")
	assert.Contains(t, out, "すい")
}
