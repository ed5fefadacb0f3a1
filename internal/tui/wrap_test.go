package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDiffRunesMarksPositions(t *testing.T) {
	runes := buildDiffRunes([]rune("たべる"), []rune("たへ"))
	require.Len(t, runes, 3)
	assert.Equal(t, correctStyle.Render("た"), runes[0].s)
	assert.Equal(t, incorrectStyle.Render("べ"), runes[1].s)
	assert.Equal(t, pendingStyle.Render("る"), runes[2].s)
	assert.Equal(t, 2, runes[0].width)
}

func TestBuildDiffRunesSurplus(t *testing.T) {
	runes := buildDiffRunes([]rune("ka"), []rune("kaa"))
	require.Len(t, runes, 3)
	assert.Equal(t, correctStyle.Render("a"), runes[1].s)
	assert.Equal(t, surplusStyle.Render("a"), runes[2].s)
}

func TestBuildDiffRunesEmptyAnswer(t *testing.T) {
	runes := buildDiffRunes([]rune("shi"), nil)
	require.Len(t, runes, 3)
	assert.Equal(t, pendingStyle.Render("s"), runes[0].s)
	assert.Equal(t, pendingStyle.Render("i"), runes[2].s)
}

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "abcd\nef", wrapText("abcdef", 4))
	assert.Equal(t, "abc", wrapText("abc", 0))
}

func TestWrapTextCountsWideRunes(t *testing.T) {
	out := wrapText("食べる食べる", 6)
	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{"食べる", "食べる"}, lines)
}
