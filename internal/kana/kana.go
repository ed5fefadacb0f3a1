// Package kana holds the built-in hiragana and katakana tables.
package kana

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/benkyo/internal/model"
)

// Mode selects which table a drill is built from.
type Mode string

const (
	Hiragana Mode = "hiragana"
	Katakana Mode = "katakana"
	Both     Mode = "both"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Hiragana:
		return Hiragana, nil
	case Katakana:
		return Katakana, nil
	case Both:
		return Both, nil
	default:
		return "", fmt.Errorf("unknown kana mode %q (want hiragana, katakana or both)", s)
	}
}

// Scope returns the review scope a drill in this mode persists under.
func (m Mode) Scope() model.Scope {
	switch m {
	case Katakana:
		return model.ScopeKanaKatakana
	case Both:
		return model.ScopeKanaBoth
	default:
		return model.ScopeKanaHiragana
	}
}

// Cell is one slot of the gojūon grid. Empty slots have no glyph.
type Cell struct {
	Hira string
	Kata string
	Roma string
}

// Empty reports whether the slot is unused.
func (c Cell) Empty() bool {
	return c.Hira == ""
}

// Columns and Rows label the grid.
var (
	Columns = []string{"a", "i", "u", "e", "o"}
	Rows    = []string{"あ", "か", "さ", "た", "な", "は", "ま", "や", "ら", "わ", "ん"}
)

var grid = [][]Cell{
	{{"あ", "ア", "a"}, {"い", "イ", "i"}, {"う", "ウ", "u"}, {"え", "エ", "e"}, {"お", "オ", "o"}},
	{{"か", "カ", "ka"}, {"き", "キ", "ki"}, {"く", "ク", "ku"}, {"け", "ケ", "ke"}, {"こ", "コ", "ko"}},
	{{"さ", "サ", "sa"}, {"し", "シ", "shi"}, {"す", "ス", "su"}, {"せ", "セ", "se"}, {"そ", "ソ", "so"}},
	{{"た", "タ", "ta"}, {"ち", "チ", "chi"}, {"つ", "ツ", "tsu"}, {"て", "テ", "te"}, {"と", "ト", "to"}},
	{{"な", "ナ", "na"}, {"に", "ニ", "ni"}, {"ぬ", "ヌ", "nu"}, {"ね", "ネ", "ne"}, {"の", "ノ", "no"}},
	{{"は", "ハ", "ha"}, {"ひ", "ヒ", "hi"}, {"ふ", "フ", "fu"}, {"へ", "ヘ", "he"}, {"ほ", "ホ", "ho"}},
	{{"ま", "マ", "ma"}, {"み", "ミ", "mi"}, {"む", "ム", "mu"}, {"め", "メ", "me"}, {"も", "モ", "mo"}},
	{{"や", "ヤ", "ya"}, {}, {"ゆ", "ユ", "yu"}, {}, {"よ", "ヨ", "yo"}},
	{{"ら", "ラ", "ra"}, {"り", "リ", "ri"}, {"る", "ル", "ru"}, {"れ", "レ", "re"}, {"ろ", "ロ", "ro"}},
	{{"わ", "ワ", "wa"}, {}, {}, {}, {"を", "ヲ", "wo"}},
	{{"ん", "ン", "n"}, {}, {}, {}, {}},
}

// Grid returns a copy of the gojūon table.
func Grid() [][]Cell {
	out := make([][]Cell, len(grid))
	for i, row := range grid {
		out[i] = append([]Cell(nil), row...)
	}
	return out
}

// Glyph renders a cell for a mode.
func (c Cell) Glyph(m Mode) string {
	if c.Empty() {
		return ""
	}
	switch m {
	case Katakana:
		return c.Kata
	case Both:
		return c.Hira + " / " + c.Kata
	default:
		return c.Hira
	}
}

// Pool flattens the grid row by row into quiz records for a mode.
func Pool(m Mode) []*model.KanaRecord {
	var out []*model.KanaRecord
	for _, row := range grid {
		for _, c := range row {
			if c.Empty() {
				continue
			}
			out = append(out, &model.KanaRecord{Kana: c.Glyph(m), Roma: c.Roma})
		}
	}
	return out
}

// IndexOf returns the position of glyph in the mode's pool. In the combined
// mode either the hiragana or the katakana form matches.
func IndexOf(m Mode, glyph string) (int, bool) {
	glyph = strings.TrimSpace(glyph)
	if glyph == "" {
		return 0, false
	}
	i := 0
	for _, row := range grid {
		for _, c := range row {
			if c.Empty() {
				continue
			}
			if c.Glyph(m) == glyph || (m == Both && (c.Hira == glyph || c.Kata == glyph)) {
				return i, true
			}
			i++
		}
	}
	return 0, false
}
