package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildDiffRunes styles expected against answer position by position. Runes
// the answer got right are marked correct, wrong ones incorrect and the part
// the answer never reached pending. Surplus answer runes are appended struck
// through.
func buildDiffRunes(expected, answer []rune) []styledRune {
	out := make([]styledRune, 0, max(len(expected), len(answer)))
	for i, target := range expected {
		style := pendingStyle
		if i < len(answer) {
			if answer[i] == target {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		}
		out = append(out, styledRune{
			s:       style.Render(string(target)),
			width:   runewidth.RuneWidth(target),
			isSpace: target == ' ',
		})
	}
	for _, extra := range answer[min(len(answer), len(expected)):] {
		out = append(out, styledRune{
			s:       surplusStyle.Render(string(extra)),
			width:   runewidth.RuneWidth(extra),
			isSpace: extra == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, or mid-word when
// a line has none. Wide runes count as two cells.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// wrapText wraps plain text to width cells.
func wrapText(s string, width int) string {
	runes := []rune(s)
	items := make([]styledRune, len(runes))
	for i, r := range runes {
		items[i] = styledRune{s: string(r), width: runewidth.RuneWidth(r), isSpace: r == ' '}
	}
	return wrapStyledRunes(items, width)
}
