package tui

import "github.com/verte-zerg/benkyo/internal/model"

type field struct {
	label string
	value string
}

// fields lists a record's user-facing attributes, key first.
func fields(rec model.Record) []field {
	switch r := rec.(type) {
	case *model.WordRecord:
		return []field{{"word", r.Word}, {"reading", r.Reading}, {"meaning", r.Meaning}}
	case *model.NoteRecord:
		return []field{{"title", r.Title}, {"content", r.Content}, {"example", r.Example}}
	case *model.KanaRecord:
		return []field{{"kana", r.Kana}, {"romaji", r.Roma}}
	default:
		return []field{{"key", rec.Key()}, {"answer", rec.Answer()}}
	}
}

// extra returns the attribute shown after grading besides the answer.
func extra(rec model.Record) field {
	switch r := rec.(type) {
	case *model.WordRecord:
		return field{"meaning", r.Meaning}
	case *model.NoteRecord:
		return field{"example", r.Example}
	default:
		return field{}
	}
}

// Columns returns the list headers for records of kind.
func Columns(kind model.Kind) []string {
	var rec model.Record
	switch kind {
	case model.KindNote:
		rec = &model.NoteRecord{}
	case model.KindKana:
		rec = &model.KanaRecord{}
	default:
		rec = &model.WordRecord{}
	}
	fs := fields(rec)
	cols := make([]string, 0, len(fs)+1)
	for _, f := range fs {
		cols = append(cols, f.label)
	}
	return append(cols, "last reviewed")
}

// Row returns the list cells for rec in Columns order.
func Row(rec model.Record) []string {
	fs := fields(rec)
	row := make([]string, 0, len(fs)+1)
	for _, f := range fs {
		row = append(row, f.value)
	}
	last := rec.Meta().LastReviewedAt
	if last.IsZero() {
		return append(row, "-")
	}
	return append(row, model.DayKey(last.Time))
}
