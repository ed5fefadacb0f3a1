// Package grade compares free-text answers against expected answers.
package grade

import "strings"

// Result is the outcome of grading one answer.
type Result int

const (
	Wrong Result = iota
	Similar
	Exact
)

func (r Result) String() string {
	switch r {
	case Exact:
		return "exact"
	case Similar:
		return "similar"
	default:
		return "wrong"
	}
}

// Correct reports whether the result counts as a correct answer.
func (r Result) Correct() bool {
	return r == Exact
}

var punctuation = strings.NewReplacer(
	".", "",
	",", "",
	"!", "",
	"。", "",
	"，", "",
	"！", "",
)

// Normalize trims, lowercases and strips sentence-ending punctuation.
func Normalize(s string) string {
	return punctuation.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Compare grades answer against expected. Similar means one normalized
// string contains the other; an empty answer is always Wrong.
func Compare(answer, expected string) Result {
	user := Normalize(answer)
	want := Normalize(expected)
	if user == want {
		// An empty answer never counts, even against an empty expectation.
		if user == "" {
			return Wrong
		}
		return Exact
	}
	if user == "" {
		return Wrong
	}
	if strings.Contains(want, user) || strings.Contains(user, want) {
		return Similar
	}
	return Wrong
}
