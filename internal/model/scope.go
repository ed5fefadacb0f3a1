package model

import "fmt"

// Scope identifies an independent resumable review domain.
type Scope string

const (
	ScopeWords        Scope = "words"
	ScopeWordsWrong   Scope = "words-wrong-only"
	ScopeKanaHiragana Scope = "kana-hiragana"
	ScopeKanaKatakana Scope = "kana-katakana"
	ScopeKanaBoth     Scope = "kana-both"
)

var scopes = []Scope{ScopeWords, ScopeWordsWrong, ScopeKanaHiragana, ScopeKanaKatakana, ScopeKanaBoth}

// Scopes lists every known scope.
func Scopes() []Scope {
	return append([]Scope(nil), scopes...)
}

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, error) {
	for _, sc := range scopes {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown review scope %q", s)
}

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	_, err := ParseScope(string(s))
	return err == nil
}

// MistakeDomain returns the mistake book graded items of this scope belong to.
func (s Scope) MistakeDomain() MistakeDomain {
	switch s {
	case ScopeKanaHiragana, ScopeKanaKatakana, ScopeKanaBoth:
		return MistakesKana
	default:
		return MistakesWords
	}
}

// Label is a short human description for display.
func (s Scope) Label() string {
	switch s {
	case ScopeWords:
		return "all words"
	case ScopeWordsWrong:
		return "mistake book"
	case ScopeKanaHiragana:
		return "hiragana"
	case ScopeKanaKatakana:
		return "katakana"
	case ScopeKanaBoth:
		return "hiragana + katakana"
	default:
		return string(s)
	}
}
