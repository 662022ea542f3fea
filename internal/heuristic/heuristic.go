// Package heuristic estimates a CEFR level for a single English word when no
// learned lexical score exists.
//
// The estimate is a curated exact-match lookup followed by a length rule.
// The length rule tops out at C1: C2 is never produced. That boundary is
// kept as-is and pinned by tests.
package heuristic

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ppiankov/cefrscope/internal/model"
)

var lower = cases.Lower(language.English)

// lengthBands maps an upper bound on rune length to a level, in ascending order
var lengthBands = []struct {
	maxLen int
	level  model.Level
}{
	{4, model.A1},
	{6, model.A2},
	{8, model.B1},
	{10, model.B2},
}

// WordLevel returns the heuristic level for word. It is total: every
// string, including the empty string, yields a level in A1..C1.
func WordLevel(word string) model.Level {
	w := lower.String(word)
	if _, ok := a1Words[w]; ok {
		return model.A1
	}
	if _, ok := a2Words[w]; ok {
		return model.A2
	}

	n := utf8.RuneCountInString(w)
	for _, band := range lengthBands {
		if n <= band.maxLen {
			return band.level
		}
	}
	return model.C1
}

// WordScore is WordLevel as a numeric level
func WordScore(word string) float64 {
	return WordLevel(word).Value()
}

// IsCurated reports whether word is in one of the curated sets
func IsCurated(word string) bool {
	w := lower.String(word)
	_, inA1 := a1Words[w]
	_, inA2 := a2Words[w]
	return inA1 || inA2
}

// MaxLevel returns the highest heuristic level over words, or A1 when words
// is empty.
func MaxLevel(words []string) model.Level {
	best := model.A1
	for _, w := range words {
		if l := WordLevel(w); l > best {
			best = l
		}
	}
	return best
}
