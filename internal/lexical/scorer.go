// Package lexical scores words against a CEFR word-level lexicon and
// derives the lexical anchor of a sentence.
package lexical

import (
	"errors"
	"math"
	"strings"
)

// ErrLexiconUnavailable is returned when no lexicon could be opened
var ErrLexiconUnavailable = errors.New("lexicon unavailable")

// Scorer returns a continuous CEFR level (roughly 1-6) for a word.
// An unknown word is a normal, silent (0, false).
type Scorer interface {
	Score(word string) (float64, bool)
}

// POSScorer is implemented by scorers that can disambiguate by part of speech
type POSScorer interface {
	Scorer
	ScorePOS(word, pos string) (float64, bool)
}

// Entry is one lexicon row
type Entry struct {
	Word  string
	POS   string
	Level float64
}

// MapScorer is an in-memory lexicon. Lookups are case-insensitive.
type MapScorer struct {
	byWord map[string]map[string]float64 // word -> pos -> level
}

// NewMapScorer builds an in-memory lexicon from entries. Entries with an
// invalid level are skipped.
func NewMapScorer(entries []Entry) *MapScorer {
	m := &MapScorer{byWord: make(map[string]map[string]float64, len(entries))}
	for _, e := range entries {
		level, ok := normalizeLevel(e.Level)
		if !ok {
			continue
		}
		w := normalizeWord(e.Word)
		if w == "" {
			continue
		}
		if m.byWord[w] == nil {
			m.byWord[w] = make(map[string]float64)
		}
		m.byWord[w][strings.ToUpper(e.POS)] = level
	}
	return m
}

// Score returns the average level across every part of speech of word
func (m *MapScorer) Score(word string) (float64, bool) {
	byPOS, ok := m.byWord[normalizeWord(word)]
	if !ok || len(byPOS) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, level := range byPOS {
		sum += level
	}
	return sum / float64(len(byPOS)), true
}

// ScorePOS returns the level of word as pos, or the average when the
// lexicon has no row for that part of speech.
func (m *MapScorer) ScorePOS(word, pos string) (float64, bool) {
	if byPOS, ok := m.byWord[normalizeWord(word)]; ok && pos != "" {
		if level, ok := byPOS[strings.ToUpper(pos)]; ok {
			return level, true
		}
	}
	return m.Score(word)
}

// Len returns the number of distinct words
func (m *MapScorer) Len() int {
	return len(m.byWord)
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// normalizeLevel accepts any positive finite level and clamps it to [1, 6]
func normalizeLevel(level float64) (float64, bool) {
	if math.IsNaN(level) || math.IsInf(level, 0) || level <= 0 {
		return 0, false
	}
	return math.Min(math.Max(level, 1), 6), true
}
