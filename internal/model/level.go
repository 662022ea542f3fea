package model

import (
	"fmt"
	"math"
	"strings"
)

// Level is a CEFR proficiency level. The numeric value is used for
// comparison and averaging.
type Level int

const (
	Unknown Level = 0 // Explicit UNKNOWN result (empty input only)
	A1      Level = 1
	A2      Level = 2
	B1      Level = 3
	B2      Level = 4
	C1      Level = 5
	C2      Level = 6
)

// MinLevel and MaxLevel bound every produced level
const (
	MinLevel = A1
	MaxLevel = C2
)

var levelLabels = [...]string{"UNKNOWN", "A1", "A2", "B1", "B2", "C1", "C2"}

// Levels returns the six CEFR levels in declaration order (A1 first)
func Levels() []Level {
	return []Level{A1, A2, B1, B2, C1, C2}
}

// String returns the CEFR label ("A1".."C2") or "UNKNOWN"
func (l Level) String() string {
	if !l.Valid() {
		return levelLabels[0]
	}
	return levelLabels[l]
}

// Valid reports whether l is one of A1..C2
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Value returns the numeric value of the level
func (l Level) Value() float64 {
	return float64(l)
}

// MarshalText encodes the level as its label
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label into a level
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel parses a CEFR label, case-insensitively. "UNKNOWN" parses to Unknown.
func ParseLevel(s string) (Level, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	for i, candidate := range levelLabels {
		if label == candidate {
			return Level(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown CEFR label: %q", s)
}

// LevelFromInt maps 1..6 to a level; anything else is Unknown
func LevelFromInt(n int) Level {
	l := Level(n)
	if !l.Valid() {
		return Unknown
	}
	return l
}

// RoundLevel rounds a continuous level to the nearest integer and clamps it
// to [A1, C2]. Halves round to even.
func RoundLevel(score float64) Level {
	if math.IsNaN(score) {
		return MinLevel
	}
	return clamp(int(math.RoundToEven(score)))
}

// NearestLevel returns the level with the smallest absolute difference from
// score. Ties go to the lower level.
func NearestLevel(score float64) Level {
	best := MinLevel
	bestDiff := math.Inf(1)
	for _, l := range Levels() {
		diff := math.Abs(l.Value() - score)
		if diff < bestDiff {
			best = l
			bestDiff = diff
		}
	}
	return best
}

func clamp(n int) Level {
	if n < int(MinLevel) {
		return MinLevel
	}
	if n > int(MaxLevel) {
		return MaxLevel
	}
	return Level(n)
}
