package model

import (
	"fmt"
	"math"
)

// LevelDistribution maps each CEFR level to a probability. Values need not
// sum to exactly 1 but are never negative.
type LevelDistribution map[Level]float64

// Validate checks that every key is a CEFR level and every probability is a
// finite value in [0, 1].
func (d LevelDistribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("empty distribution")
	}
	for level, p := range d {
		if !level.Valid() {
			return fmt.Errorf("label outside A1..C2: %d", int(level))
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("non-finite probability for %s", level)
		}
		if p < 0 || p > 1 {
			return fmt.Errorf("probability out of range for %s: %f", level, p)
		}
	}
	return nil
}

// Top returns the level with the strictly highest probability. Exact ties
// resolve to the first level in declaration order.
func (d LevelDistribution) Top() (Level, float64) {
	best := Unknown
	bestP := math.Inf(-1)
	for _, level := range Levels() {
		p, ok := d[level]
		if !ok {
			continue
		}
		if p > bestP {
			best = level
			bestP = p
		}
	}
	if best == Unknown {
		return Unknown, 0
	}
	return best, bestP
}

// Labels converts the distribution to a label-keyed map
func (d LevelDistribution) Labels() map[string]float64 {
	out := make(map[string]float64, len(d))
	for level, p := range d {
		out[level.String()] = p
	}
	return out
}

// DistributionFromLabels builds a distribution from a label-keyed map
func DistributionFromLabels(in map[string]float64) (LevelDistribution, error) {
	out := make(LevelDistribution, len(in))
	for label, p := range in {
		level, err := ParseLevel(label)
		if err != nil {
			return nil, err
		}
		if !level.Valid() {
			return nil, fmt.Errorf("label outside A1..C2: %q", label)
		}
		out[level] = p
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
