// Package fusion combines the lexical anchor and the grammatical hint into a
// single sentence level. Whichever signal points higher dominates.
package fusion

import (
	"fmt"

	"github.com/ppiankov/cefrscope/internal/model"
)

// Weights applied to (lexical, grammatical) depending on dominance
const (
	LexicalDominantLexicalWeight     = 0.85
	LexicalDominantGrammaticalWeight = 0.15

	GrammarDominantLexicalWeight     = 0.25
	GrammarDominantGrammaticalWeight = 0.75
)

// Fuser performs dominance-weighted fusion
type Fuser struct{}

// NewFuser creates a new fuser
func NewFuser() *Fuser {
	return &Fuser{}
}

// Fuse combines anchor and hint. A nil hint means the grammatical path had
// nothing to say: the anchor is rounded (ties to even) and returned with
// full lexical weight. Otherwise the larger signal dominates, the anchor
// winning ties, and the weighted score maps to the nearest level.
func (f *Fuser) Fuse(anchor float64, hint *float64) (model.FusionResult, model.Note) {
	if hint == nil {
		level := model.RoundLevel(anchor)
		return model.FusionResult{
				FinalLevel:        level,
				FinalScore:        anchor,
				DominantSignal:    model.SignalLexical,
				LexicalAnchor:     anchor,
				LexicalWeight:     1,
				GrammaticalWeight: 0,
			}, model.Note{
				Type:        model.NoteDominance,
				Description: fmt.Sprintf("No grammatical hint; anchor %.2f rounds to %s", anchor, level),
				Data: map[string]interface{}{
					"anchor":  anchor,
					"formula": "round_half_even(anchor)",
				},
			}
	}

	h := *hint
	dominant := model.SignalLexical
	lexW, gramW := LexicalDominantLexicalWeight, LexicalDominantGrammaticalWeight
	if anchor < h {
		dominant = model.SignalGrammatical
		lexW, gramW = GrammarDominantLexicalWeight, GrammarDominantGrammaticalWeight
	}

	score := anchor*lexW + h*gramW
	level := model.NearestLevel(score)

	return model.FusionResult{
			FinalLevel:        level,
			FinalScore:        score,
			DominantSignal:    dominant,
			LexicalAnchor:     anchor,
			GrammaticalHint:   &h,
			LexicalWeight:     lexW,
			GrammaticalWeight: gramW,
		}, model.Note{
			Type:        model.NoteDominance,
			Description: fmt.Sprintf("%s signal dominates: %.2f×%.2f + %.2f×%.2f = %.2f → %s", dominant, anchor, lexW, h, gramW, score, level),
			Data: map[string]interface{}{
				"anchor":             anchor,
				"hint":               h,
				"lexical_weight":     lexW,
				"grammatical_weight": gramW,
				"score":              score,
				"formula":            "anchor*lexical_weight + hint*grammatical_weight",
			},
		}
}

// Fuse is a convenience wrapper over a zero Fuser
func Fuse(anchor float64, hint *float64) model.FusionResult {
	result, _ := NewFuser().Fuse(anchor, hint)
	return result
}
