package lexical

import (
	"fmt"
	"io"

	"github.com/ppiankov/cefrscope/internal/heuristic"
	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/tokenize"
)

// Path derives lexical levels for words and sentences. A nil scorer or
// tokenizer is a missing signal and degrades to the heuristic fallback.
type Path struct {
	scorer    Scorer
	tokenizer tokenize.Tokenizer
	diag      io.Writer
}

// NewPath creates a lexical path. diag receives per-token diagnostics and
// may be nil.
func NewPath(scorer Scorer, tokenizer tokenize.Tokenizer, diag io.Writer) *Path {
	if diag == nil {
		diag = io.Discard
	}
	return &Path{scorer: scorer, tokenizer: tokenizer, diag: diag}
}

// HasLexicon reports whether a lexical scorer is configured
func (p *Path) HasLexicon() bool {
	return p.scorer != nil
}

// ScoreWord returns the lexicon level of word. Unknown words and a missing
// lexicon both yield (0, false).
func (p *Path) ScoreWord(word string) (float64, bool) {
	return p.scoreToken(word, "")
}

func (p *Path) scoreToken(word, pos string) (float64, bool) {
	if p.scorer == nil || word == "" {
		return 0, false
	}
	if ps, ok := p.scorer.(POSScorer); ok && pos != "" {
		return ps.ScorePOS(word, pos)
	}
	return p.scorer.Score(word)
}

// SentenceScore is the lexical view of a sentence
type SentenceScore struct {
	Anchor    float64            // Highest known level (or heuristic maximum)
	Tokens    []model.TokenScore // Every non-punctuation, non-space token
	Heuristic bool               // Anchor came from the heuristic fallback
	Notes     []model.Note
}

// ScoreSentence tokenizes sentence and computes its lexical anchor
func (p *Path) ScoreSentence(sentence string) SentenceScore {
	var notes []model.Note

	var tokens []tokenize.Token
	var err error
	if p.tokenizer != nil {
		tokens, err = p.tokenizer.Tokenize(sentence)
	}
	if p.tokenizer == nil || err != nil {
		// The built-in scanner never fails; POS is lost but words are kept
		tokens, _ = tokenize.NewUntagged().Tokenize(sentence)
		note := model.Note{
			Type:        model.NoteTokenizerUnavailable,
			Description: "Tokenizer unavailable, using plain word split",
		}
		if err != nil {
			note.Data = map[string]interface{}{"error": err.Error()}
		}
		notes = append(notes, note)
	}

	result := p.ScoreTokens(tokens)
	result.Notes = append(notes, result.Notes...)
	return result
}

// ScoreTokens computes the lexical anchor over already tokenized input.
// Punctuation and whitespace never contribute.
func (p *Path) ScoreTokens(tokens []tokenize.Token) SentenceScore {
	var out SentenceScore
	scored := make([]model.TokenScore, 0, len(tokens))
	found := false

	if p.scorer == nil {
		out.Notes = append(out.Notes, model.Note{
			Type:        model.NoteLexiconUnavailable,
			Description: "No lexicon configured",
		})
	}

	_, _ = fmt.Fprintf(p.diag, "\nLexical analysis per token:\n")
	for _, tok := range tokens {
		if tok.IsPunctOrSpace() {
			continue
		}
		level, ok := p.scoreToken(tok.Norm, tok.POS)
		if !ok {
			scored = append(scored, model.TokenScore{Text: tok.Text, POS: tok.POS})
			_, _ = fmt.Fprintf(p.diag, "  %-15s → not found\n", tok.Text)
			continue
		}
		scored = append(scored, model.NewTokenScore(tok.Text, tok.POS, level))
		_, _ = fmt.Fprintf(p.diag, "  %-15s → %s (%.2f)\n", tok.Text, model.RoundLevel(level), level)
		if !found || level > out.Anchor {
			out.Anchor = level
			found = true
		}
	}

	if found {
		out.Tokens = scored
		out.Notes = append(out.Notes, model.Note{
			Type:        model.NoteLexicalAnchor,
			Description: fmt.Sprintf("Lexical anchor %s (%.2f)", model.RoundLevel(out.Anchor), out.Anchor),
			Data: map[string]interface{}{
				"anchor":  out.Anchor,
				"formula": "max(level) over scored tokens",
			},
		})
		return out
	}

	return p.heuristicFallback(tokens, out.Notes)
}

// heuristicFallback scores every alphabetic token with the heuristic. With
// no alphabetic tokens the anchor is A1.
func (p *Path) heuristicFallback(tokens []tokenize.Token, notes []model.Note) SentenceScore {
	out := SentenceScore{Heuristic: true, Notes: notes}
	scored := make([]model.TokenScore, 0, len(tokens))
	words := make([]string, 0, len(tokens))

	_, _ = fmt.Fprintf(p.diag, "⚠️  No token found in the lexicon, using heuristic\n")
	for _, tok := range tokens {
		if tok.IsPunctOrSpace() {
			continue
		}
		if !tok.IsAlpha() {
			scored = append(scored, model.TokenScore{Text: tok.Text, POS: tok.POS})
			continue
		}
		words = append(words, tok.Norm)
		scored = append(scored, model.NewTokenScore(tok.Text, tok.POS, heuristic.WordScore(tok.Norm)))
	}
	out.Anchor = heuristic.MaxLevel(words).Value()

	out.Tokens = scored
	out.Notes = append(out.Notes, model.Note{
		Type:        model.NoteHeuristicFallback,
		Description: fmt.Sprintf("Heuristic anchor %s", model.LevelFromInt(int(out.Anchor))),
		Data: map[string]interface{}{
			"anchor":  out.Anchor,
			"formula": "max(heuristic(word)) over alphabetic tokens",
		},
	})
	return out
}
