// Package pipeline routes an input to the word or sentence path and returns
// a single CEFR level with a transparent breakdown.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ppiankov/cefrscope/internal/fusion"
	"github.com/ppiankov/cefrscope/internal/grammar"
	"github.com/ppiankov/cefrscope/internal/heuristic"
	"github.com/ppiankov/cefrscope/internal/lexical"
	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/tokenize"
)

// Pipeline orchestrates the lexical path, the grammatical path and fusion.
// Collaborators are read-only after construction, so Classify is safe for
// concurrent use.
type Pipeline struct {
	lexical *lexical.Path
	grammar *grammar.Path
	fuser   *fusion.Fuser
	diag    io.Writer
	closers []io.Closer
}

// New creates a pipeline from already built paths. diag may be nil.
func New(lex *lexical.Path, gram *grammar.Path, diag io.Writer) *Pipeline {
	if diag == nil {
		diag = io.Discard
	}
	if lex == nil {
		lex = lexical.NewPath(nil, tokenize.New(), diag)
	}
	if gram == nil {
		gram = grammar.NewPath(nil, diag)
	}
	return &Pipeline{
		lexical: lex,
		grammar: gram,
		fuser:   fusion.NewFuser(),
		diag:    diag,
	}
}

// HasLexicon reports whether a lexical scorer was loaded
func (p *Pipeline) HasLexicon() bool {
	return p.lexical.HasLexicon()
}

// HasClassifier reports whether a grammatical classifier was loaded
func (p *Pipeline) HasClassifier() bool {
	return p.grammar.Available()
}

// Classify is the top-level dispatch. Markup is stripped and the input
// trimmed; empty input yields UNKNOWN, input containing whitespace goes to
// the sentence path and anything else to the word path. It never fails:
// missing collaborators only change the reported method.
func (p *Pipeline) Classify(ctx context.Context, input string) *model.Result {
	text := tokenize.StripMarkup(input)
	if text == "" {
		return model.UnknownResult(input)
	}
	if strings.ContainsFunc(text, unicode.IsSpace) {
		return p.ClassifySentence(ctx, text)
	}
	return p.ClassifyWord(text)
}

// ClassifyWord scores a single word: the lexicon level rounded to the
// nearest level, or the heuristic when the word is unknown
func (p *Pipeline) ClassifyWord(word string) *model.Result {
	word = strings.TrimSpace(word)
	if word == "" {
		return model.UnknownResult(word)
	}

	result := &model.Result{Input: word, Mode: model.ModeWord}

	if level, ok := p.lexical.ScoreWord(word); ok {
		result.Level = model.RoundLevel(level)
		result.Method = model.MethodLexicon
		result.Tokens = []model.TokenScore{model.NewTokenScore(word, "", level)}
		result.Notes = append(result.Notes, model.Note{
			Type:        model.NoteLexicalAnchor,
			Description: fmt.Sprintf("Lexicon level %.2f rounds to %s", level, result.Level),
			Data:        map[string]interface{}{"level": level},
		})
		_, _ = fmt.Fprintf(p.diag, "%s → %s (lexicon %.2f)\n", word, result.Level, level)
		return result
	}

	if !p.lexical.HasLexicon() {
		result.Notes = append(result.Notes, model.Note{
			Type:        model.NoteLexiconUnavailable,
			Description: "No lexicon configured",
		})
	}

	level := heuristic.WordLevel(word)
	result.Level = level
	result.Method = model.MethodHeuristic
	result.Tokens = []model.TokenScore{model.NewTokenScore(word, "", level.Value())}
	result.Notes = append(result.Notes, model.Note{
		Type:        model.NoteHeuristicFallback,
		Description: fmt.Sprintf("Word not in lexicon; heuristic gives %s", level),
		Data: map[string]interface{}{
			"curated": heuristic.IsCurated(word),
		},
	})
	_, _ = fmt.Fprintf(p.diag, "%s → %s (heuristic)\n", word, level)
	return result
}

// ClassifySentence runs both paths and fuses them
func (p *Pipeline) ClassifySentence(ctx context.Context, sentence string) *model.Result {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return model.UnknownResult(sentence)
	}

	_, _ = fmt.Fprintf(p.diag, "Analyzing: %q\n", sentence)

	lex := p.lexical.ScoreSentence(sentence)
	result := &model.Result{
		Input:  sentence,
		Mode:   model.ModeSentence,
		Tokens: lex.Tokens,
		Notes:  lex.Notes,
	}

	var hint *float64
	if dist, ok := p.grammar.ScoreSentence(ctx, sentence); ok {
		if h, ok := grammar.Hint(dist); ok {
			hint = &h
			result.Distribution = dist
			top, confidence := grammar.TopLevel(dist)
			result.Notes = append(result.Notes, model.Note{
				Type:        model.NoteGrammaticalHint,
				Description: fmt.Sprintf("Grammatical hint %s (p=%.3f)", top, confidence),
				Data:        map[string]interface{}{"distribution": dist.Labels()},
			})
		}
	}
	if hint == nil {
		result.Notes = append(result.Notes, model.Note{
			Type:        model.NoteClassifierUnavailable,
			Description: "No grammatical hint; level from lexical anchor only",
		})
	}

	fused, note := p.fuser.Fuse(lex.Anchor, hint)
	result.Fusion = &fused
	result.Level = fused.FinalLevel
	result.Notes = append(result.Notes, note)
	result.Method = sentenceMethod(lex.Heuristic, hint != nil)

	_, _ = fmt.Fprintf(p.diag, "\nFusion: %s\n", note.Description)
	_, _ = fmt.Fprintf(p.diag, "Final sentence level: %s (%s)\n", result.Level, result.Method)
	return result
}

func sentenceMethod(heuristicAnchor, fused bool) model.Method {
	switch {
	case fused && heuristicAnchor:
		return model.MethodFusionHeuristic
	case fused:
		return model.MethodFusion
	case heuristicAnchor:
		return model.MethodHeuristicOnly
	default:
		return model.MethodLexicalOnly
	}
}

// Close releases collaborators that hold resources (SQLite, ONNX)
func (p *Pipeline) Close() error {
	var errs []error
	for _, c := range p.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
