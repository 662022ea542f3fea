// Package tokenize splits English sentences into tokens for lexical scoring.
//
// Tokens carry byte offsets into the NFC-normalised input, a kind, an
// optional Universal POS tag and a normalised form. Contractions are split
// off their host word ("don't" -> "do" + "n't") and normalised to the full
// word ("n't" -> "not") so they can be scored like any other word.
//
// All functions are safe for concurrent use.
package tokenize

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Kind classifies a token
type Kind int

const (
	Word        Kind = iota // Letters, with internal hyphens or apostrophes
	Number                  // Digits, with internal separators
	Punctuation             // . , ! ? : ; ( ) and friends
	Space                   // Contiguous whitespace
	Symbol                  // Everything else: emoji, math symbols
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case Number:
		return "Number"
	case Punctuation:
		return "Punctuation"
	case Space:
		return "Space"
	case Symbol:
		return "Symbol"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one unit of a tokenised sentence
type Token struct {
	Text  string // Surface text as it appears in the input
	Norm  string // Form used for scoring (expanded contraction or Text)
	Kind  Kind
	POS   string // Universal POS tag, empty when untagged
	Start int    // Byte offset (inclusive)
	End   int    // Byte offset (exclusive)
}

// IsPunctOrSpace reports whether the token is punctuation or whitespace.
// Such tokens never contribute to a lexical anchor.
func (t Token) IsPunctOrSpace() bool {
	return t.Kind == Punctuation || t.Kind == Space
}

// IsAlpha reports whether the normalised form consists of letters only
func (t Token) IsAlpha() bool {
	if t.Norm == "" {
		return false
	}
	for _, r := range t.Norm {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Tokenizer turns a sentence into an ordered sequence of tokens
type Tokenizer interface {
	Tokenize(sentence string) ([]Token, error)
}

// RuleTokenizer is the built-in English tokenizer with POS tagging
type RuleTokenizer struct {
	tagger *Tagger
}

// New creates a rule tokenizer that tags tokens with the default tagger
func New() *RuleTokenizer {
	return &RuleTokenizer{tagger: NewTagger()}
}

// NewUntagged creates a rule tokenizer that leaves POS empty
func NewUntagged() *RuleTokenizer {
	return &RuleTokenizer{}
}

// Tokenize splits sentence into tokens. Whitespace is emitted as Space
// tokens so that concatenating every Text reconstructs the normalised input.
func (t *RuleTokenizer) Tokenize(sentence string) ([]Token, error) {
	s := norm.NFC.String(sentence)
	if s == "" {
		return []Token{}, nil
	}

	tokens := scan(s)
	if t.tagger != nil {
		t.tagger.TagTokens(tokens)
	}
	return tokens, nil
}
