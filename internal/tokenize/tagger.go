package tokenize

import (
	"strings"
	"unicode"
)

// Universal POS tags produced by the tagger
const (
	POSAdj   = "ADJ"
	POSAdp   = "ADP"
	POSAdv   = "ADV"
	POSAux   = "AUX"
	POSCconj = "CCONJ"
	POSDet   = "DET"
	POSIntj  = "INTJ"
	POSNoun  = "NOUN"
	POSNum   = "NUM"
	POSPart  = "PART"
	POSPron  = "PRON"
	POSPropn = "PROPN"
	POSPunct = "PUNCT"
	POSSconj = "SCONJ"
	POSSym   = "SYM"
	POSVerb  = "VERB"
)

// Tagger assigns Universal POS tags with a closed-class lexicon, suffix
// rules and a context pass. It is a lightweight approximation: tags feed
// POS-aware lexicon lookups and are not meant to be linguistically exact.
type Tagger struct {
	lexicon map[string]string
}

// NewTagger creates a tagger with the default English lexicon
func NewTagger() *Tagger {
	t := &Tagger{lexicon: make(map[string]string)}
	t.loadDefaultLexicon()
	return t
}

// TagTokens sets POS on every token in place
func (t *Tagger) TagTokens(tokens []Token) {
	// Pass 1: lexicon + suffix heuristics
	first := true
	for i := range tokens {
		tok := &tokens[i]
		switch tok.Kind {
		case Space:
			continue
		case Punctuation:
			tok.POS = POSPunct
			if isSentenceEnd(tok.Text) {
				first = true
			}
			continue
		case Number:
			tok.POS = POSNum
		case Symbol:
			tok.POS = POSSym
		default:
			tok.POS = t.baseline(tok.Text, tok.Norm, first)
		}
		first = false
	}

	// Pass 2: context corrections against the previous non-space token
	prev := -1
	for i := range tokens {
		tok := &tokens[i]
		if tok.Kind != Word {
			if tok.Kind != Space {
				prev = i
			}
			continue
		}
		if prev >= 0 {
			t.reinforce(tok, &tokens[prev])
		}
		prev = i
	}
}

func (t *Tagger) baseline(text, normForm string, sentenceStart bool) string {
	lower := strings.ToLower(normForm)
	if pos, ok := t.lexicon[lower]; ok {
		return pos
	}

	if !sentenceStart && startsUpper(text) {
		return POSPropn
	}

	switch {
	case strings.HasSuffix(lower, "ly"):
		return POSAdv
	case strings.HasSuffix(lower, "ing"), strings.HasSuffix(lower, "ed"), strings.HasSuffix(lower, "ize"), strings.HasSuffix(lower, "ise"):
		return POSVerb
	case strings.HasSuffix(lower, "ful"), strings.HasSuffix(lower, "less"), strings.HasSuffix(lower, "ous"),
		strings.HasSuffix(lower, "ive"), strings.HasSuffix(lower, "able"), strings.HasSuffix(lower, "ible"),
		strings.HasSuffix(lower, "al"), strings.HasSuffix(lower, "ic"):
		return POSAdj
	default:
		return POSNoun
	}
}

func (t *Tagger) reinforce(tok, prev *Token) {
	prevLower := strings.ToLower(prev.Norm)

	switch {
	// "the [run]", "a fast [attack]"
	case (prev.POS == POSDet || prev.POS == POSAdj) && tok.POS == POSVerb:
		tok.POS = POSNoun
	// "can [run]", "will [attack]", "to [play]"
	case (prev.POS == POSAux && isModal(prevLower) || prevLower == "to" && prev.POS == POSPart) &&
		(tok.POS == POSNoun || tok.POS == POSAdj):
		tok.POS = POSVerb
	// "I [like]", "they [work]"
	case prev.POS == POSPron && isSubjectPronoun(prevLower) && tok.POS == POSNoun && !startsUpper(tok.Text):
		tok.POS = POSVerb
	// "word of [honor]"
	case prevLower == "of" && tok.POS == POSVerb:
		tok.POS = POSNoun
	}
}

func (t *Tagger) loadDefaultLexicon() {
	add := func(pos string, words ...string) {
		for _, w := range words {
			t.lexicon[w] = pos
		}
	}

	add(POSDet, "the", "a", "an", "this", "that", "these", "those", "my", "your", "his", "her",
		"its", "our", "their", "some", "any", "no", "every", "each", "all", "both", "either",
		"neither", "few", "many", "much", "several")
	add(POSAdp, "in", "on", "at", "for", "with", "by", "from", "of", "about", "into", "through",
		"during", "before", "after", "above", "below", "between", "under", "over", "against",
		"among", "around", "behind", "beside", "beyond", "near", "toward", "towards", "upon",
		"within", "without", "across", "along", "inside", "outside", "throughout", "like")
	add(POSAux, "is", "are", "was", "were", "be", "been", "being", "am", "have", "has", "had",
		"do", "does", "did", "can", "could", "will", "would", "shall", "should", "may",
		"might", "must")
	add(POSCconj, "and", "or", "but", "nor", "yet", "so")
	add(POSSconj, "because", "although", "though", "while", "if", "unless", "until", "since",
		"whether", "whereas")
	add(POSPron, "i", "you", "he", "she", "it", "we", "they", "me", "him", "us", "them",
		"myself", "yourself", "himself", "herself", "itself", "ourselves", "themselves",
		"who", "whom", "whose", "which", "what", "something", "anything", "nothing",
		"everything", "someone", "anyone", "everyone", "mine", "yours", "hers", "ours", "theirs")
	add(POSPart, "to", "not", "n't")
	add(POSAdv, "very", "too", "also", "just", "never", "always", "often", "sometimes", "here",
		"there", "now", "then", "when", "where", "why", "how", "again", "already", "still",
		"soon", "today", "tomorrow", "yesterday", "well", "quite", "rather", "almost")
	add(POSIntj, "hello", "hi", "oh", "yes", "wow", "please", "thanks", "ok", "okay")
	add(POSAdj, "good", "bad", "big", "small", "new", "old", "hot", "cold", "young", "large",
		"different", "important", "red", "happy", "sad", "long", "short", "high", "low")
}

func isModal(w string) bool {
	switch w {
	case "can", "could", "will", "would", "shall", "should", "may", "might", "must":
		return true
	}
	return false
}

func isSubjectPronoun(w string) bool {
	switch w {
	case "i", "you", "we", "they", "he", "she", "it":
		return true
	}
	return false
}

func isSentenceEnd(p string) bool {
	return p == "." || p == "!" || p == "?"
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
