package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// contractions maps a clitic suffix to the word it is scored as
var contractions = map[string]string{
	"'m":  "am",
	"n't": "not",
	"'re": "are",
	"'s":  "is",
	"'ve": "have",
	"'ll": "will",
	"'d":  "would",
}

// irregularNegations fixes the stem left behind by splitting off "n't"
var irregularNegations = map[string]string{
	"ca":  "can",
	"wo":  "will",
	"sha": "shall",
	"ai":  "be",
}

// scan splits s into tokens using a rune-by-rune state machine
func scan(s string) []Token {
	tokens := make([]Token, 0, len(s)/4+1)

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		switch {
		case unicode.IsSpace(r):
			start := i
			i += size
			for i < len(s) {
				nr, ns := utf8.DecodeRuneInString(s[i:])
				if !unicode.IsSpace(nr) {
					break
				}
				i += ns
			}
			tokens = append(tokens, Token{Text: s[start:i], Norm: s[start:i], Kind: Space, Start: start, End: i})

		case unicode.IsDigit(r):
			end := scanRun(s, i, unicode.IsDigit, isNumberJoiner)
			tokens = append(tokens, Token{Text: s[i:end], Norm: s[i:end], Kind: Number, Start: i, End: end})
			i = end

		case unicode.IsLetter(r):
			end := scanRun(s, i, unicode.IsLetter, isWordJoiner)
			tokens = append(tokens, splitContraction(s, i, end)...)
			i = end

		case isApostrophe(r) && startsContraction(s, i):
			// Clitic separated from its host, e.g. after a closing quote
			end := scanRun(s, i+size, unicode.IsLetter, isWordJoiner)
			tokens = append(tokens, clitic(s, i, end))
			i = end

		case unicode.IsPunct(r):
			tokens = append(tokens, Token{Text: s[i : i+size], Norm: s[i : i+size], Kind: Punctuation, Start: i, End: i + size})
			i += size

		default:
			tokens = append(tokens, Token{Text: s[i : i+size], Norm: s[i : i+size], Kind: Symbol, Start: i, End: i + size})
			i += size
		}
	}

	return tokens
}

// scanRun consumes runes matching body, allowing a single joiner rune
// between two body runes.
func scanRun(s string, pos int, body func(rune) bool, joiner func(rune) bool) int {
	i := pos
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if body(r) {
			i += size
			continue
		}
		if joiner(r) && i+size < len(s) {
			next, _ := utf8.DecodeRuneInString(s[i+size:])
			if body(next) {
				i += size
				continue
			}
		}
		break
	}
	return i
}

func isWordJoiner(r rune) bool {
	return r == '-' || isApostrophe(r)
}

func isNumberJoiner(r rune) bool {
	return r == '.' || r == ','
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == 'ʼ'
}

// canonicalApostrophes rewrites typographic apostrophes to ASCII
func canonicalApostrophes(s string) string {
	return strings.Map(func(r rune) rune {
		if isApostrophe(r) {
			return '\''
		}
		return r
	}, s)
}

func startsContraction(s string, pos int) bool {
	_, size := utf8.DecodeRuneInString(s[pos:])
	end := scanRun(s, pos+size, unicode.IsLetter, isWordJoiner)
	_, ok := contractions[strings.ToLower("'"+s[pos+size:end])]
	return ok
}

// splitContraction splits a word token into host + clitic when it ends in a
// known contraction.
func splitContraction(s string, start, end int) []Token {
	word := s[start:end]
	lower := strings.ToLower(canonicalApostrophes(word))

	if strings.HasSuffix(lower, "n't") && len(lower) > 3 {
		cut := end - suffixBytes(word, 3)
		host := Token{Text: s[start:cut], Norm: s[start:cut], Kind: Word, Start: start, End: cut}
		if fixed, ok := irregularNegations[strings.ToLower(host.Text)]; ok {
			host.Norm = fixed
		}
		return []Token{host, clitic(s, cut, end)}
	}

	for suffix := range contractions {
		if suffix == "n't" || !strings.HasSuffix(lower, suffix) || len(lower) == len(suffix) {
			continue
		}
		cut := end - suffixBytes(word, len([]rune(suffix)))
		host := Token{Text: s[start:cut], Norm: s[start:cut], Kind: Word, Start: start, End: cut}
		return []Token{host, clitic(s, cut, end)}
	}

	return []Token{{Text: word, Norm: word, Kind: Word, Start: start, End: end}}
}

// suffixBytes returns the byte length of the last n runes of word
func suffixBytes(word string, n int) int {
	b := len(word)
	for ; n > 0 && b > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(word[:b])
		b -= size
	}
	return len(word) - b
}

func clitic(s string, start, end int) Token {
	text := s[start:end]
	tok := Token{Text: text, Norm: text, Kind: Word, Start: start, End: end}
	if full, ok := contractions[strings.ToLower(canonicalApostrophes(text))]; ok {
		tok.Norm = full
	}
	return tok
}
