package lexical

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/cefrscope/internal/cache"
	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/tokenize"
)

func testEntries() []Entry {
	return []Entry{
		{Word: "I", POS: "PRON", Level: 1},
		{Word: "have", POS: "VERB", Level: 1},
		{Word: "a", POS: "DET", Level: 1},
		{Word: "red", POS: "ADJ", Level: 1},
		{Word: "apple", POS: "NOUN", Level: 1.2},
		{Word: "ubiquitous", POS: "ADJ", Level: 5.6},
		{Word: "run", POS: "VERB", Level: 1},
		{Word: "run", POS: "NOUN", Level: 3},
		{Word: "bogus", POS: "NOUN", Level: -2},
	}
}

// countingScorer records how many lookups reach it
type countingScorer struct {
	inner Scorer
	calls int
}

func (c *countingScorer) Score(word string) (float64, bool) {
	c.calls++
	return c.inner.Score(word)
}

// failingTokenizer always errors
type failingTokenizer struct{}

func (failingTokenizer) Tokenize(string) ([]tokenize.Token, error) {
	return nil, errors.New("model not loaded")
}

func TestMapScorer(t *testing.T) {
	s := NewMapScorer(testEntries())

	if level, ok := s.Score("Apple"); !ok || level != 1.2 {
		t.Errorf("expected 1.2 for Apple, got %v (%v)", level, ok)
	}
	if level, ok := s.Score("run"); !ok || level != 2 {
		t.Errorf("expected average 2 for run, got %v (%v)", level, ok)
	}
	if level, ok := s.ScorePOS("run", "noun"); !ok || level != 3 {
		t.Errorf("expected 3 for run/NOUN, got %v (%v)", level, ok)
	}
	if level, ok := s.ScorePOS("run", "ADV"); !ok || level != 2 {
		t.Errorf("expected average fallback 2 for run/ADV, got %v (%v)", level, ok)
	}
	if _, ok := s.Score("bogus"); ok {
		t.Error("expected entry with invalid level to be skipped")
	}
	if _, ok := s.Score("zyzzyva"); ok {
		t.Error("expected unknown word to be not found")
	}
}

func TestSQLiteScorer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.db")
	n, err := CreateSQLite(path, testEntries())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if n != 8 {
		t.Errorf("expected 8 rows inserted, got %d", n)
	}

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if level, ok := s.Score("UBIQUITOUS"); !ok || level != 5.6 {
		t.Errorf("expected 5.6, got %v (%v)", level, ok)
	}
	if level, ok := s.Score("run"); !ok || level != 2 {
		t.Errorf("expected average 2 for run, got %v (%v)", level, ok)
	}
	if level, ok := s.ScorePOS("run", "NOUN"); !ok || level != 3 {
		t.Errorf("expected 3 for run/NOUN, got %v (%v)", level, ok)
	}
	if _, ok := s.Score("zyzzyva"); ok {
		t.Error("expected unknown word to be not found")
	}
}

func TestOpenSQLite_Missing(t *testing.T) {
	if _, err := OpenSQLite(""); !errors.Is(err, ErrLexiconUnavailable) {
		t.Errorf("expected ErrLexiconUnavailable for empty path, got %v", err)
	}
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope.db"))
	if !errors.Is(err, ErrLexiconUnavailable) {
		t.Errorf("expected ErrLexiconUnavailable for missing file, got %v", err)
	}
}

func TestReadEntries(t *testing.T) {
	input := "# word list\napple\tA1\nrun\tNOUN\tB1\n\nubiquitous\t5.6\n"
	entries, err := ReadEntries(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].POS != "NOUN" || entries[1].Level != 3 {
		t.Errorf("unexpected entry: %+v", entries[1])
	}
	if entries[2].Level != 5.6 {
		t.Errorf("unexpected level: %v", entries[2].Level)
	}

	if _, err := ReadEntries(strings.NewReader("apple\tZ9\n")); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestCachedScorer(t *testing.T) {
	inner := &countingScorer{inner: NewMapScorer(testEntries())}
	c := NewCachedScorer(inner, cache.NewMemoryCache(time.Minute), 0)

	for i := 0; i < 3; i++ {
		if level, ok := c.Score("apple"); !ok || level != 1.2 {
			t.Fatalf("expected 1.2, got %v (%v)", level, ok)
		}
		if _, ok := c.Score("zyzzyva"); ok {
			t.Fatal("expected miss")
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 underlying lookups, got %d", inner.calls)
	}

	// countingScorer is not POS-aware, so POS lookups share the plain cache
	if level, ok := c.ScorePOS("apple", "NOUN"); !ok || level != 1.2 {
		t.Errorf("expected 1.2, got %v (%v)", level, ok)
	}
	if inner.calls != 2 {
		t.Errorf("expected cached result, got %d lookups", inner.calls)
	}
}

func TestPath_ScoreWord(t *testing.T) {
	p := NewPath(NewMapScorer(testEntries()), tokenize.New(), nil)
	if level, ok := p.ScoreWord("apple"); !ok || level != 1.2 {
		t.Errorf("expected 1.2, got %v (%v)", level, ok)
	}
	if _, ok := p.ScoreWord("zyzzyva"); ok {
		t.Error("expected unknown word not to raise or score")
	}

	empty := NewPath(nil, tokenize.New(), nil)
	if _, ok := empty.ScoreWord("apple"); ok {
		t.Error("expected no score without a lexicon")
	}
}

func TestPath_ScoreSentence_Anchor(t *testing.T) {
	p := NewPath(NewMapScorer(testEntries()), tokenize.New(), nil)
	res := p.ScoreSentence("I have a ubiquitous, red apple!")

	if res.Heuristic {
		t.Error("expected lexicon anchor, got heuristic")
	}
	if res.Anchor != 5.6 {
		t.Errorf("expected anchor 5.6, got %v", res.Anchor)
	}
	for _, tok := range res.Tokens {
		if tok.Text == "," || tok.Text == "!" || strings.TrimSpace(tok.Text) == "" {
			t.Errorf("punctuation or space leaked into tokens: %q", tok.Text)
		}
	}
	if len(res.Tokens) != 6 {
		t.Errorf("expected 6 scored tokens, got %d", len(res.Tokens))
	}
}

func TestPath_ScoreSentence_PunctuationNeverAnchors(t *testing.T) {
	// A lexicon that scores punctuation highly must still be ignored for it
	s := NewMapScorer([]Entry{{Word: "!", Level: 6}, {Word: "...", Level: 6}, {Word: "hi", Level: 1}})
	p := NewPath(s, tokenize.New(), nil)
	res := p.ScoreSentence("hi ! ...")
	if res.Anchor != 1 {
		t.Errorf("expected anchor 1, got %v", res.Anchor)
	}
}

func TestPath_ScoreSentence_OrderIndependent(t *testing.T) {
	s := NewMapScorer([]Entry{{Word: "alpha", Level: 4}, {Word: "beta", Level: 4}, {Word: "gamma", Level: 2}})
	p := NewPath(s, tokenize.New(), nil)
	a := p.ScoreSentence("alpha beta gamma")
	b := p.ScoreSentence("gamma beta alpha")
	if a.Anchor != 4 || b.Anchor != 4 {
		t.Errorf("expected anchor 4 both ways, got %v and %v", a.Anchor, b.Anchor)
	}
}

func TestPath_ScoreSentence_HeuristicFallback(t *testing.T) {
	p := NewPath(NewMapScorer(nil), tokenize.New(), nil)
	res := p.ScoreSentence("This is a very comfortable chair.")
	if !res.Heuristic {
		t.Fatal("expected heuristic fallback")
	}
	if res.Anchor != model.C1.Value() {
		t.Errorf("expected C1 anchor from 'comfortable', got %v", res.Anchor)
	}
	for _, tok := range res.Tokens {
		if !tok.Known() {
			t.Errorf("expected heuristic level for %q", tok.Text)
		}
	}
}

func TestPath_ScoreSentence_NoLexicon(t *testing.T) {
	p := NewPath(nil, tokenize.New(), nil)
	res := p.ScoreSentence("the cat sat")
	if !res.Heuristic || res.Anchor != 1 {
		t.Errorf("expected heuristic anchor 1, got %v (heuristic=%v)", res.Anchor, res.Heuristic)
	}
	if !hasNote(res.Notes, model.NoteLexiconUnavailable) {
		t.Error("expected lexicon_unavailable note")
	}
}

func TestPath_ScoreSentence_NoAlphabeticTokens(t *testing.T) {
	p := NewPath(nil, tokenize.New(), nil)
	res := p.ScoreSentence("42 ?! 7")
	if res.Anchor != 1 {
		t.Errorf("expected A1 anchor with no words, got %v", res.Anchor)
	}
}

func TestPath_ScoreSentence_TokenizerFailure(t *testing.T) {
	p := NewPath(NewMapScorer(testEntries()), failingTokenizer{}, nil)
	res := p.ScoreSentence("a ubiquitous apple")
	if res.Anchor != 5.6 {
		t.Errorf("expected anchor 5.6 via plain split, got %v", res.Anchor)
	}
	if !hasNote(res.Notes, model.NoteTokenizerUnavailable) {
		t.Error("expected tokenizer_unavailable note")
	}
}

func TestPath_ScoreSentence_Contractions(t *testing.T) {
	s := NewMapScorer([]Entry{{Word: "not", Level: 1}, {Word: "do", Level: 1}, {Word: "worry", Level: 2}})
	p := NewPath(s, tokenize.New(), nil)
	res := p.ScoreSentence("Don't worry")
	known := 0
	for _, tok := range res.Tokens {
		if tok.Known() {
			known++
		}
	}
	if known != 3 {
		t.Errorf("expected do/n't/worry all scored, got %d known tokens", known)
	}
}

func hasNote(notes []model.Note, typ model.NoteType) bool {
	for _, n := range notes {
		if n.Type == typ {
			return true
		}
	}
	return false
}
