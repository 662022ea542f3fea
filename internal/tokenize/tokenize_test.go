package tokenize

import (
	"strings"
	"testing"
)

func texts(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == Space {
			continue
		}
		out = append(out, tok.Text)
	}
	return out
}

func TestTokenize_Basic(t *testing.T) {
	tokens, err := New().Tokenize("I have a red apple.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := texts(tokens)
	want := []string{"I", "have", "a", "red", "apple", "."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, got)
	}

	last := tokens[len(tokens)-1]
	if !last.IsPunctOrSpace() || last.POS != POSPunct {
		t.Errorf("expected trailing period to be punctuation, got %+v", last)
	}
}

func TestTokenize_Reconstructs(t *testing.T) {
	input := "Well-known facts, e.g. 3,000 cats!  Don't worry."
	tokens, err := NewUntagged().Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var b strings.Builder
	for _, tok := range tokens {
		if input[tok.Start:tok.End] != tok.Text {
			t.Errorf("offset mismatch for %q: [%d:%d]", tok.Text, tok.Start, tok.End)
		}
		b.WriteString(tok.Text)
	}
	if b.String() != input {
		t.Errorf("expected reconstruction %q, got %q", input, b.String())
	}
}

func TestTokenize_Contractions(t *testing.T) {
	tests := []struct {
		input string
		texts []string
		norms []string
	}{
		{"I'm here", []string{"I", "'m", "here"}, []string{"I", "am", "here"}},
		{"don't", []string{"do", "n't"}, []string{"do", "not"}},
		{"can’t", []string{"ca", "n’t"}, []string{"can", "not"}},
		{"won't", []string{"wo", "n't"}, []string{"will", "not"}},
		{"they've gone", []string{"they", "'ve", "gone"}, []string{"they", "have", "gone"}},
		{"we'll", []string{"we", "'ll"}, []string{"we", "will"}},
		{"she'd", []string{"she", "'d"}, []string{"she", "would"}},
		{"it's", []string{"it", "'s"}, []string{"it", "is"}},
		{"you're", []string{"you", "'re"}, []string{"you", "are"}},
	}

	for _, tt := range tests {
		tokens, _ := NewUntagged().Tokenize(tt.input)
		var gotTexts, gotNorms []string
		for _, tok := range tokens {
			if tok.Kind == Space {
				continue
			}
			gotTexts = append(gotTexts, tok.Text)
			gotNorms = append(gotNorms, tok.Norm)
		}
		if strings.Join(gotTexts, "|") != strings.Join(tt.texts, "|") {
			t.Errorf("%q: expected texts %v, got %v", tt.input, tt.texts, gotTexts)
		}
		if strings.Join(gotNorms, "|") != strings.Join(tt.norms, "|") {
			t.Errorf("%q: expected norms %v, got %v", tt.input, tt.norms, gotNorms)
		}
	}
}

func TestTokenize_Kinds(t *testing.T) {
	tokens, _ := NewUntagged().Tokenize("Pay 3.50 now ☺")
	kinds := map[string]Kind{}
	for _, tok := range tokens {
		kinds[tok.Text] = tok.Kind
	}
	if kinds["3.50"] != Number {
		t.Errorf("expected 3.50 to be a number, got %s", kinds["3.50"])
	}
	if kinds["☺"] != Symbol {
		t.Errorf("expected ☺ to be a symbol, got %s", kinds["☺"])
	}
	if kinds["Pay"] != Word {
		t.Errorf("expected Pay to be a word, got %s", kinds["Pay"])
	}
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := New().Tokenize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %d", len(tokens))
	}
}

func TestToken_IsAlpha(t *testing.T) {
	tokens, _ := NewUntagged().Tokenize("ice-cream 42 hello n't")
	alpha := map[string]bool{}
	for _, tok := range tokens {
		alpha[tok.Text] = tok.IsAlpha()
	}
	if alpha["ice-cream"] {
		t.Error("expected hyphenated word not to be alphabetic")
	}
	if alpha["42"] {
		t.Error("expected number not to be alphabetic")
	}
	if !alpha["hello"] {
		t.Error("expected hello to be alphabetic")
	}
}

func TestTokenize_ContractionNorms(t *testing.T) {
	tokens, err := NewUntagged().Tokenize("This is a very beautiful sentence, isn't it?")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, tok := range tokens {
		if tok.IsAlpha() {
			got = append(got, tok.Norm)
		}
	}
	want := "This is a very beautiful sentence is not it"
	if strings.Join(got, " ") != want {
		t.Errorf("expected %q, got %q", want, strings.Join(got, " "))
	}
}

func TestTagger(t *testing.T) {
	tokens, _ := New().Tokenize("They want to run quickly to the old station in London.")
	tags := map[string]string{}
	for _, tok := range tokens {
		if tok.Kind == Word {
			tags[tok.Text] = tok.POS
		}
	}
	tests := map[string]string{
		"They":     POSPron,
		"want":     POSVerb,
		"run":      POSVerb,
		"quickly":  POSAdv,
		"the":      POSDet,
		"old":      POSAdj,
		"station":  POSNoun,
		"in":       POSAdp,
		"London":   POSPropn,
	}
	for word, want := range tests {
		if tags[word] != want {
			t.Errorf("expected %s for %q, got %q", want, word, tags[word])
		}
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"apple", "apple"},
		{"  apple  ", "apple"},
		{"<b>make</b>&nbsp;up", "make up"},
		{"first<br>second", "first second"},
		{"fish &amp; chips", "fish & chips"},
		{`<div class="x">look <i>after</i></div>`, "look after"},
		{"if a<b then c", "if a<b then c"},
		{"x<y", "x<y"},
		{" a<incomprehensibility ", "a<incomprehensibility"},
		{"3 < 4", "3 < 4"},
		{"<b>bold</b> x<y", "<b>bold</b> x<y"},
	}
	for _, tt := range tests {
		if got := StripMarkup(tt.in); got != tt.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
