package model

// Signal names which path contributed to or degraded a classification
type Signal string

const (
	SignalLexical     Signal = "lexical"
	SignalGrammatical Signal = "grammatical"
)

// Mode is how the top-level dispatch routed an input
type Mode string

const (
	ModeWord     Mode = "word"
	ModeSentence Mode = "sentence"
	ModeEmpty    Mode = "empty"
)

// Method records where the final level came from. Degraded precision is
// communicated through this field rather than through errors.
type Method string

const (
	MethodLexicon         Method = "lexicon"          // Word found in the lexical scorer
	MethodHeuristic       Method = "heuristic"        // Word scored by the heuristic fallback
	MethodFusion          Method = "fusion"           // Lexicon anchor fused with grammar
	MethodFusionHeuristic Method = "fusion-heuristic" // Heuristic anchor fused with grammar
	MethodLexicalOnly     Method = "lexical-only"     // Sentence, lexicon anchor, no grammar
	MethodHeuristicOnly   Method = "heuristic-only"   // Sentence, heuristic anchor, no grammar
	MethodUnknown         Method = "unknown"          // Empty input
)

// FusionResult is the breakdown of a fused sentence level
type FusionResult struct {
	FinalLevel        Level    `json:"final_level"`
	FinalScore        float64  `json:"final_score"`
	DominantSignal    Signal   `json:"dominant_signal"`
	LexicalAnchor     float64  `json:"lexical_anchor"`
	GrammaticalHint   *float64 `json:"grammatical_hint"`
	LexicalWeight     float64  `json:"lexical_weight"`
	GrammaticalWeight float64  `json:"grammatical_weight"`
}

// Note is a diagnostic entry attached to a result, with transparent data
type Note struct {
	Type        NoteType               `json:"type"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// NoteType classifies a diagnostic note
type NoteType string

const (
	NoteLexicalAnchor         NoteType = "lexical_anchor"
	NoteGrammaticalHint       NoteType = "grammatical_hint"
	NoteDominance             NoteType = "dominance"
	NoteHeuristicFallback     NoteType = "heuristic_fallback"
	NoteLexiconUnavailable    NoteType = "lexicon_unavailable"
	NoteTokenizerUnavailable  NoteType = "tokenizer_unavailable"
	NoteClassifierUnavailable NoteType = "classifier_unavailable"
)

// Result is the outcome of classifying one input
type Result struct {
	Input        string            `json:"input"`
	Mode         Mode              `json:"mode"`
	Level        Level             `json:"level"`
	Method       Method            `json:"method"`
	Tokens       []TokenScore      `json:"tokens,omitempty"`
	Fusion       *FusionResult     `json:"fusion,omitempty"`
	Distribution LevelDistribution `json:"distribution,omitempty"`
	Notes        []Note            `json:"notes,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// UnknownResult is returned for empty or whitespace-only input
func UnknownResult(input string) *Result {
	return &Result{
		Input:  input,
		Mode:   ModeEmpty,
		Level:  Unknown,
		Method: MethodUnknown,
		Error:  "empty input",
	}
}
