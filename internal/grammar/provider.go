// Package grammar produces a sentence-level grammatical-complexity hint from
// a learned classifier's probability distribution over CEFR levels.
package grammar

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/cefrscope/internal/model"
)

// ErrNoDistribution is returned when a classifier produced nothing usable
var ErrNoDistribution = errors.New("classifier returned no distribution")

// Classifier predicts a CEFR probability distribution for a sentence
type Classifier interface {
	// Name identifies the classifier (provider/model) for diagnostics and cache keys
	Name() string

	// Predict returns the distribution over the six levels for sentence
	Predict(ctx context.Context, sentence string) (model.LevelDistribution, error)
}

// Config holds classifier provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "onnx", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Local ONNX export
	ModelPath     string
	TokenizerPath string
	RuntimePath   string
	MaxSeqLen     int
	Labels        []string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 200,
		MaxSeqLen: 128,
		Labels:    []string{"A1", "A2", "B1", "B2", "C1", "C2"},
	}
}

// systemPrompt frames remote models as a grammar-only CEFR classifier
const systemPrompt = `You are a CEFR grammatical-complexity classifier for English sentences.
You judge sentence structure only (tense and aspect, clause embedding, passive voice, modality,
conditionals, inversion), not vocabulary difficulty.
You answer with a single JSON object and nothing else.`

// BuildPrompt constructs the classification prompt for a sentence
func BuildPrompt(sentence string) string {
	return fmt.Sprintf(`Classify the grammatical complexity of this English sentence on the CEFR scale.

Sentence: %q

Return ONLY a JSON object mapping each of the six labels "A1", "A2", "B1", "B2", "C1", "C2"
to a probability between 0 and 1. The probabilities should sum to 1.
Example: {"A1": 0.05, "A2": 0.10, "B1": 0.50, "B2": 0.25, "C1": 0.07, "C2": 0.03}`, sentence)
}
