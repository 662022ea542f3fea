package grammar

import (
	"fmt"
	"strings"

	"github.com/ppiankov/cefrscope/internal/model"
)

// NewClassifier creates a classifier based on configuration. An empty
// provider disables the grammatical path and returns (nil, nil).
func NewClassifier(config Config) (Classifier, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	switch provider {
	case "openai":
		return NewOpenAIClassifier(config)

	case "anthropic", "claude":
		return NewAnthropicClassifier(config)

	case "ollama":
		return NewOllamaClassifier(config)

	case "onnx":
		return NewONNXClassifier(config)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (supported: openai, anthropic, ollama, onnx)", config.Provider)
	}
}

// ConfigFromModel converts model.ClassifierConfig to grammar.Config
func ConfigFromModel(modelConfig model.ClassifierConfig) Config {
	return Config{
		Provider:      modelConfig.Provider,
		Model:         modelConfig.Model,
		APIKey:        modelConfig.APIKey,
		BaseURL:       modelConfig.BaseURL,
		Timeout:       modelConfig.Timeout,
		MaxTokens:     modelConfig.MaxTokens,
		ModelPath:     modelConfig.ModelPath,
		TokenizerPath: modelConfig.TokenizerPath,
		RuntimePath:   modelConfig.RuntimePath,
		MaxSeqLen:     modelConfig.MaxSeqLen,
		Labels:        modelConfig.Labels,
		HTTPProxy:     modelConfig.HTTPProxy,
		HTTPSProxy:    modelConfig.HTTPSProxy,
		NoProxy:       modelConfig.NoProxy,
	}
}
