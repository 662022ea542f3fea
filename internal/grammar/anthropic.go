package grammar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/util"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicClassifier asks a Claude model for a CEFR distribution
type AnthropicClassifier struct {
	client anthropic.Client
	config Config
}

// NewAnthropicClassifier creates a new Anthropic classifier
func NewAnthropicClassifier(config Config) (*AnthropicClassifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(1),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.HTTPProxy != "" || config.HTTPSProxy != "" {
		opts = append(opts, option.WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		}))
	}

	return &AnthropicClassifier{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// Name returns the classifier name
func (c *AnthropicClassifier) Name() string {
	return "anthropic/" + c.model()
}

func (c *AnthropicClassifier) model() string {
	if c.config.Model == "" {
		return defaultAnthropicModel
	}
	return c.config.Model
}

// Predict classifies a sentence using the Messages API
func (c *AnthropicClassifier) Predict(ctx context.Context, sentence string) (model.LevelDistribution, error) {
	maxTokens := c.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model()),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(sentence))),
		},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: no text content in Anthropic response", ErrNoDistribution)
	}

	return ParseDistribution(text.String())
}
