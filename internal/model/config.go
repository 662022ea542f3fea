package model

import (
	"runtime"
	"time"
)

// Config holds the complete cefrscope configuration
type Config struct {
	Lexicon      LexiconConfig      `yaml:"lexicon" mapstructure:"lexicon"`
	Classifier   ClassifierConfig   `yaml:"classifier" mapstructure:"classifier"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Batch        BatchConfig        `yaml:"batch" mapstructure:"batch"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LexiconConfig configures the word-level lexical scorer
type LexiconConfig struct {
	// Path to a SQLite word database (table word_levels: word, pos, level)
	// or a word/pos/level TSV file. Empty disables the lexicon and every
	// word goes through the heuristic.
	Path string `yaml:"path" mapstructure:"path"`
}

// ClassifierConfig configures the sentence-level grammatical classifier
type ClassifierConfig struct {
	// Provider: "openai", "anthropic", "ollama", "onnx" or "" (disabled)
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey   string `yaml:"-" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds

	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Local ONNX model export
	ModelPath     string   `yaml:"model_path,omitempty" mapstructure:"model_path"`
	TokenizerPath string   `yaml:"tokenizer_path,omitempty" mapstructure:"tokenizer_path"`
	RuntimePath   string   `yaml:"runtime_path,omitempty" mapstructure:"runtime_path"` // onnxruntime shared library
	MaxSeqLen     int      `yaml:"max_seq_len" mapstructure:"max_seq_len"`
	Labels        []string `yaml:"labels" mapstructure:"labels"` // id2label order

	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"` // comma-separated hosts/CIDRs
}

// CacheConfig configures caching of lexicon lookups and classifier output
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits calls to remote classifiers
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`

	// Per-provider overrides keyed by provider name ("openai", "ollama")
	Providers map[string]ProviderRate `yaml:"providers,omitempty" mapstructure:"providers"`
}

// ProviderRate overrides the default rate for one provider
type ProviderRate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// BatchConfig describes the tab-separated batch layout (1-based columns)
type BatchConfig struct {
	InputColumn int    `yaml:"input_column" mapstructure:"input_column"`
	TagColumn   int    `yaml:"tag_column" mapstructure:"tag_column"`
	Suffix      string `yaml:"suffix" mapstructure:"suffix"`
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Color   bool `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 200,
			MaxSeqLen: 128,
			Labels:    []string{"A1", "A2", "B1", "B2", "C1", "C2"},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Batch: BatchConfig{
			InputColumn: 4,
			TagColumn:   15,
			Suffix:      "_CEFR",
		},
		Output: OutputConfig{
			Verbose: false,
			Color:   true,
		},
	}
}
