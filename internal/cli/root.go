package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/cefrscope/internal/model"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cefrscope",
	Short: "cefrscope - CEFR level estimation for English words and sentences",
	Long: `cefrscope estimates the CEFR level (A1 to C2) of an English word or sentence.

Words are looked up in a word-level lexicon, with a length heuristic for
unknown words. Sentences combine two signals: the hardest known word
(lexical anchor) and a grammatical-complexity classifier (grammatical hint).
Whichever signal points higher dominates the weighted result.

Every result says where its level came from, so degraded runs (no lexicon,
no classifier) are visible rather than silent.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.cefrscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (per-token diagnostics on stderr)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.cefrscope")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(model.DefaultConfig())

	// Read in environment variables that match CEFRSCOPE_* (CEFRSCOPE_CLASSIFIER_PROVIDER)
	viper.SetEnvPrefix("CEFRSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so env overrides reach Unmarshal
func setDefaults(cfg *model.Config) {
	viper.SetDefault("lexicon.path", cfg.Lexicon.Path)

	viper.SetDefault("classifier.provider", cfg.Classifier.Provider)
	viper.SetDefault("classifier.model", cfg.Classifier.Model)
	viper.SetDefault("classifier.api_key", cfg.Classifier.APIKey)
	viper.SetDefault("classifier.base_url", cfg.Classifier.BaseURL)
	viper.SetDefault("classifier.timeout", cfg.Classifier.Timeout)
	viper.SetDefault("classifier.max_tokens", cfg.Classifier.MaxTokens)
	viper.SetDefault("classifier.model_path", cfg.Classifier.ModelPath)
	viper.SetDefault("classifier.tokenizer_path", cfg.Classifier.TokenizerPath)
	viper.SetDefault("classifier.runtime_path", cfg.Classifier.RuntimePath)
	viper.SetDefault("classifier.max_seq_len", cfg.Classifier.MaxSeqLen)
	viper.SetDefault("classifier.labels", cfg.Classifier.Labels)
	viper.SetDefault("classifier.http_proxy", cfg.Classifier.HTTPProxy)
	viper.SetDefault("classifier.https_proxy", cfg.Classifier.HTTPSProxy)
	viper.SetDefault("classifier.no_proxy", cfg.Classifier.NoProxy)

	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	viper.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	viper.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	viper.SetDefault("batch.input_column", cfg.Batch.InputColumn)
	viper.SetDefault("batch.tag_column", cfg.Batch.TagColumn)
	viper.SetDefault("batch.suffix", cfg.Batch.Suffix)

	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.color", cfg.Output.Color)
}

// loadConfig builds the effective configuration: defaults, config file,
// CEFRSCOPE_* variables, then provider API keys from their usual variables
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyProviderEnv(cfg)
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	return cfg, nil
}

// applyProviderEnv fills credentials from OPENAI_API_KEY, ANTHROPIC_API_KEY
// and OLLAMA_BASE_URL when the config leaves them empty
func applyProviderEnv(cfg *model.Config) {
	switch strings.ToLower(cfg.Classifier.Provider) {
	case "openai":
		if cfg.Classifier.APIKey == "" {
			cfg.Classifier.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.Classifier.APIKey == "" {
			cfg.Classifier.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.Classifier.BaseURL == "" {
			cfg.Classifier.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}

// diagWriter is where per-token diagnostics go
func diagWriter(cfg *model.Config) io.Writer {
	if cfg.Output.Verbose {
		return os.Stderr
	}
	return io.Discard
}
