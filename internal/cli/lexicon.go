package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cefrscope/internal/lexical"
)

var (
	importTimeout  time.Duration
	importMaxBytes int64
	ignoreRobots   bool
)

// lexiconCmd groups lexicon maintenance commands
var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Manage the word-level lexicon",
}

var lexiconImportCmd = &cobra.Command{
	Use:   "import <source> <database>",
	Short: "Build a SQLite lexicon from a word list file or URL",
	Long: `Import reads a tab-separated word list and writes it to a SQLite database.

Each record is "word<TAB>level" or "word<TAB>pos<TAB>level". Levels are
CEFR labels (B2) or numbers (3.7). Lines starting with # are comments.
The source may be a local path or an http(s) URL; downloads honour the
host's robots.txt unless --ignore-robots is given.

Example:
  cefrscope lexicon import words.tsv ~/.cefrscope/lexicon.db
  cefrscope lexicon import https://example.org/cefr.tsv lexicon.db`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		entries, err := loadEntries(ctx, args[0])
		if err != nil {
			return err
		}

		n, err := lexical.CreateSQLite(args[1], entries)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d entries into %s\n", n, args[1])
		return nil
	},
}

// loadEntries reads a word list from disk or over HTTP
func loadEntries(ctx context.Context, source string) ([]lexical.Entry, error) {
	if !lexical.IsRemote(source) {
		return lexical.ReadEntriesFile(source)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	fetcher := lexical.NewFetcher(importTimeout, "cefrscope/"+Version, importMaxBytes,
		cfg.Classifier.HTTPProxy, cfg.Classifier.HTTPSProxy, cfg.Classifier.NoProxy)
	if !ignoreRobots {
		fetcher.RespectRobots()
	}
	data, err := fetcher.FetchWithRetry(ctx, source)
	if err != nil {
		return nil, err
	}
	entries, err := lexical.ReadEntries(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return entries, nil
}

func init() {
	rootCmd.AddCommand(lexiconCmd)
	lexiconCmd.AddCommand(lexiconImportCmd)

	lexiconImportCmd.Flags().DurationVar(&importTimeout, "timeout", 2*time.Minute, "download and import timeout")
	lexiconImportCmd.Flags().Int64Var(&importMaxBytes, "max-bytes", 64<<20, "maximum download size")
	lexiconImportCmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "download even if robots.txt disallows it")
}
