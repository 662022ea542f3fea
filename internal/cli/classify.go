package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/pipeline"
)

var (
	forceWord       bool
	forceText       bool
	outputJSON      bool
	explain         bool
	classifyTimeout time.Duration
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <word or sentence>",
	Short: "Estimate the CEFR level of a word or sentence",
	Long: `Classify detects whether the input is a single word or a sentence:
- Words are looked up in the lexicon (heuristic fallback for unknown words)
- Sentences fuse the hardest known word with the grammatical classifier

Example:
  cefrscope classify house
  cefrscope classify "Had I known, I would have come earlier."
  cefrscope classify --explain "She reluctantly agreed."
  cefrscope classify --json --text "give up"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVarP(&forceWord, "word", "w", false, "treat the input as a single word")
	classifyCmd.Flags().BoolVarP(&forceText, "text", "t", false, "treat the input as a sentence")
	classifyCmd.Flags().BoolVar(&outputJSON, "json", false, "print the full result as JSON")
	classifyCmd.Flags().BoolVar(&explain, "explain", false, "show per-token levels and the fusion breakdown")
	classifyCmd.Flags().DurationVar(&classifyTimeout, "timeout", time.Minute, "overall timeout")
	classifyCmd.MarkFlagsMutuallyExclusive("word", "text")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configureColor(cfg.Output.Color)

	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	p, err := pipeline.Load(ctx, cfg, diagWriter(cfg), os.Stderr)
	if err != nil {
		return fmt.Errorf("load collaborators: %w", err)
	}
	defer func() { _ = p.Close() }()

	input := strings.Join(args, " ")
	result := classifyInput(ctx, p, input)

	if outputJSON {
		return renderJSON(cmd.OutOrStdout(), result)
	}
	renderResult(cmd.OutOrStdout(), result, explain)
	return nil
}

// classifyInput honours --word / --text, otherwise auto-detects the mode
func classifyInput(ctx context.Context, p *pipeline.Pipeline, input string) *model.Result {
	switch {
	case forceWord:
		return p.ClassifyWord(input)
	case forceText:
		return p.ClassifySentence(ctx, input)
	default:
		return p.Classify(ctx, input)
	}
}
