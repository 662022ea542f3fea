package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/pipeline"
	"github.com/ppiankov/cefrscope/internal/worker"
)

var (
	concurrency  int
	maxLines     int
	outputPath   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Tag every record of a tab-separated file with its CEFR level",
	Long: `Batch reads a tab-separated export (e.g. a flash-card deck):
- Column 4 holds the word or phrase to classify
- The level is appended to the space-separated tags in column 15
- Rows with fewer columns are padded; comment (#) and blank lines are kept
- Records are classified in parallel; output order matches input order

Columns are configurable (batch.input_column, batch.tag_column).

Example:
  cefrscope batch deck.txt
  cefrscope batch deck.txt --max-lines 20
  cefrscope batch deck.txt --output tagged.txt --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().IntVarP(&maxLines, "max-lines", "m", 0, "classify at most this many records (0 = all)")
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default: <input>_CEFR.txt)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configureColor(cfg.Output.Color)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	out := outputPath
	if out == "" {
		out = worker.OutputPath(file, cfg.Batch.Suffix)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  cefrscope Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Output file:  %s\n", out)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	if maxLines > 0 {
		fmt.Fprintf(os.Stderr, "  Max records:  %d\n", maxLines)
	}
	fmt.Fprintf(os.Stderr, "\n")

	p, err := pipeline.Load(ctx, cfg, diagWriter(cfg), os.Stderr)
	if err != nil {
		return fmt.Errorf("load collaborators: %w", err)
	}
	defer func() { _ = p.Close() }()

	summary, err := runBatchFile(ctx, p, cfg, file, out, maxLines)
	if err != nil {
		return err
	}

	printBatchSummary(summary, out)
	return nil
}

// runBatchFile is shared by the batch command and the shell's file: command
func runBatchFile(ctx context.Context, p *pipeline.Pipeline, cfg *model.Config, in, out string, limit int) (worker.Summary, error) {
	layout := worker.Layout{InputColumn: cfg.Batch.InputColumn, TagColumn: cfg.Batch.TagColumn}
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, layout, limit)
	if cfg.Output.Verbose {
		processor.SetProgress(os.Stderr)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Classifying records from %s...\n", in)
	summary, err := processor.ProcessFile(ctx, in, out)
	if err != nil {
		return summary, fmt.Errorf("process file: %w", err)
	}
	return summary, nil
}

func printBatchSummary(summary worker.Summary, out string) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Lines:       %d\n", summary.Lines)
	fmt.Fprintf(os.Stderr, "  Classified:  %d\n", summary.Classified)
	for _, level := range summary.SortedLevels() {
		fmt.Fprintf(os.Stderr, "    %s  %d\n", colorLevel(level), summary.Levels[level])
	}
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", out)
	fmt.Fprintf(os.Stderr, "\n")
}
