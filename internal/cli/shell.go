package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/pipeline"
	"github.com/ppiankov/cefrscope/internal/worker"
)

// shellFileLimit caps records classified by the shell's file: command
const shellFileLimit = 5

// shellCmd represents the interactive shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Classify words and sentences interactively",
	Long: `Shell starts a prompt that classifies each line you type.

Commands:
  exit, quit     leave the shell
  file:<path>    tag the first 5 records of a tab-separated file

Example:
  cefrscope shell
  cefrscope shell --explain`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().BoolVar(&explain, "explain", false, "show per-token levels and the fusion breakdown")
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configureColor(cfg.Output.Color)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := pipeline.Load(ctx, cfg, diagWriter(cfg), os.Stderr)
	if err != nil {
		return fmt.Errorf("load collaborators: %w", err)
	}
	defer func() { _ = p.Close() }()

	if !p.HasLexicon() {
		fmt.Fprintf(os.Stderr, "⚠️  No lexicon loaded: words use the length heuristic\n")
	}
	if !p.HasClassifier() {
		fmt.Fprintf(os.Stderr, "⚠️  No classifier loaded: sentences use the lexical anchor only\n")
	}

	return shellLoop(ctx, p, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
}

// shellLoop reads commands until exit or EOF
func shellLoop(ctx context.Context, p *pipeline.Pipeline, cfg *model.Config, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(f)
	}

	for {
		if interactive {
			fmt.Fprint(out, "cefrscope> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit"):
			return nil
		case strings.HasPrefix(line, "file:"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "file:"))
			dest := worker.OutputPath(path, cfg.Batch.Suffix)
			summary, err := runBatchFile(ctx, p, cfg, path, dest, shellFileLimit)
			if err != nil {
				fmt.Fprintf(out, "✗ %v\n", err)
				continue
			}
			fmt.Fprintf(out, "✓ Classified %d records → %s\n", summary.Classified, dest)
		default:
			renderResult(out, p.Classify(ctx, line), explain)
		}
	}
}
