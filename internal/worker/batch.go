package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/cefrscope/internal/model"
)

// Dispatcher classifies a single word or sentence
type Dispatcher interface {
	Classify(ctx context.Context, input string) *model.Result
}

// Layout describes which tab-separated columns (1-based) hold the input and
// the space-separated tags
type Layout struct {
	InputColumn int
	TagColumn   int
}

// DefaultLayout matches flash-card exports: word in column 4, tags in 15
func DefaultLayout() Layout {
	return Layout{InputColumn: 4, TagColumn: 15}
}

func (l Layout) normalized() Layout {
	def := DefaultLayout()
	if l.InputColumn <= 0 {
		l.InputColumn = def.InputColumn
	}
	if l.TagColumn <= 0 {
		l.TagColumn = def.TagColumn
	}
	return l
}

// ClassifyJob classifies one input; Index restores input order
type ClassifyJob struct {
	Index      int
	Input      string
	Dispatcher Dispatcher
}

// Execute executes the classify job
func (j *ClassifyJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ClassifyResult{Index: j.Index, Input: j.Input, Error: err}
	}
	return &ClassifyResult{
		Index:  j.Index,
		Input:  j.Input,
		Result: j.Dispatcher.Classify(ctx, j.Input),
	}
}

// ClassifyResult represents the result of a classify job
type ClassifyResult struct {
	Index  int
	Input  string
	Result *model.Result
	Error  error
}

// GetError returns the error from the classify result
func (r *ClassifyResult) GetError() error {
	return r.Error
}

// Summary reports what a batch run did
type Summary struct {
	Lines      int // Lines read
	Classified int // Records that received a level
	Levels     map[model.Level]int
}

// BatchProcessor classifies inputs concurrently
type BatchProcessor struct {
	dispatcher  Dispatcher
	concurrency int
	layout      Layout
	maxLines    int
	progress    io.Writer
}

// NewBatchProcessor creates a new batch processor. maxLines limits the
// number of classified records (0 = unlimited).
func NewBatchProcessor(dispatcher Dispatcher, concurrency int, layout Layout, maxLines int) *BatchProcessor {
	return &BatchProcessor{
		dispatcher:  dispatcher,
		concurrency: concurrency,
		layout:      layout.normalized(),
		maxLines:    maxLines,
		progress:    io.Discard,
	}
}

// SetProgress directs per-record progress lines to w
func (b *BatchProcessor) SetProgress(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	b.progress = w
}

// ProcessInputs classifies every input concurrently. Results are returned
// in input order regardless of worker count.
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) []*ClassifyResult {
	if len(inputs) == 0 {
		return []*ClassifyResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for i, input := range inputs {
		if !pool.Submit(&ClassifyJob{Index: i, Input: input, Dispatcher: b.dispatcher}) {
			break
		}
	}

	results := pool.Wait()

	ordered := make([]*ClassifyResult, len(inputs))
	for _, result := range results {
		r := result.(*ClassifyResult)
		ordered[r.Index] = r
	}
	// Jobs dropped by cancellation still get a slot
	for i := range ordered {
		if ordered[i] == nil {
			ordered[i] = &ClassifyResult{Index: i, Input: inputs[i], Error: ctx.Err()}
		}
	}

	return ordered
}

// record is a data line selected for classification
type record struct {
	line    int
	columns []string
	input   string
}

// Process reads tab-separated records from r, adds each record's level to
// its tag column and writes every line to w. Comment and blank lines are
// copied verbatim, as is everything after maxLines classified records.
// Short rows are padded up to the tag column.
func (b *BatchProcessor) Process(ctx context.Context, r io.Reader, w io.Writer) (Summary, error) {
	summary := Summary{Levels: make(map[model.Level]int)}

	lines, err := readLines(r)
	if err != nil {
		return summary, err
	}
	summary.Lines = len(lines)

	out := make([]string, len(lines))
	copy(out, lines)

	var records []record
	for i, line := range lines {
		if b.maxLines > 0 && len(records) >= b.maxLines {
			break
		}
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		columns := strings.Split(line, "\t")
		for len(columns) < b.layout.TagColumn || len(columns) < b.layout.InputColumn {
			columns = append(columns, "")
		}
		out[i] = strings.Join(columns, "\t")

		input := strings.TrimSpace(columns[b.layout.InputColumn-1])
		if input == "" {
			continue
		}
		records = append(records, record{line: i, columns: columns, input: input})
	}

	inputs := make([]string, len(records))
	for i, rec := range records {
		inputs[i] = rec.input
	}
	results := b.ProcessInputs(ctx, inputs)

	for i, rec := range records {
		res := results[i]
		if res.Error != nil {
			return summary, fmt.Errorf("classify line %d: %w", rec.line+1, res.Error)
		}
		level := res.Result.Level
		tagIdx := b.layout.TagColumn - 1
		rec.columns[tagIdx] = appendTag(rec.columns[tagIdx], level.String())
		out[rec.line] = strings.Join(rec.columns, "\t")

		summary.Classified++
		summary.Levels[level]++
		_, _ = fmt.Fprintf(b.progress, "📊 %d: %s → %s\n", summary.Classified, rec.input, level)
	}

	bw := bufio.NewWriter(w)
	for _, line := range out {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return summary, fmt.Errorf("write output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return summary, fmt.Errorf("write output: %w", err)
	}

	return summary, nil
}

// ProcessFile runs Process from inPath into outPath
func (b *BatchProcessor) ProcessFile(ctx context.Context, inPath, outPath string) (summary Summary, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return summary, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(outPath)
	if err != nil {
		return summary, fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	return b.Process(ctx, in, out)
}

// OutputPath derives "<base><suffix>.txt" from the input path
func OutputPath(inPath, suffix string) string {
	if suffix == "" {
		suffix = "_CEFR"
	}
	base := strings.TrimSuffix(inPath, filepath.Ext(inPath))
	return base + suffix + ".txt"
}

// SortedLevels returns the levels present in the summary, A1 first
func (s Summary) SortedLevels() []model.Level {
	levels := make([]model.Level, 0, len(s.Levels))
	for level := range s.Levels {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}

func appendTag(existing, tag string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return tag
	}
	return existing + " " + tag
}

// readLines reads r into lines without their terminators
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
