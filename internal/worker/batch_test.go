package worker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/cefrscope/internal/model"
)

// mockDispatcher levels inputs by word count: 1 word → A1, 2 → A2, ...
type mockDispatcher struct {
	calls atomic.Int32
	delay time.Duration
}

func (m *mockDispatcher) Classify(ctx context.Context, input string) *model.Result {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	n := len(strings.Fields(input))
	if n == 0 {
		return model.UnknownResult(input)
	}
	return &model.Result{Input: input, Level: model.LevelFromInt(min(n, 6))}
}

func row(cols ...string) string {
	return strings.Join(cols, "\t")
}

func TestBatchProcessor_ProcessInputs_Ordered(t *testing.T) {
	processor := NewBatchProcessor(&mockDispatcher{delay: time.Millisecond}, 4, DefaultLayout(), 0)

	inputs := []string{"a", "a b", "a b c", "a b c d", "a", "a b c d e f g"}
	results := processor.ProcessInputs(context.Background(), inputs)

	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	want := []model.Level{model.A1, model.A2, model.B1, model.B2, model.A1, model.C2}
	for i, res := range results {
		if res.Input != inputs[i] {
			t.Errorf("result %d out of order: %q", i, res.Input)
		}
		if res.Result.Level != want[i] {
			t.Errorf("result %d: got %s, want %s", i, res.Result.Level, want[i])
		}
	}
}

func TestBatchProcessor_ProcessInputs_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockDispatcher{}, 2, DefaultLayout(), 0)
	if results := processor.ProcessInputs(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessInputs_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockDispatcher{}, 2, DefaultLayout(), 0)
	results := processor.ProcessInputs(ctx, []string{"a", "b", "c"})
	for i, res := range results {
		if res == nil || res.GetError() == nil {
			t.Errorf("result %d: expected cancellation error", i)
		}
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	input := strings.Join([]string{
		"#separator:tab",
		"#html:true",
		row("id1", "x", "y", "house", "", "", "", "", "", "", "", "", "", "", "noun"),
		"",
		row("id2", "x", "y", "give up"),
		row("id3", "x", "y", ""),
	}, "\n") + "\n"

	var out bytes.Buffer
	processor := NewBatchProcessor(&mockDispatcher{}, 3, DefaultLayout(), 0)
	summary, err := processor.Process(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), lines)
	}

	if lines[0] != "#separator:tab" || lines[1] != "#html:true" || lines[3] != "" {
		t.Errorf("comments and blank lines must be copied verbatim: %q", lines[:4])
	}

	cols := strings.Split(lines[2], "\t")
	if len(cols) != 15 || cols[14] != "noun A1" {
		t.Errorf("existing tags should get the level appended: %q", cols)
	}

	cols = strings.Split(lines[4], "\t")
	if len(cols) != 15 {
		t.Errorf("short row should be padded to 15 columns, got %d", len(cols))
	}
	if cols[14] != "A2" || cols[3] != "give up" {
		t.Errorf("unexpected padded row: %q", cols)
	}

	cols = strings.Split(lines[5], "\t")
	if len(cols) != 15 || cols[14] != "" {
		t.Errorf("row without input is padded but not tagged: %q", cols)
	}

	if summary.Lines != 6 || summary.Classified != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.Levels[model.A1] != 1 || summary.Levels[model.A2] != 1 {
		t.Errorf("unexpected level counts %v", summary.Levels)
	}
}

func TestBatchProcessor_Process_MaxLines(t *testing.T) {
	input := strings.Join([]string{
		row("1", "", "", "one"),
		"# comment",
		row("2", "", "", "two words"),
		row("3", "", "", "three more words"),
		"# trailing comment",
	}, "\n")

	dispatcher := &mockDispatcher{}
	var out bytes.Buffer
	processor := NewBatchProcessor(dispatcher, 2, DefaultLayout(), 2)
	summary, err := processor.Process(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Classified != 2 || dispatcher.calls.Load() != 2 {
		t.Errorf("expected 2 classified records, got %d (%d calls)", summary.Classified, dispatcher.calls.Load())
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if lines[3] != row("3", "", "", "three more words") {
		t.Errorf("lines past the limit must be copied unchanged: %q", lines[3])
	}
	if lines[4] != "# trailing comment" {
		t.Errorf("unexpected trailing line %q", lines[4])
	}
}

func TestBatchProcessor_Process_CustomLayout(t *testing.T) {
	var out bytes.Buffer
	processor := NewBatchProcessor(&mockDispatcher{}, 1, Layout{InputColumn: 1, TagColumn: 2}, 0)
	if _, err := processor.Process(context.Background(), strings.NewReader("hello world\n"), &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "hello world\tA2" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestBatchProcessor_Process_CRLF(t *testing.T) {
	var out bytes.Buffer
	processor := NewBatchProcessor(&mockDispatcher{}, 1, Layout{InputColumn: 1, TagColumn: 2}, 0)
	if _, err := processor.Process(context.Background(), strings.NewReader("cat\r\n"), &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "cat\tA1\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "deck.txt")
	if err := os.WriteFile(inPath, []byte("#deck\n"+row("1", "", "", "run")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := OutputPath(inPath, "_CEFR")

	processor := NewBatchProcessor(&mockDispatcher{}, 2, DefaultLayout(), 0)
	summary, err := processor.ProcessFile(context.Background(), inPath, outPath)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if summary.Classified != 1 {
		t.Errorf("expected 1 classified record, got %d", summary.Classified)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "#deck\n") || !strings.Contains(string(data), "\tA1\n") {
		t.Errorf("unexpected output file:\n%s", data)
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockDispatcher{}, 2, DefaultLayout(), 0)
	_, err := processor.ProcessFile(context.Background(), "/non/existent/deck.txt", filepath.Join(t.TempDir(), "out.txt"))
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestBatchProcessor_Progress(t *testing.T) {
	var progress bytes.Buffer
	processor := NewBatchProcessor(&mockDispatcher{}, 1, Layout{InputColumn: 1, TagColumn: 2}, 0)
	processor.SetProgress(&progress)

	if _, err := processor.Process(context.Background(), strings.NewReader("cat\n"), &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(progress.String(), "cat → A1") {
		t.Errorf("unexpected progress %q", progress.String())
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, suffix, want string
	}{
		{"deck.txt", "_CEFR", "deck_CEFR.txt"},
		{"/data/deck.tsv", "_CEFR", "/data/deck_CEFR.txt"},
		{"deck", "", "deck_CEFR.txt"},
		{"deck.txt", "_levels", "deck_levels.txt"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.suffix); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.in, tt.suffix, got, tt.want)
		}
	}
}

func TestSummary_SortedLevels(t *testing.T) {
	s := Summary{Levels: map[model.Level]int{model.C1: 1, model.A1: 3, model.B2: 2}}
	got := s.SortedLevels()
	if len(got) != 3 || got[0] != model.A1 || got[2] != model.C1 {
		t.Errorf("unexpected order %v", got)
	}
}

func TestLayout_Normalized(t *testing.T) {
	l := Layout{}.normalized()
	if l != DefaultLayout() {
		t.Errorf("zero layout should normalize to defaults, got %+v", l)
	}
}
