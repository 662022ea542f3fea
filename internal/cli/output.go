package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/ppiankov/cefrscope/internal/model"
)

var levelColors = map[model.Level]*color.Color{
	model.A1:      color.New(color.FgGreen, color.Bold),
	model.A2:      color.New(color.FgGreen),
	model.B1:      color.New(color.FgCyan, color.Bold),
	model.B2:      color.New(color.FgCyan),
	model.C1:      color.New(color.FgMagenta, color.Bold),
	model.C2:      color.New(color.FgRed, color.Bold),
	model.Unknown: color.New(color.FgYellow),
}

// configureColor enables color only when wanted and stdout is a terminal
func configureColor(enabled bool) {
	color.NoColor = !enabled || !isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorLevel(level model.Level) string {
	c, ok := levelColors[level]
	if !ok {
		return level.String()
	}
	return c.Sprint(level.String())
}

// renderResult prints the one-line answer and, with explain, the per-token
// breakdown and fusion arithmetic
func renderResult(w io.Writer, result *model.Result, explain bool) {
	if result.Mode == model.ModeEmpty {
		fmt.Fprintf(w, "%s (%s)\n", colorLevel(model.Unknown), result.Error)
		return
	}

	fmt.Fprintf(w, "%s → %s  [%s]\n", result.Input, colorLevel(result.Level), result.Method)
	if !explain {
		return
	}

	if len(result.Tokens) > 0 {
		fmt.Fprintln(w)
		renderTokenTable(w, result.Tokens)
	}

	if result.Fusion != nil {
		f := result.Fusion
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Lexical anchor:    %.2f\n", f.LexicalAnchor)
		if f.GrammaticalHint != nil {
			fmt.Fprintf(w, "  Grammatical hint:  %.2f\n", *f.GrammaticalHint)
		} else {
			fmt.Fprintf(w, "  Grammatical hint:  none\n")
		}
		fmt.Fprintf(w, "  Dominant signal:   %s (weights %.2f / %.2f)\n", f.DominantSignal, f.LexicalWeight, f.GrammaticalWeight)
		fmt.Fprintf(w, "  Fused score:       %.2f → %s\n", f.FinalScore, colorLevel(f.FinalLevel))
	}

	if len(result.Distribution) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Distribution:     ")
		for _, level := range model.Levels() {
			if p, ok := result.Distribution[level]; ok {
				fmt.Fprintf(w, " %s=%.2f", level, p)
			}
		}
		fmt.Fprintln(w)
	}

	if len(result.Notes) > 0 {
		fmt.Fprintln(w)
		for _, note := range result.Notes {
			fmt.Fprintf(w, "  • %s\n", note.Description)
		}
	}
}

// renderTokenTable aligns tokens by display width so wide runes line up
func renderTokenTable(w io.Writer, tokens []model.TokenScore) {
	width := runewidth.StringWidth("Token")
	for _, tok := range tokens {
		if n := runewidth.StringWidth(tok.Text); n > width {
			width = n
		}
	}
	if width > 30 {
		width = 30
	}

	fmt.Fprintf(w, "  %s  %-5s  %s\n", runewidth.FillRight("Token", width), "POS", "Level")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", width+16))
	for _, tok := range tokens {
		text := runewidth.Truncate(tok.Text, width, "…")
		level := "-"
		if tok.Known() {
			level = fmt.Sprintf("%s (%.2f)", colorLevel(tok.Label()), *tok.Level)
		}
		pos := tok.POS
		if pos == "" {
			pos = "-"
		}
		fmt.Fprintf(w, "  %s  %-5s  %s\n", runewidth.FillRight(text, width), pos, level)
	}
}

// renderJSON writes the full result as indented JSON
func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
