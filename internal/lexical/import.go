package lexical

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ppiankov/cefrscope/internal/model"
)

// ReadEntries reads a tab-separated word list. Each record is
// "word<TAB>level" or "word<TAB>pos<TAB>level"; level is either a CEFR label
// ("B2") or a number ("3.7"). Blank lines and lines starting with # are skipped.
func ReadEntries(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var entries []Entry
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line, err)
		}

		var e Entry
		switch len(record) {
		case 2:
			e.Word = record[0]
			e.Level, err = parseLevel(record[1])
		case 3:
			e.Word, e.POS = record[0], record[1]
			e.Level, err = parseLevel(record[2])
		default:
			return nil, fmt.Errorf("record %d: expected 2 or 3 fields, got %d", line, len(record))
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadEntriesFile reads a word list from a file
func ReadEntriesFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadEntries(f)
}

func parseLevel(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if level, err := model.ParseLevel(s); err == nil && level.Valid() {
		return level.Value(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid level %q", s)
	}
	return v, nil
}
