package lexical

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS word_levels (
	word  TEXT NOT NULL,
	pos   TEXT NOT NULL DEFAULT '',
	level REAL NOT NULL,
	PRIMARY KEY (word, pos)
);
CREATE INDEX IF NOT EXISTS idx_word_levels_word ON word_levels(word);
`

// SQLiteScorer looks words up in a SQLite word-level database. It is
// read-only after Open and safe for concurrent use.
type SQLiteScorer struct {
	db       *sql.DB
	avgStmt  *sql.Stmt
	exactStm *sql.Stmt
}

// OpenSQLite opens an existing lexicon database read-only
func OpenSQLite(path string) (*SQLiteScorer, error) {
	if path == "" {
		return nil, ErrLexiconUnavailable
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLexiconUnavailable, err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_query_only=true")
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	s, err := prepare(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// CreateSQLite creates (or extends) a lexicon database at path and fills it
// with entries. Existing rows for the same word and POS are replaced.
func CreateSQLite(path string, entries []Entry) (n int, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return 0, fmt.Errorf("open lexicon: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close lexicon: %w", closeErr)
		}
	}()

	if _, err := db.Exec(schema); err != nil {
		return 0, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO word_levels (word, pos, level) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		level, ok := normalizeLevel(e.Level)
		word := normalizeWord(e.Word)
		if !ok || word == "" {
			continue
		}
		if _, err := stmt.Exec(word, strings.ToUpper(e.POS), level); err != nil {
			_ = tx.Rollback()
			return n, fmt.Errorf("insert %q: %w", e.Word, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func prepare(db *sql.DB) (*SQLiteScorer, error) {
	avg, err := db.Prepare(`SELECT AVG(level), COUNT(*) FROM word_levels WHERE word = ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare lookup: %w", err)
	}
	exact, err := db.Prepare(`SELECT level FROM word_levels WHERE word = ? AND pos = ?`)
	if err != nil {
		_ = avg.Close()
		return nil, fmt.Errorf("prepare lookup: %w", err)
	}
	return &SQLiteScorer{db: db, avgStmt: avg, exactStm: exact}, nil
}

// Score returns the average level of word across its parts of speech.
// Query errors are treated as "not found".
func (s *SQLiteScorer) Score(word string) (float64, bool) {
	var avg sql.NullFloat64
	var count int
	if err := s.avgStmt.QueryRow(normalizeWord(word)).Scan(&avg, &count); err != nil {
		return 0, false
	}
	if count == 0 || !avg.Valid {
		return 0, false
	}
	return normalizeLevel(avg.Float64)
}

// ScorePOS returns the level of word as pos, falling back to the average
func (s *SQLiteScorer) ScorePOS(word, pos string) (float64, bool) {
	if pos != "" {
		var level float64
		err := s.exactStm.QueryRow(normalizeWord(word), strings.ToUpper(pos)).Scan(&level)
		if err == nil {
			return normalizeLevel(level)
		}
	}
	return s.Score(word)
}

// Close releases the database
func (s *SQLiteScorer) Close() error {
	_ = s.avgStmt.Close()
	_ = s.exactStm.Close()
	return s.db.Close()
}
