package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/cefrscope/internal/cache"
	"github.com/ppiankov/cefrscope/internal/grammar"
	"github.com/ppiankov/cefrscope/internal/lexical"
	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/tokenize"
	"github.com/ppiankov/cefrscope/internal/worker"
)

// Load builds every collaborator described by cfg, concurrently, and wires
// them into a pipeline. A collaborator that fails to load is reported to
// warn and left out; Load itself only fails when ctx is cancelled.
func Load(ctx context.Context, cfg *model.Config, diag, warn io.Writer) (*Pipeline, error) {
	if diag == nil {
		diag = io.Discard
	}
	if warn == nil {
		warn = os.Stderr
	}

	var (
		scorer     lexical.Scorer
		classifier grammar.Classifier
		closers    []io.Closer
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if cfg.Lexicon.Path == "" {
			return nil
		}
		s, closer, err := openLexiconFunc(cfg.Lexicon.Path)
		if err != nil {
			_, _ = fmt.Fprintf(warn, "⚠️  Lexicon unavailable: %v\n", err)
			return nil
		}
		scorer = s
		if closer != nil {
			closers = append(closers, closer)
		}
		_, _ = fmt.Fprintf(diag, "✓ Loaded lexicon: %s\n", cfg.Lexicon.Path)
		return nil
	})

	g.Go(func() error {
		c, err := grammar.NewClassifier(grammar.ConfigFromModel(cfg.Classifier))
		if err != nil {
			_, _ = fmt.Fprintf(warn, "⚠️  Classifier unavailable: %v\n", err)
			return nil
		}
		if c == nil {
			return nil
		}
		classifier = c
		_, _ = fmt.Fprintf(diag, "✓ Loaded classifier: %s\n", c.Name())
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		if closer, ok := classifier.(io.Closer); ok {
			closers = append(closers, closer)
		}
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, err
	}

	if classifier != nil {
		if closer, ok := classifier.(io.Closer); ok {
			closers = append(closers, closer)
		}
		if !strings.EqualFold(cfg.Classifier.Provider, "onnx") {
			limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
			for provider, r := range cfg.RateLimiting.Providers {
				limiter.SetRate(provider, r.RequestsPerSecond, r.BurstSize)
			}
			classifier = grammar.NewLimitedClassifier(classifier, limiter)
		}
	}

	if cfg.Cache.Enabled {
		if scorer != nil {
			scorer = lexical.NewCachedScorer(scorer, cache.NewMemoryCache(cfg.Cache.MemoryTTL), cfg.Cache.MemoryTTL)
		}
		if classifier != nil {
			c := cache.New(cfg.Cache.MemoryTTL, expandHome(cfg.Cache.Dir), cfg.Cache.DiskTTL)
			classifier = grammar.NewCachedClassifier(classifier, c, cfg.Cache.DiskTTL)
		}
	}

	p := New(
		lexical.NewPath(scorer, tokenize.New(), diag),
		grammar.NewPath(classifier, diag),
		diag,
	)
	p.closers = closers
	return p, nil
}

// openLexiconFunc is swapped out in tests
var openLexiconFunc = openLexicon

// openLexicon opens a SQLite database, or loads a TSV file into memory
func openLexicon(path string) (lexical.Scorer, io.Closer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt", ".csv":
		entries, err := lexical.ReadEntriesFile(path)
		if err != nil {
			return nil, nil, err
		}
		return lexical.NewMapScorer(entries), nil, nil
	default:
		db, err := lexical.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
