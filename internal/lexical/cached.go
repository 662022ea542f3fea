package lexical

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/ppiankov/cefrscope/internal/cache"
)

// missMarker is stored for words the lexicon does not know, so repeated
// misses skip the underlying lookup too.
var missMarker = []byte{0}

// CachedScorer memoises lookups of an underlying scorer
type CachedScorer struct {
	scorer Scorer
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedScorer wraps scorer with c
func NewCachedScorer(scorer Scorer, c cache.Cache, ttl time.Duration) *CachedScorer {
	return &CachedScorer{scorer: scorer, cache: c, ttl: ttl}
}

// Score implements Scorer
func (c *CachedScorer) Score(word string) (float64, bool) {
	return c.lookup(word, "", func() (float64, bool) { return c.scorer.Score(word) })
}

// ScorePOS implements POSScorer, delegating to Score when the underlying
// scorer is not POS-aware.
func (c *CachedScorer) ScorePOS(word, pos string) (float64, bool) {
	ps, ok := c.scorer.(POSScorer)
	if !ok || pos == "" {
		return c.Score(word)
	}
	return c.lookup(word, pos, func() (float64, bool) { return ps.ScorePOS(word, pos) })
}

func (c *CachedScorer) lookup(word, pos string, miss func() (float64, bool)) (float64, bool) {
	key := cache.Key("lexicon/"+pos, normalizeWord(word))
	if data, found := c.cache.Get(key); found {
		if len(data) == 8 {
			return math.Float64frombits(binary.LittleEndian.Uint64(data)), true
		}
		return 0, false
	}

	level, ok := miss()
	if !ok {
		_ = c.cache.Set(key, missMarker, c.ttl)
		return 0, false
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(level))
	_ = c.cache.Set(key, buf, c.ttl)
	return level, true
}
