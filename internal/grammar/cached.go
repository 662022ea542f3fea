package grammar

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ppiankov/cefrscope/internal/cache"
	"github.com/ppiankov/cefrscope/internal/model"
	"github.com/ppiankov/cefrscope/internal/worker"
)

// CachedClassifier memoizes predictions per classifier name and sentence
type CachedClassifier struct {
	inner Classifier
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedClassifier wraps inner with a result cache
func NewCachedClassifier(inner Classifier, c cache.Cache, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped classifier's name
func (c *CachedClassifier) Name() string {
	return c.inner.Name()
}

// Predict returns a cached distribution or asks the wrapped classifier.
// Failures are never cached.
func (c *CachedClassifier) Predict(ctx context.Context, sentence string) (model.LevelDistribution, error) {
	key := cache.Key(c.inner.Name(), sentence)

	if data, ok := c.cache.Get(key); ok {
		var labels map[string]float64
		if err := msgpack.Unmarshal(data, &labels); err == nil {
			if dist, err := model.DistributionFromLabels(labels); err == nil {
				return dist, nil
			}
		}
		_ = c.cache.Delete(key)
	}

	dist, err := c.inner.Predict(ctx, sentence)
	if err != nil {
		return nil, err
	}

	if data, err := msgpack.Marshal(dist.Labels()); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}
	return dist, nil
}

// LimitedClassifier waits on a shared limiter before every prediction
type LimitedClassifier struct {
	inner   Classifier
	limiter *worker.Limiter
}

// NewLimitedClassifier wraps inner with rate limiting keyed by provider
func NewLimitedClassifier(inner Classifier, limiter *worker.Limiter) *LimitedClassifier {
	return &LimitedClassifier{inner: inner, limiter: limiter}
}

// Name returns the wrapped classifier's name
func (c *LimitedClassifier) Name() string {
	return c.inner.Name()
}

// Predict waits for clearance, then delegates
func (c *LimitedClassifier) Predict(ctx context.Context, sentence string) (model.LevelDistribution, error) {
	if err := c.limiter.Wait(ctx, c.inner.Name()); err != nil {
		return nil, err
	}
	return c.inner.Predict(ctx, sentence)
}
