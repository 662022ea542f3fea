package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for a text within a namespace (e.g. the
// classifier name and model), so different collaborators never collide.
func Key(namespace, text string) string {
	hash := sha256.Sum256([]byte(namespace + "\x00" + text))
	return "cefrscope:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache described by the arguments: a layered memory+disk
// cache when dir is set, memory only otherwise.
func New(memoryTTL time.Duration, dir string, diskTTL time.Duration) Cache {
	if dir == "" {
		return NewMemoryCache(memoryTTL)
	}
	return NewLayeredCache(memoryTTL, dir, diskTTL)
}
