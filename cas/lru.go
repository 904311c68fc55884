package cas

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/tracerec/record"
)

// LRUCache is a Store wrapper that caches decoded records using LRU eviction.
// Records are immutable, so cached values are shared between callers.
type LRUCache struct {
	underlying Store
	cache      *lru.Cache
	maxSize    int
}

// NewLRUCache creates a new LRU-cached Store wrapper.
// maxSize is the maximum number of entries to cache (0 or negative means the default)
func NewLRUCache(underlying Store, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1000 // Default cache size
	}
	cache, err := lru.NewWithEvict(maxSize, func(key, _ interface{}) {
		log.Trace().Uint64("hash", uint64(key.(Hash))).Msg("Evicted record from cache")
	})
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &LRUCache{
		underlying: underlying,
		cache:      cache,
		maxSize:    maxSize,
	}
}

// Put stores an item in the underlying Store and drops any cached copy, which
// may have been replaced by a decoded stack.
func (l *LRUCache) Put(rec record.ValueRecord) (Hash, error) {
	h, err := l.underlying.Put(rec)
	if err != nil {
		return h, err
	}
	l.cache.Remove(h)
	return h, nil
}

func (l *LRUCache) Has(hash Hash) bool {
	if l.cache.Contains(hash) {
		return true
	}
	return l.underlying.Has(hash)
}

func (l *LRUCache) Get(hash Hash) (record.ValueRecord, error) {
	if v, ok := l.cache.Get(hash); ok {
		return v.(record.ValueRecord), nil
	}
	v, err := l.underlying.Get(hash)
	if err != nil {
		return nil, err
	}
	l.cache.Add(hash, v)
	return v, nil
}

// CacheStats returns cache statistics for monitoring
type CacheStats struct {
	Size    int
	MaxSize int
}

func (l *LRUCache) Stats() CacheStats {
	return CacheStats{
		Size:    l.cache.Len(),
		MaxSize: l.maxSize,
	}
}
