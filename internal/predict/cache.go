package predict

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/trial-pts/internal/models"
)

// CacheKey uniquely identifies one score within one run.
type CacheKey struct {
	RunID uuid.UUID
	NCTID string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.RunID, k.NCTID)
}

// ScoreCache provides in-memory TTL caching for computed scores.
type ScoreCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewScoreCache creates a new score cache.
func NewScoreCache(ttl time.Duration, maxSize int) *ScoreCache {
	return &ScoreCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached score, or nil when absent.
func (sc *ScoreCache) Get(_ context.Context, key CacheKey) *models.TrialScore {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if result, found := sc.cache.Get(key.String()); found {
		if score, ok := result.(*models.TrialScore); ok {
			sc.hitCount++
			return score
		}
	}
	sc.missCount++
	return nil
}

// Set stores a score in cache.
func (sc *ScoreCache) Set(_ context.Context, key CacheKey, score *models.TrialScore) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.cache.ItemCount() >= sc.maxSize {
		sc.cache.DeleteExpired()
	}
	sc.cache.Set(key.String(), score, sc.ttl)
}

// Clear removes all cached scores.
func (sc *ScoreCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.Flush()
	sc.hitCount = 0
	sc.missCount = 0
}

// Stats returns hit and miss counts.
func (sc *ScoreCache) Stats() (hits, misses uint64) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.hitCount, sc.missCount
}
