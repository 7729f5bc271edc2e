package predict

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trial-pts/internal/models"
)

func TestScoreCacheSetGet(t *testing.T) {
	sc := NewScoreCache(time.Minute, 10)
	ctx := context.Background()

	key := CacheKey{RunID: uuid.New(), NCTID: "NCT00000001"}
	score := &models.TrialScore{ID: uuid.New(), RunID: key.RunID, NCTID: key.NCTID, PTSPercent: 73.2}

	assert.Nil(t, sc.Get(ctx, key))
	sc.Set(ctx, key, score)

	got := sc.Get(ctx, key)
	require.NotNil(t, got)
	assert.Equal(t, 73.2, got.PTSPercent)

	hits, misses := sc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestScoreCacheExpiration(t *testing.T) {
	sc := NewScoreCache(10*time.Millisecond, 10)
	ctx := context.Background()

	key := CacheKey{RunID: uuid.New(), NCTID: "NCT00000002"}
	sc.Set(ctx, key, &models.TrialScore{NCTID: key.NCTID})

	require.NotNil(t, sc.Get(ctx, key))
	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, sc.Get(ctx, key))
}

func TestScoreCacheClear(t *testing.T) {
	sc := NewScoreCache(time.Minute, 10)
	ctx := context.Background()

	key := CacheKey{RunID: uuid.New(), NCTID: "NCT00000003"}
	sc.Set(ctx, key, &models.TrialScore{NCTID: key.NCTID})
	sc.Clear()

	assert.Nil(t, sc.Get(ctx, key))
	hits, misses := sc.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheKeyString(t *testing.T) {
	runID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	key := CacheKey{RunID: runID, NCTID: "NCT007"}
	assert.Equal(t, "11111111-2222-3333-4444-555555555555:NCT007", key.String())
}
