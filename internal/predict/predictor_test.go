package predict

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trial-pts/internal/features"
	"github.com/yourusername/trial-pts/internal/gbm"
	"github.com/yourusername/trial-pts/test/helpers"
)

func trainedModel(t *testing.T) *gbm.Model {
	t.Helper()

	ds := helpers.SeparableDataset(t, 200, 1)
	train, valid, err := features.StratifiedSplit(ds, 0.8, 42)
	require.NoError(t, err)

	model, err := gbm.NewTrainer(gbm.DefaultTrainerConfig(), nil).Fit(train, valid)
	require.NoError(t, err)
	return model
}

func TestScoreBounds(t *testing.T) {
	model := trainedModel(t)
	ds := helpers.SeparableDataset(t, 50, 7)

	predictor := NewPredictor(model, nil, nil)
	scores, err := predictor.Score(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, scores, 50)

	for _, s := range scores {
		assert.GreaterOrEqual(t, s.PTSPercent, 0.0)
		assert.LessOrEqual(t, s.PTSPercent, 100.0)
		assert.Equal(t, predictor.RunID(), s.RunID)
		assert.NotEmpty(t, s.NCTID)
	}
}

func TestScoreDeterministic(t *testing.T) {
	model := trainedModel(t)
	ds := helpers.SeparableDataset(t, 20, 9)

	first, err := NewPredictor(model, nil, nil).Score(context.Background(), ds)
	require.NoError(t, err)
	second, err := NewPredictor(model, nil, nil).Score(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].PTSPercent, second[i].PTSPercent)
	}
}

func TestScoreTracksProbabilityOrdering(t *testing.T) {
	model := trainedModel(t)
	ds := helpers.SeparableDataset(t, 40, 11)

	scores, err := NewPredictor(model, nil, nil).Score(context.Background(), ds)
	require.NoError(t, err)

	// Positive rows sit far above negatives on the separating feature, so
	// their percent scores must rank above every negative row's score.
	var minPos, maxNeg float64 = 101, -1
	for i, s := range scores {
		if ds.Labels[i] == 1 {
			if s.PTSPercent < minPos {
				minPos = s.PTSPercent
			}
		} else if s.PTSPercent > maxNeg {
			maxNeg = s.PTSPercent
		}
	}
	assert.Greater(t, minPos, maxNeg)
}

func TestScoreSchemaMismatch(t *testing.T) {
	model := trainedModel(t)
	ds := helpers.SeparableDataset(t, 10, 13)
	ds.Schema = append(ds.Schema, "extra")

	_, err := NewPredictor(model, nil, nil).Score(context.Background(), ds)
	assert.Error(t, err)
}

func TestScorePopulatesCache(t *testing.T) {
	model := trainedModel(t)
	ds := helpers.SeparableDataset(t, 10, 17)

	scoreCache := NewScoreCache(time.Minute, 100)
	predictor := NewPredictor(model, scoreCache, nil)

	scores, err := predictor.Score(context.Background(), ds)
	require.NoError(t, err)

	for _, s := range scores {
		cached := scoreCache.Get(context.Background(), CacheKey{RunID: predictor.RunID(), NCTID: s.NCTID})
		require.NotNil(t, cached)
		assert.Equal(t, s.PTSPercent, cached.PTSPercent)
	}
}

func TestScoreSecondCallServedFromCache(t *testing.T) {
	model := trainedModel(t)
	ds := helpers.SeparableDataset(t, 10, 19)

	scoreCache := NewScoreCache(time.Minute, 100)
	predictor := NewPredictor(model, scoreCache, nil)

	first, err := predictor.Score(context.Background(), ds)
	require.NoError(t, err)
	second, err := predictor.Score(context.Background(), ds)
	require.NoError(t, err)

	// Every row of the second call is served from cache: identical score
	// rows, IDs and timestamps included, with one hit per row.
	hits, _ := scoreCache.Stats()
	assert.Equal(t, uint64(10), hits)
	assert.Equal(t, first, second)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, clampPercent(-3))
	assert.Equal(t, 100.0, clampPercent(250))
	assert.Equal(t, 42.5, clampPercent(42.5))
}
