// Package predict applies a trained model to unlabeled records and produces
// percent-to-success scores.
package predict

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/trial-pts/internal/gbm"
	"github.com/yourusername/trial-pts/internal/metrics"
	"github.com/yourusername/trial-pts/internal/models"
)

// Predictor scores datasets with a fixed, read-only model. Scoring is
// deterministic: the same model and input always produce the same scores.
// The probability of the positive class, rescaled to 0-100, stands in for a
// percent-to-success value; no calibration is applied.
type Predictor struct {
	model  *gbm.Model
	runID  uuid.UUID
	cache  *ScoreCache
	logger *logrus.Logger
}

// NewPredictor creates a predictor for one scoring run. A nil cache disables
// caching.
func NewPredictor(model *gbm.Model, cache *ScoreCache, logger *logrus.Logger) *Predictor {
	return &Predictor{
		model:  model,
		runID:  uuid.New(),
		cache:  cache,
		logger: logger,
	}
}

// RunID identifies this scoring run.
func (p *Predictor) RunID() uuid.UUID {
	return p.runID
}

// Score produces one TrialScore per dataset row. Identifiers already scored
// in this run are served from the cache; only the misses go through the
// model. The dataset must have been produced by the same preprocessor the
// model was trained with; a schema mismatch is fatal and returns a
// SchemaError.
func (p *Predictor) Score(ctx context.Context, ds *models.Dataset) ([]models.TrialScore, error) {
	started := time.Now()

	if schema := p.model.Schema(); !schema.Equal(ds.Schema) {
		return nil, &models.SchemaError{Expected: schema, Got: ds.Schema.Clone()}
	}

	scores := make([]models.TrialScore, ds.Len())
	var missIdx []int
	hits := 0
	for i, nctID := range ds.IDs {
		if p.cache != nil {
			if cached := p.cache.Get(ctx, CacheKey{RunID: p.runID, NCTID: nctID}); cached != nil {
				scores[i] = *cached
				hits++
				continue
			}
		}
		missIdx = append(missIdx, i)
	}

	if len(missIdx) > 0 {
		miss := &models.Dataset{
			Schema:   ds.Schema,
			IDs:      make([]string, len(missIdx)),
			Features: make([][]float64, len(missIdx)),
		}
		for k, i := range missIdx {
			miss.IDs[k] = ds.IDs[i]
			miss.Features[k] = ds.Features[i]
		}

		probs, err := p.model.PredictProba(miss)
		if err != nil {
			return nil, err
		}

		scoredAt := time.Now().UTC()
		for k, i := range missIdx {
			score := models.TrialScore{
				ID:         uuid.New(),
				RunID:      p.runID,
				NCTID:      ds.IDs[i],
				PTSPercent: clampPercent(probs[k] * 100),
				ScoredAt:   scoredAt,
			}
			scores[i] = score
			if p.cache != nil {
				p.cache.Set(ctx, CacheKey{RunID: p.runID, NCTID: score.NCTID}, &score)
			}
			metrics.ScoresComputedTotal.Inc()
		}
	}

	metrics.ScoringDuration.Observe(time.Since(started).Seconds())
	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"run_id":     p.runID,
			"rows":       len(scores),
			"cache_hits": hits,
		}).Info("Scoring completed")
	}
	return scores, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
