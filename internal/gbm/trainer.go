package gbm

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trial-pts/internal/eval"
	"github.com/yourusername/trial-pts/internal/logger"
	"github.com/yourusername/trial-pts/internal/metrics"
	"github.com/yourusername/trial-pts/internal/models"
)

// TrainerConfig holds the boosting hyperparameters. No automated search is
// performed; these are fixed per run.
type TrainerConfig struct {
	Rounds         int
	LearningRate   float64
	MaxDepth       int
	MinSamplesLeaf int
	Lambda         float64
	Patience       int
}

// DefaultTrainerConfig returns recommended defaults.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Rounds:         200,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSamplesLeaf: 1,
		Lambda:         1.0,
		Patience:       10,
	}
}

// Trainer fits a boosted ensemble with early stopping on validation AUC.
type Trainer struct {
	cfg TrainerConfig
	log *logger.TrainingLogger
}

// NewTrainer creates a trainer. A nil logger disables progress logging.
func NewTrainer(cfg TrainerConfig, baseLogger *logrus.Logger) *Trainer {
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultTrainerConfig().Rounds
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultTrainerConfig().LearningRate
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultTrainerConfig().MaxDepth
	}
	if cfg.MinSamplesLeaf <= 0 {
		cfg.MinSamplesLeaf = 1
	}
	if cfg.Patience <= 0 {
		cfg.Patience = DefaultTrainerConfig().Patience
	}

	var tl *logger.TrainingLogger
	if baseLogger != nil {
		tl = logger.NewTrainingLogger(baseLogger)
	}
	return &Trainer{cfg: cfg, log: tl}
}

// Fit trains on the train subset, monitoring validation AUC after every
// boosting round. Training halts once the AUC has not improved for the
// configured patience window and the ensemble is truncated at the best round.
// The returned model carries the feature schema it was trained on.
func (t *Trainer) Fit(train, valid *models.Dataset) (*Model, error) {
	if !train.Labeled() || !valid.Labeled() {
		return nil, &models.TrainingError{Reason: "train and validation subsets must be labeled"}
	}
	if !train.Schema.Equal(valid.Schema) {
		return nil, &models.SchemaError{Expected: train.Schema.Clone(), Got: valid.Schema.Clone()}
	}

	pos := 0
	for _, y := range train.Labels {
		pos += y
	}
	if pos == 0 || pos == train.Len() {
		return nil, &models.TrainingError{
			Reason: fmt.Sprintf("train subset has a single class (%d positives of %d rows), nothing to discriminate", pos, train.Len()),
		}
	}

	started := time.Now()
	base := math.Log(float64(pos) / float64(train.Len()-pos))

	rawTrain := constants(train.Len(), base)
	rawValid := constants(valid.Len(), base)

	model := &Model{
		schema:       train.Schema.Clone(),
		base:         base,
		learningRate: t.cfg.LearningRate,
	}

	idx := make([]int, train.Len())
	for i := range idx {
		idx[i] = i
	}
	grad := make([]float64, train.Len())
	hess := make([]float64, train.Len())
	params := treeParams{
		maxDepth:       t.cfg.MaxDepth,
		minSamplesLeaf: t.cfg.MinSamplesLeaf,
		lambda:         t.cfg.Lambda,
	}

	bestAUC := math.Inf(-1)
	bestRound := 0
	sinceBest := 0

	for round := 1; round <= t.cfg.Rounds; round++ {
		var loss float64
		for i, y := range train.Labels {
			p := sigmoid(rawTrain[i])
			grad[i] = float64(y) - p
			hess[i] = p * (1 - p)
			loss -= float64(y)*math.Log(p+1e-12) + float64(1-y)*math.Log(1-p+1e-12)
		}
		loss /= float64(train.Len())

		tree := buildTree(train.Features, grad, hess, idx, 0, params)
		model.trees = append(model.trees, tree)

		for i, x := range train.Features {
			rawTrain[i] += t.cfg.LearningRate * tree.predict(x)
		}
		validProbs := make([]float64, valid.Len())
		for i, x := range valid.Features {
			rawValid[i] += t.cfg.LearningRate * tree.predict(x)
			validProbs[i] = sigmoid(rawValid[i])
		}

		auc := eval.AUC(valid.Labels, validProbs)
		if t.log != nil {
			t.log.LogRound(round, loss, auc)
		}

		if auc > bestAUC+1e-9 {
			bestAUC = auc
			bestRound = round
			sinceBest = 0
		} else {
			sinceBest++
			if sinceBest >= t.cfg.Patience {
				break
			}
		}
	}

	// Keep only the rounds up to the best validation AUC.
	model.trees = model.trees[:bestRound]

	elapsed := time.Since(started).Seconds()
	metrics.RecordTraining(bestRound, bestAUC, elapsed)
	if t.log != nil {
		t.log.LogTrainingComplete(bestRound, bestAUC, elapsed)
	}
	return model, nil
}

func constants(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
