// Package pipeline orchestrates the batch run: preprocess, split, train,
// evaluate, score. Each stage consumes the full output of the previous one;
// every artifact is immutable once produced.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/trial-pts/internal/config"
	"github.com/yourusername/trial-pts/internal/eval"
	"github.com/yourusername/trial-pts/internal/features"
	"github.com/yourusername/trial-pts/internal/gbm"
	"github.com/yourusername/trial-pts/internal/logger"
	"github.com/yourusername/trial-pts/internal/metrics"
	"github.com/yourusername/trial-pts/internal/models"
	"github.com/yourusername/trial-pts/internal/predict"
)

// Pipeline wires the stages together for one run.
type Pipeline struct {
	cfg    *config.PipelineConfig
	logger *logrus.Logger
}

// Result holds everything one run produced.
type Result struct {
	RunID        uuid.UUID
	Model        *gbm.Model
	Validation   *eval.Report
	Scores       []models.TrialScore
	TrainRows    int
	DroppedTrain int
	ScoreRows    int
	DroppedScore int
}

// New creates a pipeline.
func New(cfg *config.PipelineConfig, log *logrus.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: log}
}

// Run executes the full pipeline: fit the preprocessor on the training
// records, stratified-split, train with early stopping, evaluate on the
// validation subset, then score the unlabeled records with the SAME fitted
// preprocessor and model schema. Per-record problems are dropped and logged;
// a single-class train subset or a schema mismatch aborts the run.
func (p *Pipeline) Run(ctx context.Context, trainRecords, scoreRecords []models.TrialRecord) (*Result, error) {
	pre := features.NewPreprocessor(p.logger)
	if err := pre.Fit(trainRecords); err != nil {
		return nil, err
	}

	trainDS, droppedTrain, err := pre.Transform(trainRecords, true)
	if err != nil {
		return nil, err
	}
	p.logger.WithFields(logrus.Fields{
		"rows":    trainDS.Len(),
		"dropped": droppedTrain,
	}).Info("Preprocessing completed")

	train, valid, err := features.StratifiedSplit(trainDS, p.cfg.TrainRatio, p.cfg.Seed)
	if err != nil {
		return nil, err
	}
	p.logger.WithFields(logrus.Fields{
		"train_rows":     train.Len(),
		"valid_rows":     valid.Len(),
		"train_pos_frac": train.PositiveFraction(),
		"valid_pos_frac": valid.PositiveFraction(),
	}).Info("Stratified split completed")

	trainer := gbm.NewTrainer(gbm.TrainerConfig{
		Rounds:         p.cfg.Rounds,
		LearningRate:   p.cfg.LearningRate,
		MaxDepth:       p.cfg.MaxDepth,
		MinSamplesLeaf: p.cfg.MinSamplesLeaf,
		Lambda:         p.cfg.Lambda,
		Patience:       p.cfg.Patience,
	}, p.logger)

	model, err := trainer.Fit(train, valid)
	if err != nil {
		return nil, err
	}

	report, err := eval.Evaluate(model, valid)
	if err != nil {
		return nil, err
	}
	metrics.ValidationAccuracy.Set(report.Accuracy)
	logger.NewTrainingLogger(p.logger).LogEvaluation("validation", report.N, report.Accuracy, report.AUC)

	result := &Result{
		Model:        model,
		Validation:   report,
		TrainRows:    trainDS.Len(),
		DroppedTrain: droppedTrain,
	}

	if len(scoreRecords) > 0 {
		scoreDS, droppedScore, err := pre.Transform(scoreRecords, false)
		if err != nil {
			return nil, err
		}

		cache := predict.NewScoreCache(
			time.Duration(p.cfg.CacheTTLSeconds)*time.Second, p.cfg.CacheMaxSize)
		predictor := predict.NewPredictor(model, cache, p.logger)

		scores, err := predictor.Score(ctx, scoreDS)
		if err != nil {
			return nil, err
		}
		result.RunID = predictor.RunID()
		result.Scores = scores
		result.ScoreRows = scoreDS.Len()
		result.DroppedScore = droppedScore
	}

	p.logger.WithFields(logrus.Fields{
		"train_rows":          result.TrainRows,
		"dropped_train":       result.DroppedTrain,
		"scored_rows":         len(result.Scores),
		"dropped_score":       result.DroppedScore,
		"validation_accuracy": report.Accuracy,
		"validation_auc":      report.AUC,
		"model_rounds":        model.Rounds(),
	}).Info("Pipeline run completed")

	return result, nil
}
