package logger

import (
	"github.com/sirupsen/logrus"
)

// TrainingLogger provides dedicated logging for model training.
type TrainingLogger struct {
	*logrus.Entry
}

// NewTrainingLogger creates a new training logger.
func NewTrainingLogger(baseLogger *logrus.Logger) *TrainingLogger {
	return &TrainingLogger{
		Entry: baseLogger.WithField("component", "trainer"),
	}
}

// LogRound logs one boosting round.
func (tl *TrainingLogger) LogRound(round int, trainLoss, validationAUC float64) {
	tl.WithFields(logrus.Fields{
		"round":          round,
		"train_loss":     trainLoss,
		"validation_auc": validationAUC,
	}).Debug("Boosting round completed")
}

// LogTrainingComplete logs the final training outcome.
func (tl *TrainingLogger) LogTrainingComplete(roundsKept int, bestAUC, durationSeconds float64) {
	tl.WithFields(logrus.Fields{
		"rounds_kept":      roundsKept,
		"best_auc":         bestAUC,
		"duration_seconds": durationSeconds,
	}).Info("Model training completed")
}

// LogEvaluation logs diagnostic metrics for a labeled subset.
func (tl *TrainingLogger) LogEvaluation(subset string, n int, accuracy, auc float64) {
	tl.WithFields(logrus.Fields{
		"subset":   subset,
		"rows":     n,
		"accuracy": accuracy,
		"auc":      auc,
	}).Info("Evaluation completed")
}
