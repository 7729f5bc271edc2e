package pipeline

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trial-pts/internal/config"
	"github.com/yourusername/trial-pts/internal/models"
	"github.com/yourusername/trial-pts/test/helpers"
)

func testPipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		TrainRatio:      0.8,
		Seed:            42,
		Rounds:          50,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesLeaf:  1,
		Lambda:          1.0,
		Patience:        10,
		CacheTTLSeconds: 60,
		CacheMaxSize:    1000,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestPipelineEndToEnd(t *testing.T) {
	train := helpers.BalancedTrialRecords(t, 100)

	// Held-out unlabeled record carrying the category every success shares.
	score := []models.TrialRecord{{
		NCTID:        "NCT99999999",
		Title:        "Held-out study",
		Phase:        "X",
		Condition:    "oncology",
		SponsorClass: "industry",
		Enrollment:   "100",
		StartDate:    "2015-06-01",
	}}

	p := New(testPipelineConfig(), quietLogger())
	result, err := p.Run(context.Background(), train, score)
	require.NoError(t, err)

	assert.Equal(t, 100, result.TrainRows)
	assert.Zero(t, result.DroppedTrain)
	require.NotNil(t, result.Validation)
	assert.Greater(t, result.Validation.AUC, 0.9)

	require.Len(t, result.Scores, 1)
	got := result.Scores[0]
	assert.Equal(t, "NCT99999999", got.NCTID)
	assert.GreaterOrEqual(t, got.PTSPercent, 0.0)
	assert.LessOrEqual(t, got.PTSPercent, 100.0)
	// Phase "X" is shared by every success in training, so the score leans
	// firmly toward success.
	assert.Greater(t, got.PTSPercent, 50.0)
}

func TestPipelineDeterministicAcrossRuns(t *testing.T) {
	train := helpers.BalancedTrialRecords(t, 100)
	score := []models.TrialRecord{{
		NCTID:      "NCT99999999",
		Phase:      "X",
		Condition:  "oncology",
		Enrollment: "100",
		StartDate:  "2015-06-01",
	}}
	score[0].SponsorClass = "industry"

	run := func() float64 {
		p := New(testPipelineConfig(), quietLogger())
		result, err := p.Run(context.Background(), train, score)
		require.NoError(t, err)
		require.Len(t, result.Scores, 1)
		return result.Scores[0].PTSPercent
	}

	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
}

func TestPipelineTrainOnly(t *testing.T) {
	train := helpers.BalancedTrialRecords(t, 60)

	p := New(testPipelineConfig(), quietLogger())
	result, err := p.Run(context.Background(), train, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Scores)
	assert.NotNil(t, result.Model)
	assert.Greater(t, result.Model.Rounds(), 0)
}

func TestPipelineSingleClassAborts(t *testing.T) {
	train := helpers.BalancedTrialRecords(t, 40)
	for i := range train {
		train[i].Outcome = models.OutcomeSuccess
		train[i].Phase = "X"
	}

	p := New(testPipelineConfig(), quietLogger())
	_, err := p.Run(context.Background(), train, nil)
	require.Error(t, err)

	var trainErr *models.TrainingError
	assert.ErrorAs(t, err, &trainErr)
}

func TestPipelineDropsBadRecordsAndContinues(t *testing.T) {
	train := helpers.BalancedTrialRecords(t, 50)
	train[3].StartDate = "garbage"
	train[4].Outcome = "indeterminate"

	p := New(testPipelineConfig(), quietLogger())
	result, err := p.Run(context.Background(), train, nil)
	require.NoError(t, err)

	assert.Equal(t, 48, result.TrainRows)
	assert.Equal(t, 2, result.DroppedTrain)
}
