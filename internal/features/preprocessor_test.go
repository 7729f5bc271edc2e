package features

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trial-pts/internal/models"
	"github.com/yourusername/trial-pts/test/helpers"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestPreprocessorFitTransform(t *testing.T) {
	records := helpers.BalancedTrialRecords(t, 10)

	pre := NewPreprocessor(newTestLogger())
	require.NoError(t, pre.Fit(records))

	ds, dropped, err := pre.Transform(records, true)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, 10, ds.Len())
	assert.True(t, ds.Labeled())

	// Schema is the fixed training order.
	expected := models.FeatureSchema{
		FeatureStartYear, FeatureEnrollment, FeaturePhase, FeatureCondition, FeatureSponsorClass,
	}
	assert.True(t, expected.Equal(ds.Schema))

	// Outcome mapping: success -> 1, failure -> 0, alternating in fixture.
	assert.Equal(t, 1, ds.Labels[0])
	assert.Equal(t, 0, ds.Labels[1])

	// Date-derived year feature.
	assert.Equal(t, float64(2015), ds.Features[0][0])
	assert.Equal(t, float64(100), ds.Features[0][1])
}

func TestPreprocessorIdempotent(t *testing.T) {
	records := helpers.BalancedTrialRecords(t, 20)

	pre := NewPreprocessor(newTestLogger())
	require.NoError(t, pre.Fit(records))

	first, _, err := pre.Transform(records, true)
	require.NoError(t, err)
	second, _, err := pre.Transform(records, true)
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for i := range first.Features {
		assert.Equal(t, first.Features[i], second.Features[i])
	}
	assert.Equal(t, first.Labels, second.Labels)
}

func TestPreprocessorDropsBadRecords(t *testing.T) {
	records := helpers.BalancedTrialRecords(t, 4)
	records[1].StartDate = "not a date"
	records[2].Outcome = "maybe"

	pre := NewPreprocessor(newTestLogger())
	require.NoError(t, pre.Fit(records))

	ds, dropped, err := pre.Transform(records, true)
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 2, ds.Len())
}

func TestPreprocessorMissingOutcomeIgnoredForInference(t *testing.T) {
	train := helpers.BalancedTrialRecords(t, 4)
	pre := NewPreprocessor(newTestLogger())
	require.NoError(t, pre.Fit(train))

	infer := helpers.BalancedTrialRecords(t, 2)
	for i := range infer {
		infer[i].Outcome = ""
	}

	ds, dropped, err := pre.Transform(infer, false)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, 2, ds.Len())
	assert.False(t, ds.Labeled())
}

func TestPreprocessorUnknownCategoryAtInference(t *testing.T) {
	train := helpers.BalancedTrialRecords(t, 4)
	pre := NewPreprocessor(newTestLogger())
	require.NoError(t, pre.Fit(train))

	infer := helpers.BalancedTrialRecords(t, 1)
	infer[0].Phase = "Phase 99"
	infer[0].Outcome = ""

	ds, _, err := pre.Transform(infer, false)
	require.NoError(t, err)
	assert.Equal(t, float64(UnknownCode), ds.Features[0][2])
}

func TestPreprocessorRequiresFit(t *testing.T) {
	pre := NewPreprocessor(newTestLogger())
	_, _, err := pre.Transform(helpers.BalancedTrialRecords(t, 2), true)
	assert.ErrorIs(t, err, models.ErrNotFitted)
}
