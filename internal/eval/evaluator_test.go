package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trial-pts/internal/models"
)

type fixedScorer struct {
	probs []float64
}

func (f *fixedScorer) PredictProba(ds *models.Dataset) ([]float64, error) {
	return f.probs, nil
}

func TestAUCPerfectRanking(t *testing.T) {
	labels := []int{0, 0, 1, 1}
	probs := []float64{0.1, 0.2, 0.8, 0.9}
	assert.Equal(t, 1.0, AUC(labels, probs))
}

func TestAUCReversedRanking(t *testing.T) {
	labels := []int{1, 1, 0, 0}
	probs := []float64{0.1, 0.2, 0.8, 0.9}
	assert.Equal(t, 0.0, AUC(labels, probs))
}

func TestAUCAllTied(t *testing.T) {
	labels := []int{0, 1, 0, 1}
	probs := []float64{0.5, 0.5, 0.5, 0.5}
	assert.Equal(t, 0.5, AUC(labels, probs))
}

func TestAUCSingleClass(t *testing.T) {
	assert.Equal(t, 0.5, AUC([]int{1, 1, 1}, []float64{0.2, 0.5, 0.9}))
	assert.Equal(t, 0.5, AUC([]int{0, 0}, []float64{0.3, 0.7}))
}

func TestAUCPartialOverlap(t *testing.T) {
	labels := []int{0, 1, 0, 1}
	probs := []float64{0.1, 0.4, 0.6, 0.9}
	// One of four positive/negative pairs is misordered.
	assert.InDelta(t, 0.75, AUC(labels, probs), 1e-9)
}

func TestAccuracyThreshold(t *testing.T) {
	labels := []int{0, 0, 1, 1}
	probs := []float64{0.2, 0.6, 0.4, 0.8}
	assert.InDelta(t, 0.5, Accuracy(labels, probs, 0.5), 1e-9)
	assert.InDelta(t, 0.75, Accuracy(labels, probs, 0.7), 1e-9)
	assert.Equal(t, 0.0, Accuracy(nil, nil, 0.5))
}

func TestEvaluateReport(t *testing.T) {
	ds := &models.Dataset{
		Schema:   models.FeatureSchema{"f0"},
		IDs:      []string{"a", "b", "c", "d"},
		Features: [][]float64{{1}, {2}, {3}, {4}},
		Labels:   []int{0, 0, 1, 1},
	}
	scorer := &fixedScorer{probs: []float64{0.1, 0.2, 0.8, 0.9}}

	report, err := Evaluate(scorer, ds)
	require.NoError(t, err)
	assert.Equal(t, 4, report.N)
	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, 1.0, report.AUC)
}

func TestEvaluateRequiresLabels(t *testing.T) {
	ds := &models.Dataset{
		Schema:   models.FeatureSchema{"f0"},
		IDs:      []string{"a"},
		Features: [][]float64{{1}},
	}
	_, err := Evaluate(&fixedScorer{}, ds)
	assert.ErrorIs(t, err, models.ErrUnlabeledSplit)
}
