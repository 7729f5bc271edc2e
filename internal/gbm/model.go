package gbm

import (
	"math"

	"github.com/yourusername/trial-pts/internal/models"
)

// Model is a trained gradient-boosted ensemble. It is read-only after
// training; the feature schema it was trained on is part of its identity and
// is enforced on every dataset presented for prediction.
type Model struct {
	schema       models.FeatureSchema
	base         float64
	learningRate float64
	trees        []*treeNode
}

// Schema returns the feature names, in training order.
func (m *Model) Schema() models.FeatureSchema {
	return m.schema.Clone()
}

// Rounds returns the number of boosting rounds kept after early stopping.
func (m *Model) Rounds() int {
	return len(m.trees)
}

// PredictProba returns the positive-class probability for every row. The
// dataset's schema must match the training schema exactly in name and order;
// otherwise a SchemaError is returned and no scores are produced.
func (m *Model) PredictProba(ds *models.Dataset) ([]float64, error) {
	if !m.schema.Equal(ds.Schema) {
		return nil, &models.SchemaError{Expected: m.schema.Clone(), Got: ds.Schema.Clone()}
	}
	out := make([]float64, ds.Len())
	for i, x := range ds.Features {
		out[i] = sigmoid(m.rawScore(x))
	}
	return out, nil
}

func (m *Model) rawScore(x []float64) float64 {
	score := m.base
	for _, t := range m.trees {
		score += m.learningRate * t.predict(x)
	}
	return score
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
