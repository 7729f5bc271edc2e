// Package eval computes diagnostic metrics for labeled datasets. Reported
// values are for human inspection only; nothing in the pipeline gates on them.
package eval

import (
	"sort"

	"github.com/yourusername/trial-pts/internal/models"
)

// ProbScorer is anything that can produce positive-class probabilities for a
// dataset.
type ProbScorer interface {
	PredictProba(ds *models.Dataset) ([]float64, error)
}

// Report holds discrimination and accuracy metrics for one labeled subset.
type Report struct {
	N        int     `json:"n"`
	Accuracy float64 `json:"accuracy"`
	AUC      float64 `json:"auc"`
}

// Evaluate scores a labeled dataset and reports accuracy at the 0.5 threshold
// plus AUC over the full probability range.
func Evaluate(scorer ProbScorer, ds *models.Dataset) (*Report, error) {
	if !ds.Labeled() {
		return nil, models.ErrUnlabeledSplit
	}
	probs, err := scorer.PredictProba(ds)
	if err != nil {
		return nil, err
	}
	return &Report{
		N:        ds.Len(),
		Accuracy: Accuracy(ds.Labels, probs, 0.5),
		AUC:      AUC(ds.Labels, probs),
	}, nil
}

// Accuracy returns the share of labels matched by thresholding probabilities.
func Accuracy(labels []int, probs []float64, threshold float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	correct := 0
	for i, y := range labels {
		pred := 0
		if probs[i] >= threshold {
			pred = 1
		}
		if pred == y {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}

// AUC returns the area under the ROC curve via the rank-sum (Mann-Whitney)
// statistic, with tied scores assigned their average rank. A single-class
// input carries no ranking information and returns 0.5.
func AUC(labels []int, probs []float64) float64 {
	n := len(labels)
	pos, neg := 0, 0
	for _, y := range labels {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] < probs[order[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && probs[order[j+1]] == probs[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var posRankSum float64
	for i, y := range labels {
		if y == 1 {
			posRankSum += ranks[i]
		}
	}
	u := posRankSum - float64(pos)*float64(pos+1)/2
	return u / (float64(pos) * float64(neg))
}
