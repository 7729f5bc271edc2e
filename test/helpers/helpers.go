// Package helpers provides shared fixtures for pipeline tests.
package helpers

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/yourusername/trial-pts/internal/models"
)

// BalancedTrialRecords returns n labeled records, half success and half
// failure. Successes carry phase "X" and failures phase "Y", so the outcome
// is learnable from a single categorical column.
func BalancedTrialRecords(t *testing.T, n int) []models.TrialRecord {
	t.Helper()

	records := make([]models.TrialRecord, 0, n)
	for i := 0; i < n; i++ {
		outcome, phase := models.OutcomeSuccess, "X"
		if i%2 == 1 {
			outcome, phase = models.OutcomeFailure, "Y"
		}
		records = append(records, models.TrialRecord{
			NCTID:        fmt.Sprintf("NCT%08d", i),
			Title:        fmt.Sprintf("Study %d", i),
			Phase:        phase,
			Condition:    "oncology",
			SponsorClass: "industry",
			Enrollment:   "100",
			StartDate:    "2015-06-01",
			Outcome:      outcome,
		})
	}
	return records
}

// SeparableDataset builds a labeled dataset where feature 0 perfectly
// separates the classes: positives sit in [1, 1.5], negatives in [-1, -0.5].
// Feature 1 is noise.
func SeparableDataset(t *testing.T, n int, seed int64) *models.Dataset {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	ds := &models.Dataset{Schema: models.FeatureSchema{"f0", "f1"}}
	for i := 0; i < n; i++ {
		label := i % 2
		base := float64(label)*2 - 1
		ds.IDs = append(ds.IDs, fmt.Sprintf("NCT%08d", i))
		ds.Features = append(ds.Features, []float64{base + rng.Float64()*0.5, rng.Float64()})
		ds.Labels = append(ds.Labels, label)
	}
	return ds
}

// SingleClassDataset builds a labeled dataset where every row carries the
// same label.
func SingleClassDataset(t *testing.T, n, label int) *models.Dataset {
	t.Helper()

	ds := &models.Dataset{Schema: models.FeatureSchema{"f0", "f1"}}
	for i := 0; i < n; i++ {
		ds.IDs = append(ds.IDs, fmt.Sprintf("NCT%08d", i))
		ds.Features = append(ds.Features, []float64{float64(i), float64(n - i)})
		ds.Labels = append(ds.Labels, label)
	}
	return ds
}
