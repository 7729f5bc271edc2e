package models

// FeatureSchema is the ordered list of feature names a model was trained on.
// It is part of the model's identity: every dataset presented for prediction
// must match it exactly in name and order.
type FeatureSchema []string

// Equal reports whether two schemas have the same names in the same order.
func (s FeatureSchema) Equal(other FeatureSchema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the schema.
func (s FeatureSchema) Clone() FeatureSchema {
	out := make(FeatureSchema, len(s))
	copy(out, s)
	return out
}

// Dataset is an ordered collection of feature vectors with optional binary
// labels. Row i of Features belongs to IDs[i] and, when labeled, Labels[i].
// A Dataset is built once by the preprocessor and never mutated afterwards.
type Dataset struct {
	Schema   FeatureSchema
	IDs      []string
	Features [][]float64
	Labels   []int
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Features)
}

// Labeled reports whether the dataset carries outcome labels.
func (d *Dataset) Labeled() bool {
	return len(d.Labels) == d.Len() && d.Len() > 0
}

// PositiveFraction returns the share of positive labels. Zero for unlabeled
// or empty datasets.
func (d *Dataset) PositiveFraction() float64 {
	if !d.Labeled() {
		return 0
	}
	pos := 0
	for _, y := range d.Labels {
		if y == 1 {
			pos++
		}
	}
	return float64(pos) / float64(len(d.Labels))
}
