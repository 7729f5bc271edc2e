package features

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trial-pts/internal/metrics"
	"github.com/yourusername/trial-pts/internal/models"
)

// Feature column names, in training order. This ordering is the FeatureSchema
// every model trained on this preprocessor's output carries.
const (
	FeatureStartYear    = "start_year"
	FeatureEnrollment   = "enrollment"
	FeaturePhase        = "phase"
	FeatureCondition    = "condition"
	FeatureSponsorClass = "sponsor_class"
)

var categoricalColumns = []string{FeaturePhase, FeatureCondition, FeatureSponsorClass}

// Preprocessor converts raw trial records into datasets. Fit builds the
// vocabularies from training data; Transform applies them unchanged to any
// later batch, labeled or not. A fitted Preprocessor is immutable.
type Preprocessor struct {
	vocabs map[string]*Vocabulary
	schema models.FeatureSchema
	logger *logrus.Logger
}

// NewPreprocessor creates an unfitted preprocessor.
func NewPreprocessor(logger *logrus.Logger) *Preprocessor {
	return &Preprocessor{logger: logger}
}

// Schema returns the feature ordering produced by Transform. Nil before Fit.
func (p *Preprocessor) Schema() models.FeatureSchema {
	return p.schema.Clone()
}

// Fit builds one vocabulary per categorical column from the training records.
// Only records that would survive Transform contribute values, so the fitted
// vocabularies match the rows actually trained on.
func (p *Preprocessor) Fit(records []models.TrialRecord) error {
	if len(records) == 0 {
		return models.ErrEmptyDataset
	}

	columns := make(map[string][]string, len(categoricalColumns))
	for i := range records {
		r := &records[i]
		if _, err := r.ParseStartDate(); err != nil {
			continue
		}
		if _, err := outcomeLabel(r.Outcome); err != nil {
			continue
		}
		columns[FeaturePhase] = append(columns[FeaturePhase], r.Phase)
		columns[FeatureCondition] = append(columns[FeatureCondition], r.Condition)
		columns[FeatureSponsorClass] = append(columns[FeatureSponsorClass], r.SponsorClass)
	}

	vocabs := make(map[string]*Vocabulary, len(categoricalColumns))
	for _, col := range categoricalColumns {
		v, err := FitVocabulary(col, columns[col])
		if err != nil {
			return err
		}
		vocabs[col] = v
	}

	p.vocabs = vocabs
	p.schema = models.FeatureSchema{
		FeatureStartYear,
		FeatureEnrollment,
		FeaturePhase,
		FeatureCondition,
		FeatureSponsorClass,
	}
	return nil
}

// Transform encodes records into a dataset using the fitted vocabularies.
// When withLabels is true, records missing a valid outcome are dropped with a
// warning; otherwise outcomes are ignored entirely. Records whose date field
// fails to parse are always dropped with a warning. Returns the dataset and
// the number of dropped records.
func (p *Preprocessor) Transform(records []models.TrialRecord, withLabels bool) (*models.Dataset, int, error) {
	if p.vocabs == nil {
		return nil, 0, models.ErrNotFitted
	}

	ds := &models.Dataset{Schema: p.schema.Clone()}
	dropped := 0

	for i := range records {
		r := &records[i]

		start, err := r.ParseStartDate()
		if err != nil {
			p.dropRecord(r.NCTID, "start_date", fmt.Sprintf("unparseable date %q", r.StartDate))
			dropped++
			continue
		}

		var label int
		if withLabels {
			label, err = outcomeLabel(r.Outcome)
			if err != nil {
				p.dropRecord(r.NCTID, "outcome", err.Error())
				dropped++
				continue
			}
		}

		enrollment, err := strconv.ParseFloat(r.Enrollment, 64)
		if err != nil {
			// Missing enrollment is tolerated; the column is informative
			// but not required.
			enrollment = 0
		}

		vec := []float64{
			float64(start.Year()),
			enrollment,
			float64(p.vocabs[FeaturePhase].Encode(r.Phase)),
			float64(p.vocabs[FeatureCondition].Encode(r.Condition)),
			float64(p.vocabs[FeatureSponsorClass].Encode(r.SponsorClass)),
		}

		ds.IDs = append(ds.IDs, r.NCTID)
		ds.Features = append(ds.Features, vec)
		if withLabels {
			ds.Labels = append(ds.Labels, label)
		}
		metrics.RecordsProcessedTotal.Inc()
	}

	if ds.Len() == 0 {
		return nil, dropped, models.ErrEmptyDataset
	}
	return ds, dropped, nil
}

func (p *Preprocessor) dropRecord(nctID, field, reason string) {
	metrics.RecordsDroppedTotal.Inc()
	if p.logger == nil {
		return
	}
	dataErr := &models.DataError{NCTID: nctID, Field: field, Reason: reason}
	p.logger.WithFields(logrus.Fields{
		"nct_id": nctID,
		"field":  field,
	}).Warnf("Dropping record: %v", dataErr)
}

// outcomeLabel maps the outcome field to the binary training target.
func outcomeLabel(outcome string) (int, error) {
	switch outcome {
	case models.OutcomeSuccess:
		return 1, nil
	case models.OutcomeFailure:
		return 0, nil
	case "":
		return 0, fmt.Errorf("missing outcome")
	default:
		return 0, fmt.Errorf("unrecognized outcome %q", outcome)
	}
}
