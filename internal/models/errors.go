package models

import (
	"errors"
	"fmt"
	"strings"
)

// Custom errors
var (
	ErrEmptyColumn    = errors.New("categorical column has no values to fit")
	ErrEmptyDataset   = errors.New("dataset is empty")
	ErrNotFitted      = errors.New("preprocessor has not been fitted")
	ErrUnlabeledSplit = errors.New("stratified split requires a labeled dataset")
)

// DataError reports a single unusable record. The record is dropped and the
// run continues.
type DataError struct {
	NCTID  string
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error on %s: field %q: %s", e.NCTID, e.Field, e.Reason)
}

// SchemaError reports a feature schema that does not match the schema a model
// was trained on. Predictions against a mismatched schema would be
// meaningless, so this is fatal.
type SchemaError struct {
	Expected FeatureSchema
	Got      FeatureSchema
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("feature schema mismatch: model expects [%s], got [%s]",
		strings.Join(e.Expected, " "), strings.Join(e.Got, " "))
}

// TrainingError reports a training set from which nothing is learnable.
// Fatal: the run's premise is invalid.
type TrainingError struct {
	Reason string
}

func (e *TrainingError) Error() string {
	return "training error: " + e.Reason
}

// AcquisitionError reports a failed fetch for one identifier. The batch
// continues; the identifier is simply absent from the output.
type AcquisitionError struct {
	NCTID      string
	StatusCode int
	Err        error
}

func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acquisition failed for %s: %v", e.NCTID, e.Err)
	}
	return fmt.Sprintf("acquisition failed for %s: status %d", e.NCTID, e.StatusCode)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
