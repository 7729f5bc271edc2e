package models

import "time"

// Outcome labels accepted on training records.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// TrialRecord represents a raw clinical trial record as delivered by the
// acquisition layer. All fields are kept as strings; parsing and encoding
// happen in the preprocessor so that bad values can be reported per record
// instead of failing the whole batch.
type TrialRecord struct {
	NCTID        string `json:"nct_id" validate:"required"`
	Title        string `json:"title"`
	Phase        string `json:"phase"`
	Condition    string `json:"condition"`
	SponsorClass string `json:"sponsor_class"`
	Enrollment   string `json:"enrollment"`
	StartDate    string `json:"start_date"`
	Outcome      string `json:"outcome,omitempty"`
}

// HasOutcome reports whether the record carries a training label.
func (r *TrialRecord) HasOutcome() bool {
	return r.Outcome != ""
}

// ParseStartDate parses the distinguished date field. Accepted layouts match
// what the registry export produces.
func (r *TrialRecord) ParseStartDate() (time.Time, error) {
	layouts := []string{"2006-01-02", "January 2, 2006", "2006-01", "2006"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, r.StartDate)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
