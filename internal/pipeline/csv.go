package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yourusername/trial-pts/internal/models"
)

// Column aliases accepted in input tables: the acquisition layer emits the
// registry's export names, hand-curated files use snake_case.
var columnAliases = map[string]string{
	"nctid":            "nct_id",
	"nct_id":           "nct_id",
	"brieftitle":       "title",
	"title":            "title",
	"phase":            "phase",
	"condition":        "condition",
	"leadsponsorclass": "sponsor_class",
	"sponsor_class":    "sponsor_class",
	"enrollmentcount":  "enrollment",
	"enrollment":       "enrollment",
	"startdate":        "start_date",
	"start_date":       "start_date",
	"outcome":          "outcome",
}

// ReadTrialRecords parses a CSV table into trial records. Column order is
// free; unknown columns are ignored.
func ReadTrialRecords(r io.Reader) ([]models.TrialRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read input table: %w", err)
	}
	if len(rows) < 1 {
		return nil, models.ErrEmptyDataset
	}

	index := make(map[string]int)
	for i, name := range rows[0] {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			index[canonical] = i
		}
	}
	if _, ok := index["nct_id"]; !ok {
		return nil, fmt.Errorf("input table has no recognizable identifier column")
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]models.TrialRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.TrialRecord{
			NCTID:        field(row, "nct_id"),
			Title:        field(row, "title"),
			Phase:        field(row, "phase"),
			Condition:    field(row, "condition"),
			SponsorClass: field(row, "sponsor_class"),
			Enrollment:   field(row, "enrollment"),
			StartDate:    field(row, "start_date"),
			Outcome:      field(row, "outcome"),
		})
	}
	return records, nil
}

// WriteScores writes the output table: one row per entity, keyed by
// identifier, with the derived pts_percent column.
func WriteScores(w io.Writer, scores []models.TrialScore) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"nct_id", "pts_percent"}); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	for i := range scores {
		row := []string{
			scores[i].NCTID,
			strconv.FormatFloat(scores[i].PTSPercent, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write score row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
