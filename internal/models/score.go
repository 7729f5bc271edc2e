package models

import (
	"time"

	"github.com/google/uuid"
)

// TrialScore is one scored entity: the model's positive-class probability
// rescaled to a 0-100 percent-to-success value.
type TrialScore struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RunID      uuid.UUID `db:"run_id" json:"run_id" validate:"required"`
	NCTID      string    `db:"nct_id" json:"nct_id" validate:"required"`
	PTSPercent float64   `db:"pts_percent" json:"pts_percent" validate:"gte=0,lte=100"`
	ScoredAt   time.Time `db:"scored_at" json:"scored_at"`
}
