// Package repository provides Postgres persistence for acquired trials and
// computed scores.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yourusername/trial-pts/internal/database"
	"github.com/yourusername/trial-pts/internal/models"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = errors.New("record not found")

// TrialRepository stores and retrieves acquired trial records.
type TrialRepository interface {
	Upsert(ctx context.Context, record *models.TrialRecord) error
	GetByNCTID(ctx context.Context, nctID string) (*models.TrialRecord, error)
	List(ctx context.Context) ([]models.TrialRecord, error)
}

// ScoreRepository stores computed PTS scores per run.
type ScoreRepository interface {
	CreateBatch(ctx context.Context, scores []models.TrialScore) error
	GetByRun(ctx context.Context, runID uuid.UUID) ([]models.TrialScore, error)
}

// Repositories bundles all repository implementations.
type Repositories struct {
	Trials TrialRepository
	Scores ScoreRepository
}

// NewRepositories creates repository implementations backed by the pool.
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Trials: NewPostgresTrialRepository(db),
		Scores: NewPostgresScoreRepository(db),
	}
}
