package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/trial-pts/internal/database"
	"github.com/yourusername/trial-pts/internal/models"
)

// PostgresScoreRepository implements ScoreRepository for PostgreSQL
type PostgresScoreRepository struct {
	db *database.DB
}

// NewPostgresScoreRepository creates a new score repository
func NewPostgresScoreRepository(db *database.DB) ScoreRepository {
	return &PostgresScoreRepository{db: db}
}

// CreateBatch inserts all scores of one run in a single transaction
func (r *PostgresScoreRepository) CreateBatch(ctx context.Context, scores []models.TrialScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO scores (id, run_id, nct_id, pts_percent, scored_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range scores {
		s := &scores[i]
		if _, err := tx.Exec(ctx, query, s.ID, s.RunID, s.NCTID, s.PTSPercent, s.ScoredAt); err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", s.NCTID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit scores: %w", err)
	}
	return nil
}

// GetByRun retrieves all scores of one run
func (r *PostgresScoreRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]models.TrialScore, error) {
	query := `
		SELECT id, run_id, nct_id, pts_percent, scored_at
		FROM scores WHERE run_id = $1 ORDER BY pts_percent DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []models.TrialScore
	for rows.Next() {
		var s models.TrialScore
		if err := rows.Scan(&s.ID, &s.RunID, &s.NCTID, &s.PTSPercent, &s.ScoredAt); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
