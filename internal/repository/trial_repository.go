package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/trial-pts/internal/database"
	"github.com/yourusername/trial-pts/internal/models"
)

// PostgresTrialRepository implements TrialRepository for PostgreSQL
type PostgresTrialRepository struct {
	db *database.DB
}

// NewPostgresTrialRepository creates a new trial repository
func NewPostgresTrialRepository(db *database.DB) TrialRepository {
	return &PostgresTrialRepository{db: db}
}

// Upsert inserts or refreshes one acquired trial record
func (r *PostgresTrialRepository) Upsert(ctx context.Context, record *models.TrialRecord) error {
	query := `
		INSERT INTO trials (nct_id, title, phase, condition, sponsor_class, enrollment, start_date, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (nct_id) DO UPDATE SET
			title = EXCLUDED.title,
			phase = EXCLUDED.phase,
			condition = EXCLUDED.condition,
			sponsor_class = EXCLUDED.sponsor_class,
			enrollment = EXCLUDED.enrollment,
			start_date = EXCLUDED.start_date,
			outcome = EXCLUDED.outcome,
			acquired_at = now()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		record.NCTID, record.Title, record.Phase, record.Condition,
		record.SponsorClass, record.Enrollment, record.StartDate, record.Outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trial %s: %w", record.NCTID, err)
	}
	return nil
}

// GetByNCTID retrieves one trial record by identifier
func (r *PostgresTrialRepository) GetByNCTID(ctx context.Context, nctID string) (*models.TrialRecord, error) {
	query := `
		SELECT nct_id, title, phase, condition, sponsor_class, enrollment, start_date, outcome
		FROM trials WHERE nct_id = $1
	`

	record := &models.TrialRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, nctID).Scan(
		&record.NCTID, &record.Title, &record.Phase, &record.Condition,
		&record.SponsorClass, &record.Enrollment, &record.StartDate, &record.Outcome,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trial %s: %w", nctID, err)
	}
	return record, nil
}

// List retrieves all stored trial records
func (r *PostgresTrialRepository) List(ctx context.Context) ([]models.TrialRecord, error) {
	query := `
		SELECT nct_id, title, phase, condition, sponsor_class, enrollment, start_date, outcome
		FROM trials ORDER BY nct_id
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var records []models.TrialRecord
	for rows.Next() {
		var record models.TrialRecord
		if err := rows.Scan(
			&record.NCTID, &record.Title, &record.Phase, &record.Condition,
			&record.SponsorClass, &record.Enrollment, &record.StartDate, &record.Outcome,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trial row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
