package database

import (
	"context"
	"fmt"
)

// Schema DDL applied on startup when persistence is enabled. Kept idempotent
// so repeated runs against the same database are safe.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS trials (
    nct_id        TEXT PRIMARY KEY,
    title         TEXT NOT NULL DEFAULT '',
    phase         TEXT NOT NULL DEFAULT '',
    condition     TEXT NOT NULL DEFAULT '',
    sponsor_class TEXT NOT NULL DEFAULT '',
    enrollment    TEXT NOT NULL DEFAULT '',
    start_date    TEXT NOT NULL DEFAULT '',
    outcome       TEXT NOT NULL DEFAULT '',
    acquired_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scores (
    id          UUID PRIMARY KEY,
    run_id      UUID NOT NULL,
    nct_id      TEXT NOT NULL,
    pts_percent DOUBLE PRECISION NOT NULL CHECK (pts_percent >= 0 AND pts_percent <= 100),
    scored_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS scores_run_id_idx ON scores (run_id);
`

// Initialize applies the schema to the connected database.
func Initialize(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
