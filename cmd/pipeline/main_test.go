package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trial-pts/internal/models"
)

type recordingScoreRepo struct {
	scores []models.TrialScore
	gotRun uuid.UUID
}

func (r *recordingScoreRepo) CreateBatch(ctx context.Context, scores []models.TrialScore) error {
	r.scores = append(r.scores, scores...)
	return nil
}

func (r *recordingScoreRepo) GetByRun(ctx context.Context, runID uuid.UUID) ([]models.TrialScore, error) {
	r.gotRun = runID
	var out []models.TrialScore
	for _, s := range r.scores {
		if s.RunID == runID {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestExportRunScores(t *testing.T) {
	runID := uuid.New()
	repo := &recordingScoreRepo{scores: []models.TrialScore{
		{ID: uuid.New(), RunID: runID, NCTID: "NCT00000001", PTSPercent: 91.5},
		{ID: uuid.New(), RunID: runID, NCTID: "NCT00000002", PTSPercent: 12},
		{ID: uuid.New(), RunID: uuid.New(), NCTID: "NCT00000009", PTSPercent: 50},
	}}

	var buf bytes.Buffer
	require.NoError(t, exportRunScores(context.Background(), repo, runID, &buf))
	assert.Equal(t, runID, repo.gotRun)

	// Only the requested run's scores are exported.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "nct_id,pts_percent", lines[0])
	assert.Equal(t, "NCT00000001,91.50", lines[1])
	assert.Equal(t, "NCT00000002,12.00", lines[2])
}

func TestExportRunScoresUnknownRun(t *testing.T) {
	var buf bytes.Buffer
	err := exportRunScores(context.Background(), &recordingScoreRepo{}, uuid.New(), &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scores found")
	assert.Empty(t, buf.String())
}
