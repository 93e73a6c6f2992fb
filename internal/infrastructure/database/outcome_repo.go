package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"localebatch/internal/domain/entities"
	"localebatch/internal/ports/output"
)

var _ output.OutcomeRepository = (*OutcomeRepository)(nil)

const insertOutcome = `
INSERT INTO translation_outcomes
    (run_id, job, language_code, language_name, status, artifact_path, error_code, error_message, duration_ms, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))`

const latestOutcomesByJob = `
SELECT DISTINCT ON (language_code)
    run_id, job, language_code, language_name, status, artifact_path, error_code, error_message, duration_ms, recorded_at
FROM translation_outcomes
WHERE job = $1
ORDER BY language_code, recorded_at DESC, id DESC`

type OutcomeRepository struct {
	pool *pgxpool.Pool
}

func NewOutcomeRepository(pool *pgxpool.Pool) *OutcomeRepository {
	return &OutcomeRepository{pool: pool}
}

func (r *OutcomeRepository) Record(ctx context.Context, runID, job string, o entities.Outcome) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("record outcome: run id: %w", err)
	}
	_, err = r.pool.Exec(ctx, insertOutcome,
		pgtype.UUID{Bytes: id, Valid: true},
		job,
		o.Language.Code,
		o.Language.Name,
		o.Status,
		o.ArtifactPath,
		o.ErrorCode,
		o.ErrorMessage,
		o.Duration.Milliseconds(),
		timeToPgtypeTimestamptz(o.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

func (r *OutcomeRepository) LatestByJob(ctx context.Context, job string) ([]entities.Outcome, error) {
	rows, err := r.pool.Query(ctx, latestOutcomesByJob, job)
	if err != nil {
		return nil, fmt.Errorf("latest outcomes: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[outcomeRow])
	if err != nil {
		return nil, fmt.Errorf("latest outcomes: %w", err)
	}
	out := make([]entities.Outcome, 0, len(records))
	for _, rec := range records {
		out = append(out, outcomeToDomain(rec))
	}
	return out, nil
}

// NopOutcomeRepository is used when no database is configured.
type NopOutcomeRepository struct{}

func (NopOutcomeRepository) Record(context.Context, string, string, entities.Outcome) error {
	return nil
}

func (NopOutcomeRepository) LatestByJob(context.Context, string) ([]entities.Outcome, error) {
	return nil, fmt.Errorf("no run ledger configured: set DATABASE_URL")
}

var _ output.OutcomeRepository = NopOutcomeRepository{}
