package output

import (
	"context"

	"localebatch/internal/domain/entities"
)

type OutcomeRepository interface {
	Record(ctx context.Context, runID, job string, outcome entities.Outcome) error
	// LatestByJob returns the most recent outcome of every language seen for job.
	LatestByJob(ctx context.Context, job string) ([]entities.Outcome, error)
}
