package application

import (
	"context"
	"fmt"

	"localebatch/internal/domain/entities"
	"localebatch/internal/ports/output"
)

type HistoryService struct {
	outcomes output.OutcomeRepository
}

func NewHistoryService(outcomes output.OutcomeRepository) *HistoryService {
	return &HistoryService{outcomes: outcomes}
}

// Latest returns the last recorded outcome of each language of the table for
// job, in table order. Languages never attempted are returned with an empty
// Status.
func (s *HistoryService) Latest(ctx context.Context, job string, table entities.LanguageTable) ([]entities.Outcome, error) {
	recorded, err := s.outcomes.LatestByJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("latest outcomes for %s: %w", job, err)
	}
	byCode := make(map[string]entities.Outcome, len(recorded))
	for _, o := range recorded {
		byCode[o.Language.Code] = o
	}
	out := make([]entities.Outcome, 0, len(table))
	for _, lang := range table {
		o := byCode[lang.Code]
		o.Language = lang
		out = append(out, o)
	}
	return out, nil
}
