package input

import (
	"context"

	"localebatch/internal/domain/entities"
)

type BatchUseCase interface {
	Run(ctx context.Context, job entities.Job) (*entities.Report, error)
	Languages() entities.LanguageTable
}
