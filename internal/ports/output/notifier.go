package output

import (
	"context"

	"localebatch/internal/domain/entities"
)

// Notifier publishes a finished report.
type Notifier interface {
	Notify(ctx context.Context, report *entities.Report) error
}
