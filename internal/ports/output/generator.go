package output

import (
	"context"

	"localebatch/internal/domain/entities"
)

// Generator is the remote text-generation service. Implementations return
// the generated text or an error; they never retry.
type Generator interface {
	Generate(ctx context.Context, req entities.TranslationRequest) (string, error)
}
