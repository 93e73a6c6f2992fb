package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"localebatch/internal/domain"
	"localebatch/internal/domain/entities"
	"localebatch/internal/ports/input"
	"localebatch/internal/ports/output"
)

var _ input.BatchUseCase = (*BatchService)(nil)

// Settings are the per-process values the pipeline needs besides its ports.
type Settings struct {
	Languages entities.LanguageTable
	Model     string
	Brand     string
}

// BatchService translates one source document into every language of the
// table, strictly one language after another.
type BatchService struct {
	settings  Settings
	generator output.Generator
	renderer  output.InstructionRenderer
	pacer     output.Pacer
	store     output.DocumentStore
	outcomes  output.OutcomeRepository
	notifier  output.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*BatchService)

// WithOutcomeRepository records every outcome. Recording errors are logged only.
func WithOutcomeRepository(repo output.OutcomeRepository) Option {
	return func(s *BatchService) { s.outcomes = repo }
}

// WithNotifier publishes the report once a run finishes.
func WithNotifier(n output.Notifier) Option {
	return func(s *BatchService) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *BatchService) { s.now = now }
}

func NewBatchService(
	settings Settings,
	generator output.Generator,
	renderer output.InstructionRenderer,
	pacer output.Pacer,
	store output.DocumentStore,
	logger *zap.Logger,
	opts ...Option,
) *BatchService {
	s := &BatchService{
		settings:  settings,
		generator: generator,
		renderer:  renderer,
		pacer:     pacer,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *BatchService) Languages() entities.LanguageTable {
	return s.settings.Languages
}

// Run reads the job's source document once, then translates it into every
// language of the table. A failing language never stops the batch; the only
// errors returned are an unusable source document and context cancellation,
// in which case the report holds the languages finished so far.
func (s *BatchService) Run(ctx context.Context, job entities.Job) (*entities.Report, error) {
	doc, err := s.loadSource(ctx, job)
	if err != nil {
		return nil, err
	}

	report := &entities.Report{
		RunID:     uuid.NewString(),
		Job:       job.Name,
		StartedAt: s.now(),
	}
	log := s.logger.With(zap.String("job", job.Name), zap.String("run_id", report.RunID))

	for _, lang := range s.settings.Languages {
		if err := ctx.Err(); err != nil {
			return s.interrupted(report, log, err)
		}
		log.Info("translating", zap.String("language", lang.Code), zap.String("name", lang.Name))

		outcome, err := s.translate(ctx, job, doc, lang)
		if err != nil {
			return s.interrupted(report, log, err)
		}
		report.Outcomes = append(report.Outcomes, outcome)
		s.record(ctx, log, report.RunID, job.Name, outcome)
	}

	report.FinishedAt = s.now()
	log.Info("run finished",
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report); err != nil {
			log.Warn("notification failed", zap.Error(err))
		}
	}
	return report, nil
}

func (s *BatchService) interrupted(report *entities.Report, log *zap.Logger, err error) (*entities.Report, error) {
	report.FinishedAt = s.now()
	log.Warn("run interrupted", zap.Int("completed", len(report.Outcomes)), zap.Error(err))
	return report, err
}

func (s *BatchService) loadSource(ctx context.Context, job entities.Job) (entities.SourceDocument, error) {
	raw, err := s.store.Read(ctx, job.SourcePath)
	if err != nil {
		return entities.SourceDocument{}, fmt.Errorf("read source %s: %w", job.SourcePath, err)
	}
	if job.Format == entities.FormatJSON && !json.Valid(raw) {
		return entities.SourceDocument{}, fmt.Errorf("%w: %s is not valid JSON", domain.ErrInvalidSource, job.SourcePath)
	}
	return entities.SourceDocument{
		Path:    job.SourcePath,
		Format:  job.Format,
		Content: string(raw),
	}, nil
}

// translate returns a non-nil error only when ctx was canceled; every other
// failure becomes a failed outcome.
func (s *BatchService) translate(ctx context.Context, job entities.Job, doc entities.SourceDocument, lang entities.Language) (entities.Outcome, error) {
	start := s.now()
	outcome := entities.Outcome{Language: lang}

	path, err := s.attempt(ctx, job, doc, lang)
	if err != nil && ctx.Err() != nil {
		return outcome, ctx.Err()
	}

	outcome.Duration = s.now().Sub(start)
	outcome.RecordedAt = s.now()
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.ErrorCode = domain.Code(err)
		outcome.ErrorMessage = err.Error()
		s.logger.Error("failed to generate content",
			zap.String("job", job.Name),
			zap.String("language", lang.Code),
			zap.String("code", outcome.ErrorCode),
			zap.Error(err),
		)
		return outcome, nil
	}

	outcome.Status = domain.StatusSucceeded
	outcome.ArtifactPath = path
	s.logger.Info("artifact written", zap.String("language", lang.Code), zap.String("path", path))
	return outcome, nil
}

func (s *BatchService) attempt(ctx context.Context, job entities.Job, doc entities.SourceDocument, lang entities.Language) (string, error) {
	instruction, err := s.renderer.Instruction(job.Format, lang.Name, s.settings.Brand)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInstruction, err)
	}

	req := entities.TranslationRequest{
		Language:          lang,
		Model:             s.settings.Model,
		SystemInstruction: instruction,
		Content:           doc.Content,
		Temperature:       0,
	}
	if job.Format == entities.FormatJSON {
		req.ResponseMIMEType = entities.MIMEJSON
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return "", err
	}

	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		if domain.Code(err) == domain.CodeUnknown {
			err = fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyResponse
	}

	data := []byte(text)
	if job.Format == entities.FormatJSON {
		if data, err = normalizeJSON(text); err != nil {
			return "", err
		}
	}

	path := job.OutputPath(lang.Code)
	if err := s.store.Write(ctx, path, data); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrWriteArtifact, err)
	}
	return path, nil
}

func (s *BatchService) record(ctx context.Context, log *zap.Logger, runID, job string, outcome entities.Outcome) {
	if s.outcomes == nil {
		return
	}
	if err := s.outcomes.Record(ctx, runID, job, outcome); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("outcome not recorded", zap.String("language", outcome.Language.Code), zap.Error(err))
	}
}
