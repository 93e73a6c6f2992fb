package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"localebatch/internal/adapters/discord"
	"localebatch/internal/application"
	"localebatch/internal/config"
	"localebatch/internal/infrastructure/database"
	"localebatch/internal/infrastructure/filesystem"
	"localebatch/internal/infrastructure/gemini"
	"localebatch/internal/infrastructure/i18n"
	"localebatch/internal/infrastructure/pacing"
	"localebatch/internal/ports/output"
)

// newOutcomeRepository connects the run ledger when DATABASE_URL is set.
// The returned func releases the pool.
func newOutcomeRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (output.OutcomeRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		return database.NopOutcomeRepository{}, func() {}, nil
	}
	if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		return nil, nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("run ledger: %w", err)
	}
	return database.NewOutcomeRepository(pool), pool.Close, nil
}

// newBatchService wires ports: output adapters -> application.
func newBatchService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application.BatchService, func(), error) {
	renderer, err := i18n.NewTranslator(cfg.InstructionsFile)
	if err != nil {
		return nil, nil, err
	}
	pacer, err := pacing.New(cfg.Pacing)
	if err != nil {
		return nil, nil, err
	}

	outcomes, closeLedger, err := newOutcomeRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var notifier output.Notifier = discord.NopNotifier{}
	if cfg.DiscordWebhookURL != "" {
		n, err := discord.NewNotifier(cfg.DiscordWebhookURL)
		if err != nil {
			closeLedger()
			return nil, nil, err
		}
		notifier = n
	}

	generator := gemini.NewClient(cfg.APIKey,
		gemini.WithBaseURL(cfg.BaseURL),
		gemini.WithTimeout(cfg.RequestTimeout),
		gemini.WithLogger(logger),
	)

	svc := application.NewBatchService(
		application.Settings{Languages: cfg.Languages, Model: cfg.Model, Brand: cfg.Brand},
		generator,
		renderer,
		pacer,
		filesystem.NewStore(),
		logger,
		application.WithOutcomeRepository(outcomes),
		application.WithNotifier(notifier),
	)
	return svc, closeLedger, nil
}
