package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"localebatch/internal/application"
	"localebatch/internal/config"
	"localebatch/internal/domain/entities"
	"localebatch/internal/infrastructure/logging"
	"localebatch/pkg/discord"
)

var descriptionCmd = &cli.Command{
	Name:   entities.JobDescription,
	Usage:  "translate the store description (plain text)",
	Flags:  []cli.Flag{sourceFlag},
	Action: func(cctx *cli.Context) error { return runJobs(cctx, entities.JobDescription) },
}

var messagesCmd = &cli.Command{
	Name:   entities.JobMessages,
	Usage:  "translate the extension messages.json (JSON)",
	Flags:  []cli.Flag{sourceFlag},
	Action: func(cctx *cli.Context) error { return runJobs(cctx, entities.JobMessages) },
}

var allCmd = &cli.Command{
	Name:  "all",
	Usage: "run every configured job, one after another",
	Action: func(cctx *cli.Context) error {
		return runJobs(cctx, "")
	},
}

var languagesCmd = &cli.Command{
	Name:  "languages",
	Usage: "print the language table",
	Action: func(cctx *cli.Context) error {
		cfg, err := config.Load(overrides(cctx, ""))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cctx.App.Writer, 0, 4, 2, ' ', 0)
		for _, l := range cfg.Languages {
			fmt.Fprintf(w, "%s\t%s\n", l.Code, l.Name)
		}
		return w.Flush()
	},
}

var historyCmd = &cli.Command{
	Name:      "history",
	Usage:     "show the last recorded outcome per language (needs DATABASE_URL)",
	ArgsUsage: "<job>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return fmt.Errorf("expected exactly one job name")
		}
		cfg, logger, err := setup(cctx, "")
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		job, err := lookupJob(cfg, cctx.Args().First())
		if err != nil {
			return err
		}

		repo, closeLedger, err := newOutcomeRepository(cctx.Context, cfg, logger)
		if err != nil {
			return err
		}
		defer closeLedger()

		outcomes, err := application.NewHistoryService(repo).Latest(cctx.Context, job.Name, cfg.Languages)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cctx.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tSTATUS\tWHEN\tDETAIL")
		for _, o := range outcomes {
			status, when, detail := "never", "-", ""
			if o.Status != "" {
				status = o.Status
				when = discord.FormatRunTime(o.RecordedAt)
				detail = o.ArtifactPath
				if o.ErrorCode != "" {
					detail = discord.ErrorLabel(o.ErrorCode)
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Language.Code, status, when, detail)
		}
		return w.Flush()
	},
}

// lookupJob resolves a job name given on the command line.
func lookupJob(cfg *config.Config, name string) (entities.Job, error) {
	job, ok := cfg.Jobs[name]
	if !ok {
		return entities.Job{}, fmt.Errorf("unknown job %q (configured: %s)", name, strings.Join(cfg.JobNames(), ", "))
	}
	return job, nil
}

func setup(cctx *cli.Context, job string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(overrides(cctx, job))
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// runJobs runs job, or every configured job when job is "". Per-language
// failures do not change the exit status.
func runJobs(cctx *cli.Context, job string) error {
	cfg, logger, err := setup(cctx, job)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	svc, closeLedger, err := newBatchService(cctx.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLedger()

	names := []string{job}
	if job == "" {
		names = cfg.JobNames()
	}
	for _, name := range names {
		j, err := lookupJob(cfg, name)
		if err != nil {
			return err
		}
		report, err := svc.Run(cctx.Context, j)
		if report != nil {
			printSummary(cctx.App.Writer, report)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func printSummary(w io.Writer, report *entities.Report) {
	mark := "✅"
	if report.Failed() > 0 {
		mark = "⚠️"
	}
	fmt.Fprintf(w, "%s %s: %d/%d languages translated in %s", mark, report.Job, report.Succeeded(), len(report.Outcomes),
		discord.FormatElapsed(report.StartedAt, report.FinishedAt))
	if failed := report.FailedCodes(); len(failed) > 0 {
		fmt.Fprintf(w, " (failed: %v)", failed)
	}
	fmt.Fprintln(w)
}
