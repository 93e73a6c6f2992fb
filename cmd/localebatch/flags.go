package main

import (
	"github.com/urfave/cli/v2"

	"localebatch/internal/config"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:      "config",
		Usage:     "TOML file with model, rate, languages and jobs",
		EnvVars:   []string{"TRANSLATE_CONFIG"},
		TakesFile: true,
	},
	&cli.StringFlag{
		Name:  "model",
		Usage: "model identifier (default from GEMINI_MODEL or the config file)",
	},
	&cli.DurationFlag{
		Name:  "delay",
		Usage: "wait before each request under the fixed rate policy",
	},
	&cli.StringFlag{
		Name:  "rate-policy",
		Usage: "fixed, token-bucket or none",
	},
	&cli.Float64Flag{
		Name:  "rps",
		Usage: "requests per second for the token-bucket policy",
	},
	&cli.IntFlag{
		Name:  "burst",
		Usage: "burst size for the token-bucket policy",
	},
	&cli.StringSliceFlag{
		Name:  "only",
		Usage: "restrict the run to these language codes",
	},
	&cli.StringFlag{
		Name:  "out",
		Usage: "output directory replacing ./output",
	},
}

var sourceFlag = &cli.StringFlag{
	Name:      "source",
	Usage:     "source document replacing the job's default path",
	TakesFile: true,
}

// overrides maps command-line flags onto config.Overrides. source, when set,
// replaces the source path of job.
func overrides(cctx *cli.Context, job string) config.Overrides {
	ov := config.Overrides{
		ConfigFile: cctx.String("config"),
		Model:      cctx.String("model"),
		RatePolicy: cctx.String("rate-policy"),
		RPS:        cctx.Float64("rps"),
		Burst:      cctx.Int("burst"),
		Only:       cctx.StringSlice("only"),
		OutputDir:  cctx.String("out"),
	}
	if cctx.IsSet("delay") {
		d := cctx.Duration("delay")
		ov.Delay = &d
	}
	if job != "" && cctx.IsSet("source") {
		ov.SourcePaths = map[string]string{job: cctx.String("source")}
	}
	return ov
}
