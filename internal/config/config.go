package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"localebatch/internal/domain/entities"
	"localebatch/internal/infrastructure/gemini"
	"localebatch/internal/infrastructure/pacing"
)

// DefaultBrand is the term every instruction keeps untranslated.
const DefaultBrand = "Gemini"

type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	RequestTimeout time.Duration
	Brand          string

	// InstructionsFile optionally overrides the embedded instruction templates.
	InstructionsFile string

	Pacing    pacing.Config
	Languages entities.LanguageTable
	Jobs      map[string]entities.Job

	DatabaseURL       string
	DiscordWebhookURL string
	LogLevel          string
}

// Overrides are command-line values applied after the environment. Zero
// values leave the loaded configuration untouched.
type Overrides struct {
	ConfigFile  string
	Model       string
	Delay       *time.Duration
	RatePolicy  string
	RPS         float64
	Burst       int
	Only        []string
	OutputDir   string
	SourcePaths map[string]string
}

// fileConfig is the TOML layout of the optional configuration file.
type fileConfig struct {
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	RequestTimeout string `toml:"request_timeout"`
	Brand          string `toml:"brand"`
	Instructions   string `toml:"instructions"`

	Rate struct {
		Policy string  `toml:"policy"`
		Delay  string  `toml:"delay"`
		RPS    float64 `toml:"rps"`
		Burst  int     `toml:"burst"`
	} `toml:"rate"`

	Languages []struct {
		Code string `toml:"code"`
		Name string `toml:"name"`
	} `toml:"languages"`

	Jobs map[string]struct {
		Source string `toml:"source"`
		Format string `toml:"format"`
		Output string `toml:"output"`
	} `toml:"jobs"`
}

// Load builds the configuration from defaults, the optional TOML file
// (ov.ConfigFile, else TRANSLATE_CONFIG), the environment and finally ov, then
// validates it.
func Load(ov Overrides) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when the variables come from the environment (shell, CI).
	}

	cfg := defaults()

	path := ov.ConfigFile
	if path == "" {
		path = os.Getenv("TRANSLATE_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.apply(ov); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Model:  gemini.DefaultModel,
		Brand:  DefaultBrand,
		Pacing: pacing.Config{Policy: pacing.PolicyFixed, Delay: pacing.DefaultDelay},

		Languages: entities.DefaultLanguageTable(),
		Jobs:      entities.DefaultJobs(),
	}
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: file %s not found", path)
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setString(&c.Model, fc.Model)
	setString(&c.BaseURL, fc.BaseURL)
	setString(&c.Brand, fc.Brand)
	setString(&c.InstructionsFile, fc.Instructions)
	if err := setDuration(&c.RequestTimeout, fc.RequestTimeout, "request_timeout"); err != nil {
		return err
	}

	setString(&c.Pacing.Policy, fc.Rate.Policy)
	if err := setDuration(&c.Pacing.Delay, fc.Rate.Delay, "rate.delay"); err != nil {
		return err
	}
	if fc.Rate.RPS != 0 {
		c.Pacing.RPS = fc.Rate.RPS
	}
	if fc.Rate.Burst != 0 {
		c.Pacing.Burst = fc.Rate.Burst
	}

	if len(fc.Languages) > 0 {
		table := make(entities.LanguageTable, 0, len(fc.Languages))
		for _, l := range fc.Languages {
			name := strings.TrimSpace(l.Name)
			if name == "" {
				name = entities.DisplayName(l.Code)
			}
			table = append(table, entities.Language{Code: strings.TrimSpace(l.Code), Name: name})
		}
		c.Languages = table
	}

	for name, j := range fc.Jobs {
		job, ok := c.Jobs[name]
		if !ok {
			job = entities.Job{Name: name, Format: entities.FormatText}
		}
		setString(&job.SourcePath, j.Source)
		setString(&job.OutputPattern, j.Output)
		if j.Format != "" {
			job.Format = entities.Format(strings.ToLower(j.Format))
		}
		c.Jobs[name] = job
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.APIKey = os.Getenv("GEMINI_API_KEY")
	setString(&c.Model, os.Getenv("GEMINI_MODEL"))
	setString(&c.BaseURL, os.Getenv("GEMINI_BASE_URL"))
	setString(&c.DatabaseURL, os.Getenv("DATABASE_URL"))
	setString(&c.DiscordWebhookURL, os.Getenv("DISCORD_WEBHOOK_URL"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.Pacing.Policy, os.Getenv("TRANSLATE_RATE_POLICY"))
	if err := setDuration(&c.Pacing.Delay, os.Getenv("TRANSLATE_DELAY"), "TRANSLATE_DELAY"); err != nil {
		return err
	}
	return setDuration(&c.RequestTimeout, os.Getenv("REQUEST_TIMEOUT"), "REQUEST_TIMEOUT")
}

func (c *Config) apply(ov Overrides) error {
	setString(&c.Model, ov.Model)
	setString(&c.Pacing.Policy, ov.RatePolicy)
	if ov.Delay != nil {
		c.Pacing.Delay = *ov.Delay
	}
	if ov.RPS != 0 {
		c.Pacing.RPS = ov.RPS
	}
	if ov.Burst != 0 {
		c.Pacing.Burst = ov.Burst
	}

	for name, src := range ov.SourcePaths {
		job, ok := c.Jobs[name]
		if !ok {
			return fmt.Errorf("config: unknown job %q", name)
		}
		job.SourcePath = src
		c.Jobs[name] = job
	}
	if ov.OutputDir != "" {
		for name, job := range c.Jobs {
			job.OutputPattern = rebaseOutput(job.OutputPattern, ov.OutputDir)
			c.Jobs[name] = job
		}
	}

	if len(ov.Only) > 0 {
		table, err := c.Languages.Filter(ov.Only)
		if err != nil {
			return fmt.Errorf("config: --only: %w", err)
		}
		c.Languages = table
	}
	return nil
}

// rebaseOutput replaces the first path element of the default "output/..."
// patterns with dir; other patterns are joined under dir.
func rebaseOutput(pattern, dir string) string {
	dir = strings.TrimSuffix(dir, "/")
	if rest, ok := strings.CutPrefix(pattern, "output/"); ok {
		return dir + "/" + rest
	}
	return dir + "/" + strings.TrimPrefix(pattern, "/")
}

// validate applies every rule on the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("config: model is required")
	}
	if strings.TrimSpace(c.Brand) == "" {
		return fmt.Errorf("config: brand is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request timeout cannot be negative")
	}

	if err := c.Languages.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, name := range c.JobNames() {
		if err := c.Jobs[name].Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if _, err := pacing.New(c.Pacing); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.BaseURL != "" {
		if err := validateURL("GEMINI_BASE_URL", c.BaseURL); err != nil {
			return err
		}
	}
	if c.DatabaseURL != "" {
		if err := validateURL("DATABASE_URL", c.DatabaseURL); err != nil {
			return err
		}
	}
	if c.DiscordWebhookURL != "" {
		if err := validateURL("DISCORD_WEBHOOK_URL", c.DiscordWebhookURL); err != nil {
			return err
		}
	}
	return nil
}

// JobNames returns the configured job names, sorted.
func (c *Config) JobNames() []string {
	names := make([]string, 0, len(c.Jobs))
	for name := range c.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateURL(name, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s invalid (%q): %w", name, raw, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: %s invalid (%q): missing scheme or host", name, raw)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, field string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s invalid (%q): %w", field, v, err)
	}
	*dst = d
	return nil
}
