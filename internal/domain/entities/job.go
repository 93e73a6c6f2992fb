package entities

import (
	"fmt"
	"strings"
)

// Format is the shape of a source document and of its translations.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// CodePlaceholder is replaced by the language code in Job.OutputPattern.
const CodePlaceholder = "{code}"

// Job names a source document and where its translations go.
type Job struct {
	Name          string
	SourcePath    string
	Format        Format
	OutputPattern string
}

// OutputPath is the artifact path for one language.
func (j Job) OutputPath(code string) string {
	return strings.ReplaceAll(j.OutputPattern, CodePlaceholder, code)
}

func (j Job) Validate() error {
	if strings.TrimSpace(j.SourcePath) == "" {
		return fmt.Errorf("job %q: source path is required", j.Name)
	}
	if j.Format != FormatText && j.Format != FormatJSON {
		return fmt.Errorf("job %q: unknown format %q", j.Name, j.Format)
	}
	if !strings.Contains(j.OutputPattern, CodePlaceholder) {
		return fmt.Errorf("job %q: output pattern %q must contain %s", j.Name, j.OutputPattern, CodePlaceholder)
	}
	return nil
}

// Built-in job names.
const (
	JobDescription = "description"
	JobMessages    = "messages"
)

// DefaultJobs returns the product description and extension messages jobs.
func DefaultJobs() map[string]Job {
	return map[string]Job{
		JobDescription: {
			Name:          JobDescription,
			SourcePath:    "description_en.txt",
			Format:        FormatText,
			OutputPattern: "output/description_{code}.txt",
		},
		JobMessages: {
			Name:          JobMessages,
			SourcePath:    "../../extension/_locales/en/messages.json",
			Format:        FormatJSON,
			OutputPattern: "output/{code}/messages.json",
		},
	}
}
