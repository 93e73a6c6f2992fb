package entities

import (
	"time"

	"localebatch/internal/domain"
)

// MIMEJSON is the structured output hint sent for JSON jobs.
const MIMEJSON = "application/json"

// SourceDocument is read once per job and never modified.
type SourceDocument struct {
	Path    string
	Format  Format
	Content string
}

// TranslationRequest is built fresh for every language.
type TranslationRequest struct {
	Language          Language
	Model             string
	SystemInstruction string
	Content           string
	Temperature       float32
	ResponseMIMEType  string // "" for free text
}

// Outcome is the terminal state of one language in a run.
type Outcome struct {
	Language     Language
	Status       string
	ArtifactPath string // set only when Status is succeeded
	ErrorCode    string
	ErrorMessage string
	Duration     time.Duration
	RecordedAt   time.Time
}

// Report collects the outcomes of one job run in table order.
type Report struct {
	RunID      string
	Job        string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

func (r *Report) count(status string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Succeeded() int { return r.count(domain.StatusSucceeded) }
func (r *Report) Failed() int    { return r.count(domain.StatusFailed) }

// FailedCodes lists the language codes that got no artifact.
func (r *Report) FailedCodes() []string {
	var codes []string
	for _, o := range r.Outcomes {
		if o.Status == domain.StatusFailed {
			codes = append(codes, o.Language.Code)
		}
	}
	return codes
}
