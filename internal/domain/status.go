package domain

// Per-language outcome statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)
