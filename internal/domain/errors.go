package domain

import "errors"

// Domain errors.
var (
	ErrTransport     = errors.New("remote call failed")
	ErrEmptyResponse = errors.New("response has no text content")
	ErrInvalidJSON   = errors.New("response is not valid JSON")
	ErrWriteArtifact = errors.New("artifact could not be written")
	ErrInstruction   = errors.New("system instruction could not be rendered")
	ErrInvalidSource = errors.New("source document is invalid")
)

// Error codes, stable across releases. They are persisted by the run ledger
// and shown in notifications.
const (
	CodeTransport     = "transport"
	CodeEmptyResponse = "empty_response"
	CodeInvalidJSON   = "invalid_json"
	CodeWriteArtifact = "write_artifact"
	CodeInstruction   = "instruction"
	CodeInvalidSource = "invalid_source"
	CodeUnknown       = "unknown"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrEmptyResponse, CodeEmptyResponse},
	{ErrInvalidJSON, CodeInvalidJSON},
	{ErrWriteArtifact, CodeWriteArtifact},
	{ErrInstruction, CodeInstruction},
	{ErrInvalidSource, CodeInvalidSource},
	{ErrTransport, CodeTransport},
}

// Code returns the stable code of the first domain error found in err's
// chain, "" for a nil error and CodeUnknown otherwise.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}
