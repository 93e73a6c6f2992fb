package discord

import "localebatch/internal/domain"

// ErrorLabel maps a domain error code to the short reason shown next to a
// failed language.
func ErrorLabel(code string) string {
	switch code {
	case domain.CodeTransport:
		return "request failed"
	case domain.CodeEmptyResponse:
		return "empty response"
	case domain.CodeInvalidJSON:
		return "invalid JSON"
	case domain.CodeWriteArtifact:
		return "write failed"
	case domain.CodeInstruction:
		return "bad instruction template"
	case domain.CodeInvalidSource:
		return "invalid source"
	default:
		return "unknown error"
	}
}

// ErrorMessage resolves the domain code of err to its label.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return ErrorLabel(domain.Code(err))
}
