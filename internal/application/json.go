package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"localebatch/internal/domain"
)

const jsonIndent = "    "

// normalizeJSON validates a structured response and re-indents it. Object
// keys stay in the order the model returned them; strings and numbers are
// copied verbatim.
func normalizeJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	dec := json.NewDecoder(strings.NewReader(text))

	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidJSON, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", domain.ErrInvalidJSON)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, v, "", jsonIndent); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidJSON, err)
	}
	return buf.Bytes(), nil
}
