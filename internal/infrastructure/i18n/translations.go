package i18n

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"localebatch/internal/domain/entities"
	"localebatch/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// Ensure Translator implements the output.InstructionRenderer port.
var _ output.InstructionRenderer = (*Translator)(nil)

// Message IDs of the system instructions, one per source format.
const (
	MsgInstructionText = "instruction_text"
	MsgInstructionJSON = "instruction_json"
)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer holding the
// system instruction templates. Instructions are always written in English,
// whatever the target language.
type Translator struct {
	bundle *i18n.Bundle
}

// NewTranslator loads the embedded active.en.toml and, when overridePath is
// set, a message file whose entries replace the embedded ones.
func NewTranslator(overridePath string) (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.LoadMessageFileFS(localeFS, "active.en.toml"); err != nil {
		return nil, fmt.Errorf("i18n: load embedded instructions: %w", err)
	}
	if overridePath != "" {
		if _, err := bundle.LoadMessageFile(overridePath); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", overridePath, err)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Instruction renders the system instruction for format with the target
// language name and the brand term as template data.
func (t *Translator) Instruction(format entities.Format, languageName, brand string) (string, error) {
	var id string
	switch format {
	case entities.FormatText:
		id = MsgInstructionText
	case entities.FormatJSON:
		id = MsgInstructionJSON
	default:
		return "", fmt.Errorf("i18n: no instruction for format %q", format)
	}

	localizer := i18n.NewLocalizer(t.bundle, language.English.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: id,
		TemplateData: map[string]any{
			"Language": languageName,
			"Brand":    brand,
		},
	})
	if err != nil {
		return "", fmt.Errorf("i18n: localize %s: %w", id, err)
	}
	return msg, nil
}
