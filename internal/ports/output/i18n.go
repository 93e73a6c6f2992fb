package output

import "localebatch/internal/domain/entities"

// InstructionRenderer produces the system instruction sent with every
// translation request.
type InstructionRenderer interface {
	// Instruction renders the instruction for the given source format and
	// target language name. brand is the term that must stay untranslated.
	Instruction(format entities.Format, languageName, brand string) (string, error)
}
