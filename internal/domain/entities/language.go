package entities

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is one target of a batch run. Code is the locale identifier as it
// appears in output paths (e.g. "pt_BR"), Name is what the model is told to
// translate into.
type Language struct {
	Code string
	Name string
}

// Tag parses Code as a BCP 47 tag. Underscore separators, as used by browser
// extension locale directories, are accepted.
func (l Language) Tag() (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(l.Code, "_", "-"))
}

// DisplayName returns the English display name of a locale code, or "" when
// the code does not parse.
func DisplayName(code string) string {
	tag, err := Language{Code: code}.Tag()
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}

// LanguageTable is the ordered list of target languages. Order is iteration
// order.
type LanguageTable []Language

// DefaultLanguageTable returns the built-in target languages.
func DefaultLanguageTable() LanguageTable {
	return LanguageTable{
		{Code: "de", Name: "German"},
		{Code: "es", Name: "Spanish"},
		{Code: "fr", Name: "French"},
		{Code: "it", Name: "Italian"},
		{Code: "pt_BR", Name: "Brazilian Portuguese"},
		{Code: "vi", Name: "Vietnamese"},
		{Code: "ru", Name: "Russian"},
		{Code: "ar", Name: "Arabic"},
		{Code: "hi", Name: "Hindi"},
		{Code: "bn", Name: "Bengali"},
		{Code: "zh_CN", Name: "Simplified Chinese"},
		{Code: "zh_TW", Name: "Traditional Chinese"},
		{Code: "ko", Name: "Korean"},
	}
}

// Validate checks that the table is non-empty, that every code is a valid
// locale tag with a name, and that codes are unique.
func (t LanguageTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("language table is empty")
	}
	seen := make(map[string]struct{}, len(t))
	for i, l := range t {
		if strings.TrimSpace(l.Code) == "" {
			return fmt.Errorf("language #%d: code is required", i+1)
		}
		if _, err := l.Tag(); err != nil {
			return fmt.Errorf("language %q: invalid locale code: %w", l.Code, err)
		}
		if strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("language %q: name is required", l.Code)
		}
		if _, dup := seen[l.Code]; dup {
			return fmt.Errorf("language %q: duplicate code", l.Code)
		}
		seen[l.Code] = struct{}{}
	}
	return nil
}

// Filter keeps only the languages whose code is listed, in table order.
// Unknown codes are an error so a typo never silently skips a language.
func (t LanguageTable) Filter(codes []string) (LanguageTable, error) {
	if len(codes) == 0 {
		return t, nil
	}
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = false
	}
	out := make(LanguageTable, 0, len(codes))
	for _, l := range t {
		if _, ok := want[l.Code]; ok {
			want[l.Code] = true
			out = append(out, l)
		}
	}
	for _, c := range codes {
		if !want[c] {
			return nil, fmt.Errorf("language %q is not in the table", c)
		}
	}
	return out, nil
}
