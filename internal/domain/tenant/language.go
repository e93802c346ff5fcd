package tenant

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a canonical BCP 47 language code such as "en" or "pt-BR".
type Language string

// NewLanguage parses and canonicalizes a language code.
func NewLanguage(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("language code cannot be empty")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return Language(tag.String()), nil
}

func (l Language) String() string {
	return string(l)
}

// DisplayName returns the English display name of the language, for use in
// user-facing notices. Falls back to the raw code when the tag is unknown.
func (l Language) DisplayName() string {
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return string(l)
	}
	return name
}
