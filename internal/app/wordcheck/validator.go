package wordcheck

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/beatify/beatify/internal/infra/config"
)

// ValidationError is returned when a word or language is rejected.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator gates generation requests.
type Validator struct {
	chain           *Chain
	music           config.MusicConfig
	defaultLanguage string
}

// New creates a validator from configuration.
func New(vc config.ValidationConfig, mc config.MusicConfig) *Validator {
	chain := NewChain(
		RequiredRule{},
		LengthRule{Min: vc.MinLength, Max: vc.MaxLength},
		CharsetRule{},
		NewDenylistRule(vc.Denylist),
	)
	lang := mc.DefaultLanguage
	if lang == "" {
		lang = "English"
	}
	return &Validator{chain: chain, music: mc, defaultLanguage: lang}
}

// Validate checks the word and returns its canonical (trimmed) form.
func (v *Validator) Validate(word string) (string, error) {
	result := v.chain.Execute(word)
	if !result.Accepted {
		return "", &ValidationError{Rule: result.Code, Message: result.Message}
	}
	return strings.TrimSpace(word), nil
}

// Language returns the language to generate in.
// An empty language selects the default.
func (v *Validator) Language(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return v.defaultLanguage, nil
	}
	if !v.music.IsSupportedLanguage(lang) {
		return "", &ValidationError{Rule: "language", Message: "Unsupported language: " + lang}
	}
	return lang, nil
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
