package wordcheck

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatify/beatify/internal/infra/config"
)

func newTestValidator() *Validator {
	return New(
		config.ValidationConfig{MinLength: 2, MaxLength: 50, Denylist: []string{"test_bad_word", "Rude"}},
		config.MusicConfig{DefaultLanguage: "English", Languages: []string{"English", "Spanish", "Japanese"}},
	)
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		expected string
		rule     string
		message  string
	}{
		{name: "simple word", word: "ocean", expected: "ocean"},
		{name: "trimmed", word: "  sunset  ", expected: "sunset"},
		{name: "name with apostrophe and hyphen", word: "O'Neil-Smith", expected: "O'Neil-Smith"},
		{name: "digits and spaces", word: "Route 66", expected: "Route 66"},
		{name: "exactly min length", word: "ab", expected: "ab"},
		{name: "exactly max length", word: strings.Repeat("a", 50), expected: strings.Repeat("a", 50)},
		{name: "empty", word: "", rule: "required", message: "Word/name is required"},
		{name: "whitespace only", word: "   ", rule: "required", message: "Word/name cannot be empty"},
		{name: "too short", word: " a ", rule: "length", message: "Word/name must be at least 2 characters"},
		{name: "too long", word: strings.Repeat("a", 51), rule: "length", message: "Word/name must be 50 characters or less"},
		{
			name:    "invalid characters",
			word:    "hello!",
			rule:    "charset",
			message: "Word/name contains invalid characters. Use only letters, numbers, spaces, hyphens, and apostrophes",
		},
		{name: "non-ascii letters", word: "café", rule: "charset"},
		{name: "charset checked before denylist", word: "my test_bad_word", rule: "charset"},
		{name: "denied term case-insensitive", word: "so RUDE", rule: "denylist", message: "Please use appropriate language"},
		{name: "length checked before charset", word: "!", rule: "length"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.word)
			if tt.rule == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
				return
			}

			require.Error(t, err)
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.rule, ve.Rule)
			if tt.message != "" {
				assert.Equal(t, tt.message, ve.Message)
			}
			assert.Empty(t, got)
		})
	}
}

func TestValidator_AcceptedWordsAreCanonical(t *testing.T) {
	v := newTestValidator()
	for _, w := range []string{"  jazz", "rock  ", "\tblue moon\n"} {
		got, err := v.Validate(w)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(w), got)
		assert.GreaterOrEqual(t, len(got), 2)
		assert.LessOrEqual(t, len(got), 50)
	}
}

func TestValidator_Language(t *testing.T) {
	v := newTestValidator()

	lang, err := v.Language("")
	require.NoError(t, err)
	assert.Equal(t, "English", lang)

	lang, err = v.Language("spanish")
	require.NoError(t, err)
	assert.Equal(t, "spanish", lang)

	_, err = v.Language("Klingon")
	require.Error(t, err)
	ve, ok := AsValidationError(errors.Wrap(err, "wrapped"))
	require.True(t, ok)
	assert.Equal(t, "language", ve.Rule)
	assert.Equal(t, "Unsupported language: Klingon", ve.Message)
}

func TestChain_FirstRejectionWins(t *testing.T) {
	c := NewChain()
	c.Add(RequiredRule{})
	c.Add(LengthRule{Min: 5, Max: 10})
	c.Add(CharsetRule{})

	result := c.Execute("a!")
	assert.False(t, result.Accepted)
	assert.Equal(t, "length", result.Code)
	assert.Len(t, c.Rules(), 3)

	assert.True(t, c.Execute("hello").Accepted)
}

func TestDenylistRule_IgnoresBlankTerms(t *testing.T) {
	r := NewDenylistRule([]string{"", "  "})
	assert.True(t, r.Check("anything").Accepted)
}
