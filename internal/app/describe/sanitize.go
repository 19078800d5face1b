package describe

import (
	"strings"
	"unicode"
)

const fence = "```"

// StripCodeFence removes one optional leading markdown code fence, including
// a language tag directly after it, and one optional trailing fence.
// Surrounding whitespace is trimmed before and after.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return r < unicode.MaxASCII && unicode.IsLetter(r)
		})
	}
	s = strings.TrimSuffix(strings.TrimRightFunc(s, unicode.IsSpace), fence)
	return strings.TrimSpace(s)
}
