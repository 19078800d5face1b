// Package wordcheck validates the word or name a track is generated from.
package wordcheck

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Result represents the result of a rule check.
type Result struct {
	Accepted bool
	Code     string // e.g., "required", "length", "charset"
	Message  string
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code and message.
func Reject(code, message string) Result {
	return Result{Accepted: false, Code: code, Message: message}
}

// Rule is a single check applied to a raw input word.
type Rule interface {
	// Name returns the rule name reported on rejection.
	Name() string
	// Check performs the rule check.
	Check(word string) Result
}

// RequiredRule rejects empty and whitespace-only input.
type RequiredRule struct{}

func (RequiredRule) Name() string { return "required" }

func (r RequiredRule) Check(word string) Result {
	if word == "" {
		return Reject(r.Name(), "Word/name is required")
	}
	if strings.TrimSpace(word) == "" {
		return Reject(r.Name(), "Word/name cannot be empty")
	}
	return Accept()
}

// LengthRule bounds the trimmed length in characters.
type LengthRule struct {
	Min int
	Max int
}

func (LengthRule) Name() string { return "length" }

func (r LengthRule) Check(word string) Result {
	n := utf8.RuneCountInString(strings.TrimSpace(word))
	if n > r.Max {
		return Reject(r.Name(), "Word/name must be "+strconv.Itoa(r.Max)+" characters or less")
	}
	if n < r.Min {
		return Reject(r.Name(), "Word/name must be at least "+strconv.Itoa(r.Min)+" characters")
	}
	return Accept()
}

var allowedChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-']+$`)

// CharsetRule restricts input to ASCII letters, digits, whitespace, hyphens and apostrophes.
type CharsetRule struct{}

func (CharsetRule) Name() string { return "charset" }

func (r CharsetRule) Check(word string) Result {
	if !allowedChars.MatchString(strings.TrimSpace(word)) {
		return Reject(r.Name(), "Word/name contains invalid characters. Use only letters, numbers, spaces, hyphens, and apostrophes")
	}
	return Accept()
}

// DenylistRule rejects input containing a denied term, ignoring case.
type DenylistRule struct {
	terms []string
}

// NewDenylistRule creates a denylist rule. Empty terms are ignored.
func NewDenylistRule(terms []string) *DenylistRule {
	r := &DenylistRule{}
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			r.terms = append(r.terms, t)
		}
	}
	return r
}

func (*DenylistRule) Name() string { return "denylist" }

func (r *DenylistRule) Check(word string) Result {
	lower := strings.ToLower(word)
	for _, t := range r.terms {
		if strings.Contains(lower, t) {
			return Reject(r.Name(), "Please use appropriate language")
		}
	}
	return Accept()
}
