// Package sanitize cleans user-supplied text before it is stored. Widget
// names and date labels are plain text, so every tag is stripped with
// bluemonday's strict policy and what remains is normalised.
package sanitize

import (
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for plain-text fields.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all markup from input, unescapes the entities bluemonday
// leaves behind, collapses runs of whitespace and trims the result.
// Templates escape on output, so the stored value is raw text.
func Text(input string) string {
	if input == "" {
		return ""
	}
	clean := html.UnescapeString(getPolicy().Sanitize(input))
	return strings.Join(strings.Fields(clean), " ")
}

// Label is Text truncated to at most maxRunes characters.
func Label(input string, maxRunes int) string {
	s := Text(input)
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxRunes]))
}
