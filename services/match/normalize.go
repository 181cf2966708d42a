package match

import (
	"regexp"
	"strings"
)

var (
	nonWordRE    = regexp.MustCompile(`[^\w\s]|_`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text for comparison: lower-cases, strips
// anything that is neither a word character nor whitespace (underscores
// included), collapses whitespace runs and trims the ends. It is total and
// idempotent; empty input yields "".
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordRE.ReplaceAllString(s, "")
	s = whitespaceRE.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
