// Package textx provides small text utilities used across the project.
package textx

import (
	"regexp"
	"strings"
)

var (
	zeroWidthRe = regexp.MustCompile("[\u200b\u200c\u200d\u2060\ufeff]")
	spaceRunRe  = regexp.MustCompile(`[ \t]+`)
	blankRunRe  = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeText prepares extracted document text: strips zero-width
// characters, collapses runs of spaces and tabs, and reduces blank-line
// runs to a single paragraph break.
func NormalizeText(s string) string {
	s = SanitizeText(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = zeroWidthRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(ln)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FirstN returns the first n runes of s.
func FirstN(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
