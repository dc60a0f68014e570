package planner

import (
	"regexp"
	"strings"
)

// PII masking applied to instructions before they are logged, stored, or
// echoed back to the caller.

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Phone formats, most specific first so parenthesized and international
	// forms are masked before the bare digit runs.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{6,14}\b`),
		regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]\d{4}\b`),
		regexp.MustCompile(`\b\d{10,15}\b`),
	}

	cardPattern = regexp.MustCompile(`\b\d{4}[-\s]\d{4}[-\s]\d{4}[-\s]\d{4}\b`)
	ssnPattern  = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// maxInstructionLen is the truncation limit applied after masking.
const maxInstructionLen = 500

// Sanitize masks PII patterns in the given text, collapses whitespace runs,
// and truncates the result to maxInstructionLen characters. Card and SSN
// patterns are masked before the generic phone digit run so a 16-digit card
// number does not collapse into [PHONE].
func Sanitize(text string) string {
	text = emailPattern.ReplaceAllString(text, "[EMAIL]")
	text = cardPattern.ReplaceAllString(text, "[CARD]")
	text = ssnPattern.ReplaceAllString(text, "[SSN]")
	for _, p := range phonePatterns {
		text = p.ReplaceAllString(text, "[PHONE]")
	}

	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	if runes := []rune(text); len(runes) > maxInstructionLen {
		text = string(runes[:maxInstructionLen]) + "..."
	}
	return text
}
