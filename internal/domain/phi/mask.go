package phi

import "regexp"

// Patterns for identifiers that must never reach an agent context. Agents
// should not receive PHI in the first place; this is a last line of defense.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\-\s().]{7,}\d`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	dobPattern   = regexp.MustCompile(`\b(19|20)\d{2}[-/](0?[1-9]|1[0-2])[-/](0?[1-9]|[12]\d|3[01])\b`)
)

// MaskText strips identifiers from free text before it is handed to an
// agent. Names cannot be reliably detected without an NER model and are
// handled upstream by the ref-token discipline instead.
func MaskText(text string) string {
	masked := emailPattern.ReplaceAllString(text, "[email]")
	masked = ssnPattern.ReplaceAllString(masked, "[ssn]")
	masked = dobPattern.ReplaceAllString(masked, "[date]")
	masked = phonePattern.ReplaceAllString(masked, "[phone]")
	return masked
}
