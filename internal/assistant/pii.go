package assistant

import "regexp"

const redacted = "[REDACTED]"

// Order matters: longer digit runs go first so a card number is not
// partially matched as a phone number.
var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{16}\b`), // card numbers
	regexp.MustCompile(`\b\d{12}\b`), // Aadhaar-like ids
	regexp.MustCompile(`\b\d{10}\b`), // phone numbers
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
}

// RedactPII masks identity numbers, card numbers, phone numbers and e-mail addresses.
func RedactPII(text string) string {
	for _, re := range piiPatterns {
		text = re.ReplaceAllString(text, redacted)
	}
	return text
}
