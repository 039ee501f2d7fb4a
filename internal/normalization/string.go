package normalization

import (
	"strings"
)

// Email lowercases and trims an address so lookups and the unique index
// agree on one canonical form.
func Email(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Trim collapses surrounding whitespace without touching case.
func Trim(input string) string {
	return strings.TrimSpace(input)
}
