package shared

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding whitespace and converts s to Unicode NFC,
// so visually identical names compare equal in uniqueness checks.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
