package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes name safe to create inside the downloads directory.
// Path separators, colons and asterisks become dashes; quotes, wildcards,
// redirection characters and control characters are dropped. Leading dots
// are stripped so an export never becomes a hidden file.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	return strings.TrimLeft(cleaned, ".")
}
