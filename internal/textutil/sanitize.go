package textutil

import (
	"strings"
	"unicode"
)

// SanitizeToken lowercases value into an ASCII token for cache file names.
// Letters and digits survive, dashes and underscores are kept, anything else
// becomes an underscore. Empty results become "unknown".
func SanitizeToken(value string) string {
	token := strings.Map(func(r rune) rune {
		switch {
		case r > unicode.MaxASCII:
			return '_'
		case unicode.IsLetter(r):
			return unicode.ToLower(r)
		case unicode.IsDigit(r), r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(value))
	token = strings.Trim(token, "_-")
	if token == "" {
		return "unknown"
	}
	return token
}

// FileStem makes a sheet name safe to reuse as an output file stem. Path
// separators and shell-hostile characters become dashes, runs of whitespace
// collapse to one space. Empty results become "slideshow".
func FileStem(name string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			return '-'
		default:
			return r
		}
	}, name)
	stem = strings.Join(strings.Fields(stem), " ")
	stem = strings.Trim(stem, " -.")
	if stem == "" {
		return "slideshow"
	}
	return stem
}
