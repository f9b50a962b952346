package utils

import (
	"unicode"

	"github.com/dustin/go-humanize"
)

// IsSeparator checks if a rune is a separator character
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/' || r == '\''
}

// IsWildcard checks if a rune is one of the glob tokens
func IsWildcard(r rune) bool {
	return r == '*' || r == '?'
}

// ContainsSpecialChars checks if a string contains characters that are neither
// letters, digits, separators nor wildcard tokens
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) && !IsWildcard(r) {
			return true
		}
	}
	return false
}

// IsValidQuery checks if input should be sent to the lexicon at all.
// Returns false for empty strings and strings with control or symbol characters.
func IsValidQuery(s string) bool {
	if len(s) == 0 {
		return false
	}
	return !ContainsSpecialChars(s)
}

// FormatCount formats an integer with comma separators
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
