package utils

import (
	"strings"
	"unicode"
)

// NormalizeWord prepares a dictionary headword for insertion: lower case,
// underscores of multi-word lemmas turned into spaces, outer space trimmed.
func NormalizeWord(word string) string {
	word = strings.ReplaceAll(word, "_", " ")
	return strings.ToLower(strings.TrimSpace(word))
}

// NormalizeQuery trims and lower-cases user input before it reaches the lexicon.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// CollapseSpaces folds every run of unicode whitespace into one ASCII space.
func CollapseSpaces(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}
