package lexicon

import "strings"

// Wildcard tokens understood by Pattern.
const (
	AnyRun  = '*' // zero or more runes
	AnyRune = '?' // exactly one rune
)

// Pattern is a compiled glob made of literal runes and the two wildcard tokens
// '*' and '?'. Matching is anchored at both ends. There are no character classes,
// braces or escapes: every other rune, '[' and '\\' included, matches itself.
type Pattern struct {
	raw   string
	runes []rune
}

// CompilePattern compiles p. Runs of consecutive '*' are collapsed into one.
func CompilePattern(p string) Pattern {
	runes := make([]rune, 0, len(p))
	for _, r := range p {
		if r == AnyRun && len(runes) > 0 && runes[len(runes)-1] == AnyRun {
			continue
		}
		runes = append(runes, r)
	}
	return Pattern{raw: p, runes: runes}
}

// HasWildcard reports whether s contains a wildcard token.
func HasWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// String returns the pattern as given to CompilePattern.
func (p Pattern) String() string {
	return p.raw
}

// LiteralPrefix returns the runes before the first wildcard token.
func (p Pattern) LiteralPrefix() string {
	for i, r := range p.runes {
		if r == AnyRun || r == AnyRune {
			return string(p.runes[:i])
		}
	}
	return string(p.runes)
}

// Match reports whether all of s matches the pattern.
//
// Greedy scan remembering the last '*': on a mismatch the star absorbs one more rune
// and matching resumes right after it.
func (p Pattern) Match(s string) bool {
	pat := p.runes
	str := []rune(s)

	pi, si := 0, 0
	star, mark := -1, 0

	for si < len(str) {
		switch {
		case pi < len(pat) && pat[pi] == AnyRun:
			star = pi
			mark = si
			pi++
		case pi < len(pat) && (pat[pi] == AnyRune || pat[pi] == str[si]):
			pi++
			si++
		case star >= 0:
			mark++
			si = mark
			pi = star + 1
		default:
			return false
		}
	}

	for pi < len(pat) && pat[pi] == AnyRun {
		pi++
	}
	return pi == len(pat)
}
