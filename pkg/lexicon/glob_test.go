package lexicon

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// anchored matching with the two wildcard tokens, every other rune literal
func TestPatternMatch(t *testing.T) {
	testCases := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"ca?", "cat", true},
		{"ca?", "cart", false},
		{"ca?", "ca", false},
		{"ca*", "ca", true},
		{"ca*", "cart", true},
		{"*", "", true},
		{"*", "anything", true},
		{"", "", true},
		{"", "a", false},
		{"?", "", false},
		{"c*t", "cart", true},
		{"c*t", "cartx", false},
		{"*t", "cat", true},
		{"t*", "cat", false},
		{"*a*b", "xaab", true},
		{"a**b", "ab", true},
		{"c?r*", "cart", true},
		{"ab*cd*ef", "abxxcdyyef", true},
		{"ab*cd*ef", "abxxcdyyefz", false},
		{"*ss*ss", "mississ", true},
		{"*ss*ss", "missis", false},
		{"*ss*ss", "misss", false},
		{"?é", "té", true},
		{"caf?", "café", true},
		{"[ab]", "[ab]", true},
		{"[ab]", "a", false},
		{`a\*`, `a\bc`, true},
		{"a b*", "a bit", true},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q~%q", tc.pattern, tc.input), func(t *testing.T) {
			assert.Equal(t, tc.want, CompilePattern(tc.pattern).Match(tc.input))
		})
	}
}

func TestPatternLiteralPrefix(t *testing.T) {
	testCases := []struct {
		pattern string
		want    string
	}{
		{"", ""},
		{"cat", "cat"},
		{"ca?", "ca"},
		{"ca*t", "ca"},
		{"*cat", ""},
		{"?at", ""},
		{"ca?*", "ca"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, CompilePattern(tc.pattern).LiteralPrefix(), "pattern %q", tc.pattern)
	}
}

func TestHasWildcard(t *testing.T) {
	assert.True(t, HasWildcard("ca*"))
	assert.True(t, HasWildcard("?at"))
	assert.False(t, HasWildcard("cat"))
	assert.False(t, HasWildcard(""))
}

func TestCompilePatternCollapsesStars(t *testing.T) {
	p := CompilePattern("a***b*")
	assert.Equal(t, []rune("a*b*"), p.runes)
	assert.Equal(t, "a***b*", p.String())
}
