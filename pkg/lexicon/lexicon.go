package lexicon

import (
	"sort"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Lexicon is a trie of words keyed by rune, each terminal node carrying a meaning.
//
// A Lexicon is built with Insert from a single goroutine and is read-only afterwards;
// the query methods never mutate it, so any number of goroutines may query a built
// Lexicon without locking. Interleaving Insert with queries is not supported.
type Lexicon struct {
	root       *node
	totalWords int
	totalNodes int
	maxDepth   int
}

// New returns an empty Lexicon ready for inserts.
func New() *Lexicon {
	return &Lexicon{
		root:       newNode(),
		totalNodes: 1,
	}
}

// Insert stores word with its meaning. Inserting an existing word replaces its meaning.
// The empty word is legal and marks the root itself.
//
// word must be valid UTF-8: the trie is keyed by rune, so every invalid byte would
// become utf8.RuneError and distinct words would share a node. Callers feeding
// untrusted bytes check utf8.ValidString first.
func (lx *Lexicon) Insert(word, meaning string) {
	n := lx.root
	depth := 0
	for _, r := range word {
		var created bool
		n, created = n.addChild(r)
		if created {
			lx.totalNodes++
		}
		depth++
	}
	if !n.terminal {
		lx.totalWords++
	}
	n.terminal = true
	n.meaning = meaning
	if depth > lx.maxDepth {
		lx.maxDepth = depth
	}
}

// Lookup returns the meaning stored for exactly word.
func (lx *Lexicon) Lookup(word string) (string, bool) {
	n := lx.descend(word)
	if n == nil || !n.terminal {
		return "", false
	}
	return n.meaning, true
}

// Search returns every stored word that starts with prefix, in traversal order.
// An unknown prefix yields an empty result and the empty prefix yields every word.
func (lx *Lexicon) Search(prefix string) []Entry {
	results := []Entry{}
	n := lx.descend(prefix)
	if n == nil {
		return results
	}
	walk(n, prefix, func(word, meaning string) bool {
		results = append(results, Entry{Word: word, Meaning: meaning})
		return true
	})
	return results
}

type correction struct {
	entry    Entry
	distance int
}

// AutoCorrect returns the words whose Levenshtein distance to word is at most
// maxDistance, sorted by distance with ties kept in traversal order, and cut to limit.
//
// Every word of the trie is a candidate since a close match may differ from word at
// its first rune. Negative maxDistance and limit are treated as zero.
func (lx *Lexicon) AutoCorrect(word string, maxDistance, limit int) []Entry {
	maxDistance = clampZero(maxDistance)
	limit = clampZero(limit)
	if limit == 0 {
		return []Entry{}
	}

	wordLen := utf8.RuneCountInString(word)
	var corrections []correction

	walk(lx.root, "", func(candidate, meaning string) bool {
		// the distance is never smaller than the length difference
		if abs(utf8.RuneCountInString(candidate)-wordLen) > maxDistance {
			return true
		}
		dist := edlib.LevenshteinDistance(word, candidate)
		if dist <= maxDistance {
			corrections = append(corrections, correction{
				entry:    Entry{Word: candidate, Meaning: meaning},
				distance: dist,
			})
		}
		return true
	})

	sort.SliceStable(corrections, func(i, j int) bool {
		return corrections[i].distance < corrections[j].distance
	})

	if len(corrections) > limit {
		corrections = corrections[:limit]
	}
	results := make([]Entry, len(corrections))
	for i, c := range corrections {
		results[i] = c.entry
	}
	return results
}

// WildcardSearch returns the first limit words, in traversal order, whose whole
// spelling matches pattern. See Pattern for the supported dialect.
func (lx *Lexicon) WildcardSearch(pattern string, limit int) []Entry {
	limit = clampZero(limit)
	results := []Entry{}
	if limit == 0 {
		return results
	}

	pat := CompilePattern(pattern)

	// Matching words all live under the literal head of the pattern, and pre-order
	// within that subtree is the same order a walk from the root would produce.
	head := pat.LiteralPrefix()
	start := lx.descend(head)
	if start == nil {
		return results
	}

	walk(start, head, func(word, meaning string) bool {
		if pat.Match(word) {
			results = append(results, Entry{Word: word, Meaning: meaning})
		}
		return len(results) < limit
	})
	return results
}

// Len returns the number of stored words.
func (lx *Lexicon) Len() int {
	return lx.totalWords
}

// Stats returns word, node and depth counters.
func (lx *Lexicon) Stats() map[string]int {
	return map[string]int{
		"totalWords": lx.totalWords,
		"totalNodes": lx.totalNodes,
		"maxDepth":   lx.maxDepth,
	}
}

// descend follows s from the root and returns the node it ends on, or nil.
func (lx *Lexicon) descend(s string) *node {
	n := lx.root
	for _, r := range s {
		if n = n.child(r); n == nil {
			return nil
		}
	}
	return n
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
