// Package lexicon is the core, an in-memory trie of words and their meanings with
// prefix, wildcard and edit-distance retrievals.
package lexicon

// Entry is a stored word paired with its meaning.
type Entry struct {
	Word    string
	Meaning string
}

// ILexicon defines the read side every front end (router, server, CLI) relies on
type ILexicon interface {
	// Search returns every word starting with prefix
	Search(prefix string) []Entry

	// AutoCorrect returns words within maxDistance edits of word, closest first
	AutoCorrect(word string, maxDistance, limit int) []Entry

	// WildcardSearch returns words matching a glob pattern made of '*' and '?'
	WildcardSearch(pattern string, limit int) []Entry

	// Lookup returns the meaning of an exact word
	Lookup(word string) (string, bool)

	// Len returns the number of stored words
	Len() int

	// Stats returns statistics about the loaded lexicon
	Stats() map[string]int
}
