/*
Package router decides which lexicon query answers a line of user input.

Input is trimmed and lower-cased, then:

	contains '*' or '?'   -> wildcard search
	otherwise             -> prefix search
	no prefix match       -> auto-correct within MaxDistance edits

Results of recent queries are kept in a HotCache.
*/
package router

import (
	"unicode/utf8"

	"github.com/bastiangx/lexserve/internal/utils"
	"github.com/bastiangx/lexserve/pkg/lexicon"
	"github.com/charmbracelet/log"
)

// Kind tells which path produced a Result
type Kind int

const (
	KindEmpty     Kind = iota // blank input
	KindRejected              // input longer than MaxQueryLen
	KindPrefix                // words starting with the query
	KindWildcard              // words matching the glob
	KindCorrected             // no prefix match, closest words instead
	KindNoMatch               // nothing found by any path
)

var kindNames = map[Kind]string{
	KindEmpty:     "empty",
	KindRejected:  "rejected",
	KindPrefix:    "prefix",
	KindWildcard:  "wildcard",
	KindCorrected: "corrected",
	KindNoMatch:   "none",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Result is the outcome of routing one query
type Result struct {
	Query   string // normalized query
	Kind    Kind
	Entries []lexicon.Entry
	// Total counts all prefix matches before truncation; for the other kinds it
	// equals len(Entries).
	Total int
}

// Options tunes the router
type Options struct {
	MaxDistance int // edit distance for the auto-correct fallback
	MaxQueryLen int // in runes, 0 disables the check
	CacheSize   int // 0 disables the hot cache
}

// DefaultOptions returns the options the original UI used.
func DefaultOptions() Options {
	return Options{
		MaxDistance: 2,
		MaxQueryLen: 60,
		CacheSize:   256,
	}
}

// Router dispatches queries to a lexicon
type Router struct {
	lx    lexicon.ILexicon
	opts  Options
	cache *HotCache
}

// New creates a router over lx
func New(lx lexicon.ILexicon, opts Options) *Router {
	r := &Router{lx: lx, opts: opts}
	if opts.CacheSize > 0 {
		r.cache = NewHotCache(opts.CacheSize)
	}
	return r
}

// Lexicon returns the lexicon the router queries
func (r *Router) Lexicon() lexicon.ILexicon {
	return r.lx
}

// Route answers query with at most limit entries. A non-positive limit means no limit.
func (r *Router) Route(query string, limit int) Result {
	// checked before normalizing, which would turn invalid bytes into U+FFFD
	if !utf8.ValidString(query) {
		log.Debugf("Query %q is not valid UTF-8", query)
		return Result{Query: query, Kind: KindRejected}
	}
	q := utils.NormalizeQuery(query)
	if q == "" {
		return Result{Kind: KindEmpty}
	}
	if r.opts.MaxQueryLen > 0 && utf8.RuneCountInString(q) > r.opts.MaxQueryLen {
		log.Debugf("Query of %d runes rejected", utf8.RuneCountInString(q))
		return Result{Query: q, Kind: KindRejected}
	}
	if limit < 0 {
		limit = 0
	}

	if r.cache != nil {
		if res, ok := r.cache.Get(q, limit); ok {
			return res
		}
	}

	res := r.route(q, limit)
	if r.cache != nil {
		r.cache.Put(q, limit, res)
	}
	return res
}

func (r *Router) route(q string, limit int) Result {
	// room for every word, the empty word included
	bound := limit
	if bound == 0 {
		bound = r.lx.Len() + 1
	}

	if lexicon.HasWildcard(q) {
		entries := r.lx.WildcardSearch(q, bound)
		return finish(q, KindWildcard, entries, len(entries))
	}

	if entries := r.lx.Search(q); len(entries) > 0 {
		total := len(entries)
		if limit > 0 && total > limit {
			entries = entries[:limit]
		}
		return finish(q, KindPrefix, entries, total)
	}

	log.Debugf("No prefix match for %q, trying corrections within %d", q, r.opts.MaxDistance)
	entries := r.lx.AutoCorrect(q, r.opts.MaxDistance, bound)
	return finish(q, KindCorrected, entries, len(entries))
}

func finish(q string, kind Kind, entries []lexicon.Entry, total int) Result {
	if len(entries) == 0 {
		return Result{Query: q, Kind: KindNoMatch, Entries: []lexicon.Entry{}}
	}
	return Result{Query: q, Kind: kind, Entries: entries, Total: total}
}

// InvalidateCache drops cached results, needed only if the lexicon was rebuilt
func (r *Router) InvalidateCache() {
	if r.cache != nil {
		r.cache.Invalidate()
	}
}

// Stats merges lexicon and cache statistics
func (r *Router) Stats() map[string]int {
	stats := r.lx.Stats()
	if r.cache != nil {
		for k, v := range r.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
