package router

import (
	"sync"
	"testing"

	"github.com/bastiangx/lexserve/pkg/lexicon"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(opts Options) *Router {
	lx := lexicon.New()
	lx.Insert("cat", "a feline")
	lx.Insert("car", "a vehicle")
	lx.Insert("cart", "a wheeled container")
	lx.Insert("dog", "a canine")
	return New(lx, opts)
}

func TestRoutePrefix(t *testing.T) {
	r := newTestRouter(DefaultOptions())

	res := r.Route("  CA ", 10)
	assert.Equal(t, KindPrefix, res.Kind)
	assert.Equal(t, "ca", res.Query)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []lexicon.Entry{
		{Word: "cat", Meaning: "a feline"},
		{Word: "car", Meaning: "a vehicle"},
		{Word: "cart", Meaning: "a wheeled container"},
	}, res.Entries)
}

// prefix hits are truncated for display but Total keeps the full count
func TestRoutePrefixTruncated(t *testing.T) {
	r := newTestRouter(DefaultOptions())

	res := r.Route("ca", 2)
	assert.Equal(t, KindPrefix, res.Kind)
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, 3, res.Total)

	res = r.Route("ca", 0)
	assert.Len(t, res.Entries, 3, "zero limit means no limit")
}

func TestRouteWildcard(t *testing.T) {
	r := newTestRouter(DefaultOptions())

	res := r.Route("CA?", 10)
	assert.Equal(t, KindWildcard, res.Kind)
	assert.Equal(t, []string{"cat", "car"}, words(res.Entries))

	res = r.Route("*", 2)
	assert.Equal(t, KindWildcard, res.Kind)
	assert.Len(t, res.Entries, 2)

	res = r.Route("*", 0)
	assert.Len(t, res.Entries, 4)
}

// wildcard queries never fall back to corrections
func TestRouteWildcardNoMatch(t *testing.T) {
	r := newTestRouter(DefaultOptions())
	res := r.Route("x?z", 10)
	assert.Equal(t, KindNoMatch, res.Kind)
	assert.Empty(t, res.Entries)
}

func TestRouteCorrection(t *testing.T) {
	r := newTestRouter(DefaultOptions())

	res := r.Route("cag", 10)
	assert.Equal(t, KindCorrected, res.Kind)
	// cat, car at distance 1, then cart, dog at distance 2
	assert.Equal(t, []string{"cat", "car", "cart", "dog"}, words(res.Entries))

	res = r.Route("cag", 3)
	assert.Equal(t, []string{"cat", "car", "cart"}, words(res.Entries))
}

func TestRouteCorrectionDistance(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDistance = 1
	r := newTestRouter(opts)

	res := r.Route("cag", 10)
	assert.Equal(t, KindCorrected, res.Kind)
	assert.Equal(t, []string{"cat", "car"}, words(res.Entries))
}

func TestRouteNoMatch(t *testing.T) {
	r := newTestRouter(DefaultOptions())
	res := r.Route("zzzzzz", 10)
	assert.Equal(t, KindNoMatch, res.Kind)
	assert.Empty(t, res.Entries)
	assert.Equal(t, "none", res.Kind.String())
}

func TestRouteEmptyAndRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxQueryLen = 5
	r := newTestRouter(opts)

	assert.Equal(t, KindEmpty, r.Route("   ", 10).Kind)
	assert.Equal(t, KindRejected, r.Route("abcdef", 10).Kind)
	assert.Equal(t, KindPrefix, r.Route("cart", 10).Kind)
	assert.Equal(t, KindPrefix, r.Route("  cart   ", 10).Kind, "length is checked after trimming")
}

func TestRouteRejectsInvalidUTF8(t *testing.T) {
	r := newTestRouter(DefaultOptions())

	res := r.Route("ca\xff", 10)
	assert.Equal(t, KindRejected, res.Kind)
	assert.Empty(t, res.Entries)
	assert.Equal(t, KindPrefix, r.Route("ca", 10).Kind)
}

func TestRouteEmptyLexicon(t *testing.T) {
	r := New(lexicon.New(), DefaultOptions())
	for _, q := range []string{"cat", "c*", "?"} {
		res := r.Route(q, 10)
		assert.Equal(t, KindNoMatch, res.Kind, q)
		assert.Empty(t, res.Entries)
	}
}

func TestRouteUsesCache(t *testing.T) {
	r := newTestRouter(DefaultOptions())

	first := r.Route("ca", 10)
	second := r.Route("CA", 10)
	assert.Equal(t, first, second)

	stats := r.Stats()
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 1, stats["cacheMisses"])
	assert.Equal(t, 4, stats["totalWords"])

	// callers own the returned slice
	second.Entries[0].Word = "mutated"
	assert.Equal(t, "cat", r.Route("ca", 10).Entries[0].Word)

	r.InvalidateCache()
	assert.Equal(t, 0, r.Stats()["cacheEntries"])
}

func TestRouteWithoutCache(t *testing.T) {
	opts := DefaultOptions()
	opts.CacheSize = 0
	r := newTestRouter(opts)

	r.Route("ca", 10)
	r.Route("ca", 10)
	_, ok := r.Stats()["cacheHits"]
	assert.False(t, ok)
}

// a built lexicon serves many goroutines through one router
func TestRouteConcurrent(t *testing.T) {
	r := newTestRouter(Options{MaxDistance: 2, CacheSize: 4})
	queries := []string{"ca", "ca?", "cag", "do", "d*", "xyz", "cart"}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				res := r.Route(queries[i%len(queries)], 3)
				assert.LessOrEqual(t, len(res.Entries), 3)
			}
		}()
	}
	wg.Wait()
}

func words(entries []lexicon.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}
