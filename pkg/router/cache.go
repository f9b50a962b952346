package router

import (
	"math"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type cacheItem struct {
	result   Result
	lastUsed int64
}

// HotCache keeps the results of recent queries, keyed by normalized query and
// limit, evicting the least recently used entry once full. Safe for concurrent use.
type HotCache struct {
	trie       *patricia.Trie
	size       int
	maxEntries int
	clock      int64
	hits       int64
	misses     int64
	evictions  int64
	mu         sync.Mutex
}

// NewHotCache creates a cache holding at most maxEntries results
func NewHotCache(maxEntries int) *HotCache {
	return &HotCache{
		trie:       patricia.NewTrie(),
		maxEntries: maxEntries,
	}
}

func cacheKey(query string, limit int) patricia.Prefix {
	// NUL never appears in a normalized query
	return patricia.Prefix(query + "\x00" + strconv.Itoa(limit))
}

// Get returns a copy of the cached result for query and limit
func (hc *HotCache) Get(query string, limit int) (Result, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item, ok := hc.trie.Get(cacheKey(query, limit)).(*cacheItem)
	if !ok {
		hc.misses++
		return Result{}, false
	}
	hc.hits++
	hc.clock++
	item.lastUsed = hc.clock

	res := item.result
	res.Entries = append(res.Entries[:0:0], item.result.Entries...)
	return res, true
}

// Put stores res for query and limit
func (hc *HotCache) Put(query string, limit int, res Result) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if hc.maxEntries <= 0 {
		return
	}
	res.Entries = append(res.Entries[:0:0], res.Entries...)
	key := cacheKey(query, limit)
	hc.clock++
	if item, ok := hc.trie.Get(key).(*cacheItem); ok {
		item.result = res
		item.lastUsed = hc.clock
		return
	}
	if hc.size >= hc.maxEntries {
		hc.evictLRU()
	}
	hc.trie.Set(key, &cacheItem{result: res, lastUsed: hc.clock})
	hc.size++
}

// Invalidate drops every cached result
func (hc *HotCache) Invalidate() {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.trie = patricia.NewTrie()
	hc.size = 0
}

// Stats returns size and hit counters
func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"cacheEntries":    hc.size,
		"maxCacheEntries": hc.maxEntries,
		"cacheHits":       int(hc.hits),
		"cacheMisses":     int(hc.misses),
		"cacheEvictions":  int(hc.evictions),
	}
}

func (hc *HotCache) evictLRU() {
	var oldestKey patricia.Prefix
	var oldestTime int64 = math.MaxInt64

	err := hc.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		if used := item.(*cacheItem).lastUsed; used < oldestTime {
			oldestTime = used
			oldestKey = append(oldestKey[:0], p...)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error scanning hot cache: %v", err)
		return
	}

	if oldestKey != nil && hc.trie.Delete(oldestKey) {
		hc.size--
		hc.evictions++
		log.Debugf("Evicted %q from hot cache", string(oldestKey))
	}
}
