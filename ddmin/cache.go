package ddmin

import (
	"hash/fnv"

	"github.com/tidwall/btree"
)

// Cache memoizes oracle verdicts by the content hash of the unparsed
// candidate string, so re-testing the same text within a reduction session
// (common across DDMIN's subset/complement probing) never re-invokes the
// oracle. Bounded by the maxSize given to [NewCache], with
// least-recently-used eviction.
//
// The zero Cache is ready to use but unbounded; construct with
// [NewCache] for a bounded one.
type Cache struct {
	entries btree.Map[uint64, *cacheEntry]
	order   btree.Map[int64, uint64]
	clock   int64
	maxSize int
}

type cacheEntry struct {
	verdict Verdict
	seq     int64
}

// NewCache returns a Cache holding at most maxSize entries. maxSize <= 0
// means unbounded.
func NewCache(maxSize int) *Cache {
	return &Cache{maxSize: maxSize}
}

// HashText returns the content-hash key for s.
func HashText(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Lookup returns the cached verdict for key and true, or false if key
// hasn't been recorded (or was evicted).
func (c *Cache) Lookup(key uint64) (Verdict, bool) {
	e, ok := c.entries.Get(key)
	if !ok {
		return Unresolved, false
	}
	c.touch(key, e)
	return e.verdict, true
}

// Store records verdict for key, evicting the least-recently-used entry
// first if the cache is at capacity.
func (c *Cache) Store(key uint64, verdict Verdict) {
	if e, ok := c.entries.Get(key); ok {
		e.verdict = verdict
		c.touch(key, e)
		return
	}

	if c.maxSize > 0 && c.entries.Len() >= c.maxSize {
		c.evictOldest()
	}

	c.clock++
	e := &cacheEntry{verdict: verdict, seq: c.clock}
	c.entries.Set(key, e)
	c.order.Set(e.seq, key)
}

// Clear empties the cache and resets its use clock.
func (c *Cache) Clear() {
	c.entries = btree.Map[uint64, *cacheEntry]{}
	c.order = btree.Map[int64, uint64]{}
	c.clock = 0
}

func (c *Cache) touch(key uint64, e *cacheEntry) {
	c.order.Delete(e.seq)
	c.clock++
	e.seq = c.clock
	c.order.Set(e.seq, key)
}

func (c *Cache) evictOldest() {
	iter := c.order.Iter()
	if !iter.First() {
		return
	}
	seq, key := iter.Key(), iter.Value()
	c.order.Delete(seq)
	c.entries.Delete(key)
}
