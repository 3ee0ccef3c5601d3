package index

import (
	"encoding/binary"
	"sort"

	"tabula/intern"
)

// cache maps a row's canonical key to the ascending list of positions
// holding that row. It is maintained surgically on every mutation, never
// rebuilt behind the caller's back, and must always equal what a rebuild
// from the columns would produce: emptied buckets are deleted, so the
// bucket count is exactly the number of distinct rows present.
type cache struct {
	buckets map[string][]int
}

func newCache() *cache {
	return &cache{buckets: make(map[string][]int)}
}

// cacheKey encodes one key per level into the bucket key.
func cacheKey(keys ...intern.Key) string {
	buf := make([]byte, 0, len(keys)*binary.MaxVarintLen32)
	for _, k := range keys {
		buf = binary.AppendVarint(buf, int64(k))
	}
	return string(buf)
}

// add inserts pos into the bucket for key, keeping the bucket sorted.
func (c *cache) add(key string, pos int) {
	b := c.buckets[key]
	i := sort.SearchInts(b, pos)
	b = append(b, 0)
	copy(b[i+1:], b[i:])
	b[i] = pos
	c.buckets[key] = b
}

// remove deletes pos from the bucket for key. A missing bucket or a bucket
// without pos is a broken invariant.
func (c *cache) remove(key string, pos int) error {
	b := c.buckets[key]
	i := sort.SearchInts(b, pos)
	if i >= len(b) || b[i] != pos {
		return &CacheInconsistencyError{Key: key, Position: pos}
	}
	b = append(b[:i], b[i+1:]...)
	if len(b) == 0 {
		delete(c.buckets, key)
	} else {
		c.buckets[key] = b
	}
	return nil
}

// lookup returns the live bucket for key. Callers must not mutate it;
// public APIs copy before handing positions out.
func (c *cache) lookup(key string) ([]int, bool) {
	b, ok := c.buckets[key]
	return b, ok
}

// distinct returns the number of buckets, which equals the number of
// distinct rows present in the index.
func (c *cache) distinct() int {
	return len(c.buckets)
}

// snapshot returns a deep copy of the buckets.
func (c *cache) snapshot() map[string][]int {
	out := make(map[string][]int, len(c.buckets))
	for k, b := range c.buckets {
		cp := make([]int, len(b))
		copy(cp, b)
		out[k] = cp
	}
	return out
}
