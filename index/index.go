// Package index implements single- and multi-level label indexes over
// interned scalars: positional and label addressing, closed bidirectional
// slice selection, and an optional surgically maintained position cache.
package index

import (
	"fmt"
	"strings"
	"time"

	"tabula/intern"
	"tabula/scalar"
)

// Index is a single-level label index: an ordered sequence of positions,
// each holding one interned scalar. Lookups go label to key through the
// store, then key to positions through the cache or a linear scan.
type Index struct {
	store   *intern.Store
	keys    []intern.Key
	cache   *cache
	metrics *Metrics
}

// Options configures construction of an Index.
type Options struct {
	// Cached builds the position cache up front. Without it, label
	// lookups degrade to linear scans but mutations skip cache upkeep.
	Cached bool
	// Store shares an existing interning store instead of starting a
	// fresh one. Nil means fresh.
	Store *intern.Store
	// Metrics instruments label lookups. Nil disables instrumentation.
	Metrics *Metrics
}

// New builds an index over values in position order. The batch is
// validated before any of it is interned, so a bad value leaves a shared
// store untouched.
func New(values []any, opts Options) (*Index, error) {
	st := opts.Store
	if st == nil {
		st = intern.NewStore()
	}
	if err := st.InternAll(values); err != nil {
		return nil, err
	}
	keys := make([]intern.Key, len(values))
	for i, v := range values {
		k, _ := st.Lookup(v)
		keys[i] = k
	}
	ix := &Index{store: st, keys: keys, metrics: opts.Metrics}
	if opts.Cached {
		ix.BuildCache()
	}
	return ix, nil
}

// Len returns the number of positions.
func (ix *Index) Len() int { return len(ix.keys) }

// Store exposes the interning store backing this index.
func (ix *Index) Store() *intern.Store { return ix.store }

// -------------------------------------------------------------------------
// Label lookups
// -------------------------------------------------------------------------

// locate returns every position holding label, ascending. A nil slice
// with a nil error means the label is valid but absent.
func (ix *Index) locate(label any) ([]int, error) {
	onDone := ix.metrics.beginLookup(time.Now())
	defer func() { onDone(time.Now()) }()

	if err := scalar.Verify(label); err != nil {
		return nil, err
	}
	key, ok := ix.store.Lookup(label)
	if !ok {
		return nil, nil
	}
	if ix.cache != nil {
		bucket, ok := ix.cache.lookup(cacheKey(key))
		if !ok {
			ix.metrics.cacheMiss()
			return nil, nil
		}
		ix.metrics.cacheHit()
		out := make([]int, len(bucket))
		copy(out, bucket)
		return out, nil
	}
	var out []int
	for pos, k := range ix.keys {
		if k == key {
			out = append(out, pos)
		}
	}
	return out, nil
}

// GetLoc returns the first position holding label. An absent label fails
// with NotFound.
func (ix *Index) GetLoc(label any) (int, error) {
	positions, err := ix.locate(label)
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		return 0, &NotFoundError{Label: label, Level: -1}
	}
	return positions[0], nil
}

// GetLocs returns every position holding label, ascending. An absent
// label fails with NotFound.
func (ix *Index) GetLocs(label any) ([]int, error) {
	positions, err := ix.locate(label)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, &NotFoundError{Label: label, Level: -1}
	}
	return positions, nil
}

// Locate is GetLocs with the miss suppressed: a valid but absent label
// yields (nil, nil). Invalid labels still fail.
func (ix *Index) Locate(label any) ([]int, error) {
	return ix.locate(label)
}

// Contains reports whether label is held at any position. Invalid labels
// are simply not contained.
func (ix *Index) Contains(label any) bool {
	positions, err := ix.locate(label)
	return err == nil && len(positions) > 0
}

// -------------------------------------------------------------------------
// Positional reads
// -------------------------------------------------------------------------

// At returns the value at pos. Negative positions wrap from the end.
func (ix *Index) At(pos int) (any, error) {
	p, err := wrapPosition(pos, len(ix.keys))
	if err != nil {
		return nil, err
	}
	v, _ := ix.store.Value(ix.keys[p])
	return v, nil
}

// Get returns the values selected by sel, in selection order. Range
// selectors follow the closed-interval slice semantics.
func (ix *Index) Get(sel Selector) ([]any, error) {
	positions, err := resolve(sel, len(ix.keys))
	if err != nil {
		return nil, err
	}
	out := make([]any, len(positions))
	for i, pos := range positions {
		v, _ := ix.store.Value(ix.keys[pos])
		out[i] = v
	}
	return out, nil
}

// -------------------------------------------------------------------------
// Mutation
// -------------------------------------------------------------------------

// Set assigns value to every position selected by sel. The value is
// validated and interned once, not once per position; each position then
// has its cache entry moved from the old key to the new one before the
// overwrite. Range selectors are expanded raw, with conventional
// exclusive-stop stepping.
func (ix *Index) Set(sel Selector, value any) error {
	positions, err := resolveRaw(sel, len(ix.keys))
	if err != nil {
		return err
	}
	key, err := ix.store.Intern(value)
	if err != nil {
		return err
	}
	for _, pos := range positions {
		old := ix.keys[pos]
		if ix.cache != nil {
			if err := ix.cache.remove(cacheKey(old), pos); err != nil {
				return err
			}
			ix.cache.add(cacheKey(key), pos)
		}
		ix.keys[pos] = key
	}
	return nil
}

// Append interns value and appends its key. With a cache present the new
// position joins the value's bucket.
func (ix *Index) Append(value any) error {
	key, err := ix.store.Intern(value)
	if err != nil {
		return err
	}
	ix.keys = append(ix.keys, key)
	if ix.cache != nil {
		ix.cache.add(cacheKey(key), len(ix.keys)-1)
	}
	return nil
}

// Extend appends every value in batch, in order. The batch is validated
// and its unseen values interned before any position is appended, so a
// bad batch leaves the rows unchanged. An empty batch is refused.
func (ix *Index) Extend(batch []any) error {
	if len(batch) == 0 {
		return fmt.Errorf("extend with an empty batch")
	}
	if err := ix.store.InternAll(batch); err != nil {
		return err
	}
	for _, v := range batch {
		key, _ := ix.store.Lookup(v)
		ix.keys = append(ix.keys, key)
		if ix.cache != nil {
			ix.cache.add(cacheKey(key), len(ix.keys)-1)
		}
	}
	return nil
}

// -------------------------------------------------------------------------
// Uniqueness and materialization
// -------------------------------------------------------------------------

// Unique returns the distinct values in first-appearance order.
func (ix *Index) Unique() []any {
	seen := make(map[intern.Key]struct{}, len(ix.keys))
	var out []any
	for _, k := range ix.keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		v, _ := ix.store.Value(k)
		out = append(out, v)
	}
	return out
}

// IsUnique reports whether no value appears at more than one position.
// With a cache present this is a bucket count comparison.
func (ix *Index) IsUnique() bool {
	if ix.cache != nil {
		return len(ix.keys) == ix.cache.distinct()
	}
	seen := make(map[intern.Key]struct{}, len(ix.keys))
	for _, k := range ix.keys {
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// ToList materializes the value at every position, in order.
func (ix *Index) ToList() []any {
	out := make([]any, len(ix.keys))
	for i, k := range ix.keys {
		v, _ := ix.store.Value(k)
		out[i] = v
	}
	return out
}

// Iter returns a restartable iterator over the values in position order.
// The iterator reads the live index; interleaving mutation is undefined.
func (ix *Index) Iter() *ValueIter {
	return &ValueIter{ix: ix}
}

// ValueIter iterates an Index's values front to back.
type ValueIter struct {
	ix  *Index
	pos int
}

// Next returns the next value, reporting false once exhausted.
func (it *ValueIter) Next() (any, bool) {
	if it.pos >= it.ix.Len() {
		return nil, false
	}
	v, _ := it.ix.store.Value(it.ix.keys[it.pos])
	it.pos++
	return v, true
}

// Reset rewinds the iterator to the first position.
func (it *ValueIter) Reset() { it.pos = 0 }

// -------------------------------------------------------------------------
// Cache management
// -------------------------------------------------------------------------

// BuildCache builds the position cache from the current rows, replacing
// any previous cache. Mutations afterwards keep it exact.
func (ix *Index) BuildCache() {
	c := newCache()
	for pos, k := range ix.keys {
		c.add(cacheKey(k), pos)
	}
	ix.cache = c
}

// DropCache discards the cache, freeing its memory. Label lookups fall
// back to linear scans.
func (ix *Index) DropCache() { ix.cache = nil }

// Cached reports whether the position cache is present.
func (ix *Index) Cached() bool { return ix.cache != nil }

// CacheSnapshot returns a deep copy of the cache buckets under their
// packed bucket keys, or nil when no cache is present.
func (ix *Index) CacheSnapshot() map[string][]int {
	if ix.cache == nil {
		return nil
	}
	return ix.cache.snapshot()
}

// RawKeys returns a copy of the interned key held at every position.
func (ix *Index) RawKeys() []intern.Key {
	out := make([]intern.Key, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// String renders the values and a length trailer, for debugging.
func (ix *Index) String() string {
	parts := make([]string, len(ix.keys))
	for i, k := range ix.keys {
		v, _ := ix.store.Value(k)
		parts[i] = scalar.Format(v)
	}
	return fmt.Sprintf("[%s]\n\ntype : Index, length: %d", strings.Join(parts, ", "), len(ix.keys))
}
