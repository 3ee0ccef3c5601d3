package index

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tabula/intern"
	"tabula/scalar"
)

// MultiIndex is a multi-level label index: parallel key columns, one per
// level, addressing rows by tuples with one component per level. All
// levels share one interning store, so a value interned through any level
// is known to every level.
type MultiIndex struct {
	store   *intern.Store
	levels  [][]intern.Key
	names   []string
	cache   *cache
	metrics *Metrics
}

// MultiOptions configures construction of a MultiIndex.
type MultiOptions struct {
	// Cached builds the position cache up front.
	Cached bool
	// Names labels the levels. Empty leaves them unnamed; otherwise one
	// unique name per level is required.
	Names []string
	// Store shares an existing interning store. Nil means fresh.
	Store *intern.Store
	// Metrics instruments row lookups. Nil disables instrumentation.
	Metrics *Metrics
	// MemoryEfficient interns values one at a time while filling the
	// columns instead of staging the distinct-value union first. The
	// resulting mapping is identical; only peak allocation differs.
	MemoryEfficient bool
}

// NewMulti builds a multi-level index from parallel level columns. At
// least one level is required and all columns must be the same length.
func NewMulti(columns [][]any, opts MultiOptions) (*MultiIndex, error) {
	if len(columns) == 0 {
		return nil, &LevelMismatchError{Reason: "at least one level column is required"}
	}
	rowCount := len(columns[0])
	for _, col := range columns {
		if len(col) != rowCount {
			return nil, &LevelMismatchError{Reason: "level columns must all be the same length"}
		}
	}

	st := opts.Store
	if st == nil {
		st = intern.NewStore()
	}
	if opts.MemoryEfficient {
		// Validate everything up front so a bad value cannot leave a
		// shared store half extended.
		for _, col := range columns {
			for _, v := range col {
				if err := scalar.Verify(v); err != nil {
					return nil, err
				}
			}
		}
	} else {
		batch := make([]any, 0, len(columns)*rowCount)
		for _, col := range columns {
			batch = append(batch, col...)
		}
		if err := st.InternAll(batch); err != nil {
			return nil, err
		}
	}

	m := &MultiIndex{store: st, metrics: opts.Metrics}
	m.levels = make([][]intern.Key, len(columns))
	for li, col := range columns {
		keys := make([]intern.Key, len(col))
		for i, v := range col {
			k, err := st.Intern(v)
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		m.levels[li] = keys
	}
	if err := m.SetNames(opts.Names); err != nil {
		return nil, err
	}
	if opts.Cached {
		m.BuildCache()
	}
	return m, nil
}

// FromTuples builds a multi-level index from rows, one tuple per row. At
// least one row is required to derive the level count, and all rows must
// share the same arity.
func FromTuples(rows []scalar.Tuple, opts MultiOptions) (*MultiIndex, error) {
	if len(rows) == 0 {
		return nil, &LevelMismatchError{Reason: "at least one row is required"}
	}
	for _, row := range rows {
		if err := scalar.Verify(row); err != nil {
			return nil, err
		}
	}
	arity := len(rows[0])
	for _, row := range rows {
		if len(row) != arity {
			return nil, &LevelMismatchError{Got: len(row), Want: arity, Reason: "rows must all be the same length"}
		}
	}
	columns := make([][]any, arity)
	for level := range columns {
		col := make([]any, len(rows))
		for pos, row := range rows {
			col[pos] = row[level]
		}
		columns[level] = col
	}
	return NewMulti(columns, opts)
}

// FromProduct builds a multi-level index from the cartesian product of
// two or more sequences, in lexicographic order with the last sequence
// varying fastest. Every sequence contributes one level.
func FromProduct(seqs [][]any, opts MultiOptions) (*MultiIndex, error) {
	if len(seqs) < 2 {
		return nil, &LevelMismatchError{Reason: "a product needs at least two sequences"}
	}
	total := 1
	for i, seq := range seqs {
		if len(seq) == 0 {
			return nil, &LevelMismatchError{Reason: fmt.Sprintf("product sequence %d is empty", i)}
		}
		total *= len(seq)
	}
	columns := make([][]any, len(seqs))
	block := total
	for level, seq := range seqs {
		block /= len(seq)
		col := make([]any, 0, total)
		for len(col) < total {
			for _, v := range seq {
				for i := 0; i < block; i++ {
					col = append(col, v)
				}
			}
		}
		columns[level] = col
	}
	return NewMulti(columns, opts)
}

// Len returns the number of rows.
func (m *MultiIndex) Len() int {
	if len(m.levels) == 0 {
		return 0
	}
	return len(m.levels[0])
}

// Levels returns the number of levels.
func (m *MultiIndex) Levels() int { return len(m.levels) }

// Store exposes the interning store backing this index.
func (m *MultiIndex) Store() *intern.Store { return m.store }

// Names returns a copy of the level names, nil when unnamed.
func (m *MultiIndex) Names() []string {
	return append([]string(nil), m.names...)
}

// SetNames labels the levels. Nil or empty clears the names; otherwise
// there must be exactly one name per level and names must be unique.
func (m *MultiIndex) SetNames(names []string) error {
	if len(names) == 0 {
		m.names = nil
		return nil
	}
	if len(names) != len(m.levels) {
		return &LevelMismatchError{Reason: fmt.Sprintf("%d names for %d levels", len(names), len(m.levels))}
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return &LevelMismatchError{Reason: fmt.Sprintf("duplicate level name %q", n)}
		}
		seen[n] = struct{}{}
	}
	m.names = append([]string(nil), names...)
	return nil
}

// -------------------------------------------------------------------------
// Row lookups
// -------------------------------------------------------------------------

// locateRow returns every position holding row, ascending. A nil slice
// with a nil error means the row is valid but absent. A component missing
// from the store fails with NotFound naming its level.
func (m *MultiIndex) locateRow(row scalar.Tuple) ([]int, error) {
	onDone := m.metrics.beginLookup(time.Now())
	defer func() { onDone(time.Now()) }()

	if err := scalar.Verify(row); err != nil {
		return nil, err
	}
	if len(row) != len(m.levels) {
		return nil, &LevelMismatchError{Got: len(row), Want: len(m.levels)}
	}
	keys := make([]intern.Key, len(row))
	for level, item := range row {
		k, ok := m.store.Lookup(item)
		if !ok {
			return nil, &NotFoundError{Label: item, Level: level}
		}
		keys[level] = k
	}

	if m.cache != nil {
		bucket, ok := m.cache.lookup(cacheKey(keys...))
		if !ok {
			m.metrics.cacheMiss()
			return nil, nil
		}
		m.metrics.cacheHit()
		out := make([]int, len(bucket))
		copy(out, bucket)
		return out, nil
	}

	var out []int
	rows := m.Len()
scan:
	for pos := 0; pos < rows; pos++ {
		for level, k := range keys {
			if m.levels[level][pos] != k {
				continue scan
			}
		}
		out = append(out, pos)
	}
	return out, nil
}

// GetLoc returns the first position holding row. An absent row fails
// with NotFound.
func (m *MultiIndex) GetLoc(row scalar.Tuple) (int, error) {
	positions, err := m.locateRow(row)
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		return 0, &NotFoundError{Label: row, Level: -1}
	}
	return positions[0], nil
}

// GetLocs returns every position holding row, ascending. An absent row
// fails with NotFound.
func (m *MultiIndex) GetLocs(row scalar.Tuple) ([]int, error) {
	positions, err := m.locateRow(row)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, &NotFoundError{Label: row, Level: -1}
	}
	return positions, nil
}

// Locate is GetLocs with misses suppressed: a valid but absent row, or a
// row with a component no level has seen, yields (nil, nil). Invalid
// rows and arity mismatches still fail.
func (m *MultiIndex) Locate(row scalar.Tuple) ([]int, error) {
	positions, err := m.locateRow(row)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return positions, nil
}

// Contains reports whether row is held at any position. Invalid rows and
// arity mismatches are simply not contained.
func (m *MultiIndex) Contains(row scalar.Tuple) bool {
	positions, err := m.locateRow(row)
	return err == nil && len(positions) > 0
}

// -------------------------------------------------------------------------
// Positional reads
// -------------------------------------------------------------------------

// row materializes position p. Bounds are the caller's responsibility.
func (m *MultiIndex) row(p int) scalar.Tuple {
	out := make(scalar.Tuple, len(m.levels))
	for level := range m.levels {
		v, _ := m.store.Value(m.levels[level][p])
		out[level] = v
	}
	return out
}

// rowCacheKey is the cache key of the row currently at pos.
func (m *MultiIndex) rowCacheKey(pos int) string {
	keys := make([]intern.Key, len(m.levels))
	for level := range m.levels {
		keys[level] = m.levels[level][pos]
	}
	return cacheKey(keys...)
}

// RowAt returns the row at pos as a tuple of original values. Negative
// positions wrap from the end.
func (m *MultiIndex) RowAt(pos int) (scalar.Tuple, error) {
	p, err := wrapPosition(pos, m.Len())
	if err != nil {
		return nil, err
	}
	return m.row(p), nil
}

// GetRows returns the rows selected by sel, one tuple per row in
// selection order. Range selectors follow the closed-interval slice
// semantics.
func (m *MultiIndex) GetRows(sel Selector) ([]scalar.Tuple, error) {
	positions, err := resolve(sel, m.Len())
	if err != nil {
		return nil, err
	}
	out := make([]scalar.Tuple, len(positions))
	for i, pos := range positions {
		out[i] = m.row(pos)
	}
	return out, nil
}

// -------------------------------------------------------------------------
// Mutation
// -------------------------------------------------------------------------

// internRow validates every component of row, then interns them,
// returning one key per level. Validation completes before the store is
// touched.
func (m *MultiIndex) internRow(row scalar.Tuple) ([]intern.Key, error) {
	for _, item := range row {
		if err := scalar.Verify(item); err != nil {
			return nil, err
		}
	}
	keys := make([]intern.Key, len(row))
	for level, item := range row {
		k, err := m.store.Intern(item)
		if err != nil {
			return nil, err
		}
		keys[level] = k
	}
	return keys, nil
}

// SetRows writes row to every position selected by sel. Arity is checked
// first and the row's values are validated and interned once. Each
// target position then has its cache entry moved from the old row to the
// new one before the columns are overwritten. Range selectors follow the
// same closed-interval semantics as reads.
func (m *MultiIndex) SetRows(sel Selector, row scalar.Tuple) error {
	if len(row) != len(m.levels) {
		return &LevelMismatchError{Got: len(row), Want: len(m.levels)}
	}
	positions, err := resolve(sel, m.Len())
	if err != nil {
		return err
	}
	keys, err := m.internRow(row)
	if err != nil {
		return err
	}
	newKey := cacheKey(keys...)
	for _, pos := range positions {
		if m.cache != nil {
			if err := m.cache.remove(m.rowCacheKey(pos), pos); err != nil {
				return err
			}
			m.cache.add(newKey, pos)
		}
		for level, k := range keys {
			m.levels[level][pos] = k
		}
	}
	return nil
}

// AppendRow interns the row's values and appends one position holding
// them. With a cache present the new position joins the row's bucket.
func (m *MultiIndex) AppendRow(row scalar.Tuple) error {
	if len(row) != len(m.levels) {
		return &LevelMismatchError{Got: len(row), Want: len(m.levels)}
	}
	keys, err := m.internRow(row)
	if err != nil {
		return err
	}
	for level, k := range keys {
		m.levels[level] = append(m.levels[level], k)
	}
	if m.cache != nil {
		m.cache.add(cacheKey(keys...), m.Len()-1)
	}
	return nil
}

// Extend appends every row of other onto m, translating other's keys
// into m's store. Other's whole interned value set is unioned into the
// store first, in its insertion order. When both indexes carry names
// covering the same set, levels merge by name; otherwise purely by
// position. With a cache present only the appended row range is added,
// never a full rebuild. Extending an index with itself is supported.
func (m *MultiIndex) Extend(other *MultiIndex) error {
	if len(other.levels) != len(m.levels) {
		return &LevelMismatchError{Got: len(other.levels), Want: len(m.levels)}
	}
	if err := m.store.InternAll(other.store.Values()); err != nil {
		return err
	}

	target := make([]int, len(m.levels))
	for level := range target {
		target[level] = level
	}
	if namesMatch(m.names, other.names) {
		for level, name := range other.names {
			target[level] = indexOfName(m.names, name)
		}
	}

	// Captured before any append so extending with itself reads only
	// the original rows.
	base := m.Len()
	otherLen := other.Len()

	for level := 0; level < len(other.levels); level++ {
		translated := make([]intern.Key, otherLen)
		for i := 0; i < otherLen; i++ {
			v, _ := other.store.Value(other.levels[level][i])
			k, _ := m.store.Lookup(v)
			translated[i] = k
		}
		dst := target[level]
		m.levels[dst] = append(m.levels[dst], translated...)
	}

	if m.cache != nil {
		for pos := base; pos < base+otherLen; pos++ {
			m.cache.add(m.rowCacheKey(pos), pos)
		}
	}
	return nil
}

// Concat returns a new index holding first's rows followed by second's.
// The result keeps first's names and cached-ness; neither input is
// mutated. The result's store is rebuilt from first's rows, so interned
// values no row references are shed before second's value set is
// unioned in.
func Concat(first, second *MultiIndex) (*MultiIndex, error) {
	out := first.clone()
	if err := out.Extend(second); err != nil {
		return nil, err
	}
	return out, nil
}

// clone returns a deep copy with a fresh store rebuilt from the rows in
// first-seen order.
func (m *MultiIndex) clone() *MultiIndex {
	st := intern.NewStore()
	out := &MultiIndex{
		store:   st,
		levels:  make([][]intern.Key, len(m.levels)),
		names:   append([]string(nil), m.names...),
		metrics: m.metrics,
	}
	rows := m.Len()
	for level := range m.levels {
		keys := make([]intern.Key, rows)
		for pos := 0; pos < rows; pos++ {
			v, _ := m.store.Value(m.levels[level][pos])
			k, _ := st.Intern(v)
			keys[pos] = k
		}
		out.levels[level] = keys
	}
	if m.cache != nil {
		out.BuildCache()
	}
	return out
}

// namesMatch reports whether both name lists are present and equal as
// sets, order-independent.
func namesMatch(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(b))
	for _, n := range b {
		set[n] = struct{}{}
	}
	for _, n := range a {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

func indexOfName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// -------------------------------------------------------------------------
// Uniqueness and materialization
// -------------------------------------------------------------------------

// Unique returns the distinct rows in first-appearance order.
func (m *MultiIndex) Unique() []scalar.Tuple {
	rows := m.Len()
	seen := make(map[string]struct{}, rows)
	var out []scalar.Tuple
	for pos := 0; pos < rows; pos++ {
		key := m.rowCacheKey(pos)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m.row(pos))
	}
	return out
}

// IsUnique reports whether no row appears at more than one position.
// With a cache present this is a bucket count comparison.
func (m *MultiIndex) IsUnique() bool {
	if m.cache != nil {
		return m.Len() == m.cache.distinct()
	}
	rows := m.Len()
	seen := make(map[string]struct{}, rows)
	for pos := 0; pos < rows; pos++ {
		key := m.rowCacheKey(pos)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// ToTuples materializes every row in position order.
func (m *MultiIndex) ToTuples() []scalar.Tuple {
	out := make([]scalar.Tuple, m.Len())
	for pos := range out {
		out[pos] = m.row(pos)
	}
	return out
}

// Iter returns a restartable iterator over the rows in position order.
// The iterator reads the live index; interleaving mutation is undefined.
func (m *MultiIndex) Iter() *RowIter {
	return &RowIter{m: m}
}

// RowIter iterates a MultiIndex's rows front to back.
type RowIter struct {
	m   *MultiIndex
	pos int
}

// Next returns the next row, reporting false once exhausted.
func (it *RowIter) Next() (scalar.Tuple, bool) {
	if it.pos >= it.m.Len() {
		return nil, false
	}
	row := it.m.row(it.pos)
	it.pos++
	return row, true
}

// Reset rewinds the iterator to the first row.
func (it *RowIter) Reset() { it.pos = 0 }

// -------------------------------------------------------------------------
// Cache management
// -------------------------------------------------------------------------

// BuildCache builds the position cache from the current rows, replacing
// any previous cache. Mutations afterwards keep it exact.
func (m *MultiIndex) BuildCache() {
	c := newCache()
	rows := m.Len()
	for pos := 0; pos < rows; pos++ {
		c.add(m.rowCacheKey(pos), pos)
	}
	m.cache = c
}

// DropCache discards the cache, freeing its memory. Row lookups fall
// back to linear scans.
func (m *MultiIndex) DropCache() { m.cache = nil }

// Cached reports whether the position cache is present.
func (m *MultiIndex) Cached() bool { return m.cache != nil }

// CacheSnapshot returns a deep copy of the cache buckets under their
// packed bucket keys, or nil when no cache is present.
func (m *MultiIndex) CacheSnapshot() map[string][]int {
	if m.cache == nil {
		return nil
	}
	return m.cache.snapshot()
}

// RawLevels returns a copy of the key columns, one per level.
func (m *MultiIndex) RawLevels() [][]intern.Key {
	out := make([][]intern.Key, len(m.levels))
	for level := range m.levels {
		out[level] = append([]intern.Key(nil), m.levels[level]...)
	}
	return out
}

// String renders the names and up to the first 50 rows, for debugging.
func (m *MultiIndex) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "names : %v\n", m.names)
	rows := m.Len()
	if rows > 50 {
		rows = 50
	}
	for pos := 0; pos < rows; pos++ {
		b.WriteString(scalar.Format(m.row(pos)))
		b.WriteByte('\n')
	}
	return b.String()
}
