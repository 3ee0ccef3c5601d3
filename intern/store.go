// Package intern implements the deduplicating value store shared by the
// index types: a bijective mapping between scalar labels and small dense
// integer keys.
package intern

import (
	"tabula/scalar"
)

// Key is the dense integer standing in for one interned scalar. Keys are
// assigned in insertion order, starting at zero.
type Key int32

// Store maps scalars to keys and back. The forward direction is a slice
// (the key is the position), the reverse direction a hash map over the
// canonical scalar encoding, so tuples work as lookup keys too.
//
// Keys are never reclaimed: a value stays interned even after every index
// position referencing it has been overwritten. This is an accepted space
// leak; callers needing to shed dead values must rebuild a fresh store.
type Store struct {
	values []any          // key → scalar, insertion-ordered
	keys   map[string]Key // canonical encoding → key
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{keys: make(map[string]Key)}
}

// Intern returns the key for v, allocating the next dense key if v is
// unseen. Unseen values are validated against the scalar grammar;
// already-known values are returned without re-validation.
func (s *Store) Intern(v any) (Key, error) {
	enc, err := scalar.KeyString(v)
	if err != nil {
		return 0, err
	}
	if k, ok := s.keys[enc]; ok {
		return k, nil
	}
	if err := scalar.Verify(v); err != nil {
		return 0, err
	}
	k := Key(len(s.values))
	s.values = append(s.values, scalar.Normalize(v))
	s.keys[enc] = k
	return k, nil
}

// InternAll interns every unseen member of batch. The batch is deduplicated
// first, so validation and key assignment happen at most once per distinct
// value, in first-seen order. Nothing is interned if any unseen member is
// invalid.
func (s *Store) InternAll(batch []any) error {
	encs := make([]string, 0, len(batch))
	vals := make([]any, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, v := range batch {
		enc, err := scalar.KeyString(v)
		if err != nil {
			return err
		}
		if _, dup := seen[enc]; dup {
			continue
		}
		seen[enc] = struct{}{}
		if _, known := s.keys[enc]; known {
			continue
		}
		if err := scalar.Verify(v); err != nil {
			return err
		}
		encs = append(encs, enc)
		vals = append(vals, scalar.Normalize(v))
	}
	for i, enc := range encs {
		s.keys[enc] = Key(len(s.values))
		s.values = append(s.values, vals[i])
	}
	return nil
}

// Lookup returns the key for v without interning. Values outside the
// grammar report false.
func (s *Store) Lookup(v any) (Key, bool) {
	enc, err := scalar.KeyString(v)
	if err != nil {
		return 0, false
	}
	k, ok := s.keys[enc]
	return k, ok
}

// Value returns the scalar interned under k.
func (s *Store) Value(k Key) (any, bool) {
	if k < 0 || int(k) >= len(s.values) {
		return nil, false
	}
	return s.values[k], true
}

// Len returns the number of interned values.
func (s *Store) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of the forward mapping for introspection.
func (s *Store) Snapshot() map[Key]any {
	out := make(map[Key]any, len(s.values))
	for i, v := range s.values {
		out[Key(i)] = v
	}
	return out
}

// Values returns the interned scalars in insertion order.
func (s *Store) Values() []any {
	out := make([]any, len(s.values))
	copy(out, s.values)
	return out
}

// -------------------------------------------------------------------------
// Integrity hooks for the multi-index auditor
// -------------------------------------------------------------------------

// HasKey reports whether k is a live forward-mapping key.
func (s *Store) HasKey(k Key) bool {
	return k >= 0 && int(k) < len(s.values)
}

// ReverseKeys returns the key set registered in the reverse mapping.
func (s *Store) ReverseKeys() []Key {
	out := make([]Key, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, k)
	}
	return out
}

// ValuesUnique reports whether no two forward-mapping keys hold the same
// scalar.
func (s *Store) ValuesUnique() bool {
	seen := make(map[string]struct{}, len(s.values))
	for _, v := range s.values {
		enc, err := scalar.KeyString(v)
		if err != nil {
			return false
		}
		if _, dup := seen[enc]; dup {
			return false
		}
		seen[enc] = struct{}{}
	}
	return true
}

// ForwardConsistent reports whether the value stored under k maps back to
// k through the reverse mapping.
func (s *Store) ForwardConsistent(k Key) bool {
	if !s.HasKey(k) {
		return false
	}
	enc, err := scalar.KeyString(s.values[k])
	if err != nil {
		return false
	}
	back, ok := s.keys[enc]
	return ok && back == k
}

// Bijective reports whether the two directions are mutual inverses.
// By default only the forward direction is walked; with full the reverse
// direction is checked exhaustively as well.
func (s *Store) Bijective(full bool) bool {
	for i := range s.values {
		if !s.ForwardConsistent(Key(i)) {
			return false
		}
	}
	if !full {
		return true
	}
	if len(s.keys) != len(s.values) {
		return false
	}
	for enc, k := range s.keys {
		if !s.HasKey(k) {
			return false
		}
		back, err := scalar.KeyString(s.values[k])
		if err != nil || back != enc {
			return false
		}
	}
	return true
}
