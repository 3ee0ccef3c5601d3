package intern

import (
	"errors"
	"math"
	"testing"

	"tabula/scalar"
)

func TestStore_InternAssignsDenseKeys(t *testing.T) {
	s := NewStore()
	ka, err := s.Intern("a")
	if err != nil {
		t.Fatal(err)
	}
	kb, err := s.Intern("b")
	if err != nil {
		t.Fatal(err)
	}
	again, err := s.Intern("a")
	if err != nil {
		t.Fatal(err)
	}
	if ka != 0 || kb != 1 {
		t.Fatalf("keys = %d, %d, want 0, 1", ka, kb)
	}
	if again != ka {
		t.Fatalf("re-intern of %q = %d, want %d", "a", again, ka)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestStore_InternValidates(t *testing.T) {
	s := NewStore()
	for _, v := range []any{math.NaN(), scalar.Tuple{}, true, nil} {
		_, err := s.Intern(v)
		if err == nil {
			t.Errorf("Intern(%v): expected error", v)
			continue
		}
		var ive *scalar.InvalidValueError
		if !errors.As(err, &ive) {
			t.Errorf("Intern(%v): expected InvalidValueError, got %T: %v", v, err, err)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d after failed interns, want 0", s.Len())
	}
}

func TestStore_InternNormalizes(t *testing.T) {
	s := NewStore()
	k, err := s.Intern(7)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := s.Value(k)
	if !ok || v != int64(7) {
		t.Fatalf("Value(%d) = %T %v, want int64 7", k, v, v)
	}
	if k2, ok := s.Lookup(int64(7)); !ok || k2 != k {
		t.Fatalf("Lookup(int64(7)) = %d, %v, want %d, true", k2, ok, k)
	}
}

func TestStore_InternTuples(t *testing.T) {
	s := NewStore()
	k, err := s.Intern(scalar.Tuple{1, "x"})
	if err != nil {
		t.Fatal(err)
	}
	k2, ok := s.Lookup(scalar.Tuple{int64(1), "x"})
	if !ok || k2 != k {
		t.Fatalf("Lookup(normalized tuple) = %d, %v, want %d, true", k2, ok, k)
	}
}

func TestStore_InternAll(t *testing.T) {
	s := NewStore()
	if err := s.InternAll([]any{"b", "a", "b", "c", "a"}); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	// First-seen order assigns keys.
	for i, v := range []any{"b", "a", "c"} {
		k, ok := s.Lookup(v)
		if !ok || int(k) != i {
			t.Errorf("Lookup(%v) = %d, %v, want %d, true", v, k, ok, i)
		}
	}
}

func TestStore_InternAllSkipsKnown(t *testing.T) {
	s := NewStore()
	if _, err := s.Intern("a"); err != nil {
		t.Fatal(err)
	}
	if err := s.InternAll([]any{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	ka, _ := s.Lookup("a")
	kb, _ := s.Lookup("b")
	if ka != 0 || kb != 1 {
		t.Fatalf("keys = %d, %d, want 0, 1", ka, kb)
	}
}

func TestStore_InternAllInvalidLeavesStoreUntouched(t *testing.T) {
	s := NewStore()
	err := s.InternAll([]any{"x", "y", math.NaN()})
	if err == nil {
		t.Fatal("expected error")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d after failed batch, want 0", s.Len())
	}
	if _, ok := s.Lookup("x"); ok {
		t.Error("partial batch member was interned")
	}
}

func TestStore_ValueBounds(t *testing.T) {
	s := NewStore()
	s.Intern("a")
	if _, ok := s.Value(-1); ok {
		t.Error("Value(-1) should miss")
	}
	if _, ok := s.Value(5); ok {
		t.Error("Value(5) should miss")
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Intern("a")
	snap := s.Snapshot()
	snap[0] = "mutated"
	if v, _ := s.Value(0); v != "a" {
		t.Fatalf("store value changed through snapshot: %v", v)
	}
}

func TestStore_Bijective(t *testing.T) {
	s := NewStore()
	s.InternAll([]any{"a", "b", int64(3)})
	if !s.Bijective(false) || !s.Bijective(true) {
		t.Fatal("fresh store should be bijective")
	}

	// Forward corruption: a stored value whose encoding is not registered.
	s.values[1] = "rogue"
	if s.Bijective(false) {
		t.Error("forward walk should detect a rogue value")
	}
	s.values[1] = "b"

	// Reverse-only corruption: an extra reverse entry to a dead key is
	// invisible to the forward walk, full mode must catch it.
	enc, _ := scalar.KeyString("ghost")
	s.keys[enc] = 99
	if !s.Bijective(false) {
		t.Error("forward walk should still pass")
	}
	if s.Bijective(true) {
		t.Error("full check should detect the dangling reverse entry")
	}
}

func TestStore_ReverseKeys(t *testing.T) {
	s := NewStore()
	s.InternAll([]any{"a", "b"})
	got := s.ReverseKeys()
	if len(got) != 2 {
		t.Fatalf("ReverseKeys returned %d keys, want 2", len(got))
	}
	seen := map[Key]bool{}
	for _, k := range got {
		seen[k] = true
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("ReverseKeys = %v, want {0, 1}", got)
	}
}
