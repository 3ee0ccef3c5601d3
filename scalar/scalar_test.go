package scalar

import (
	"errors"
	"math"
	"testing"
)

func TestVerify_ValidValues(t *testing.T) {
	valid := []any{
		int64(0),
		42,
		int64(-7),
		"",
		"hello",
		3.14,
		math.Inf(1),
		math.Inf(-1),
		Tuple{int64(1), "x"},
		Tuple{Tuple{int64(1), int64(2)}, "deep", 0.5},
	}
	for _, v := range valid {
		if err := Verify(v); err != nil {
			t.Errorf("Verify(%s): unexpected error %v", Format(v), err)
		}
	}
}

func TestVerify_InvalidValues(t *testing.T) {
	invalid := []any{
		math.NaN(),
		Tuple{},
		Tuple{int64(1), Tuple{}},
		Tuple{int64(1), math.NaN()},
		true,
		nil,
		[]any{int64(1)},
		uint(3),
		int32(3),
	}
	for _, v := range invalid {
		err := Verify(v)
		if err == nil {
			t.Errorf("Verify(%v): expected error", v)
			continue
		}
		var ive *InvalidValueError
		if !errors.As(err, &ive) {
			t.Errorf("Verify(%v): expected InvalidValueError, got %T: %v", v, err, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(7); got != int64(7) {
		t.Fatalf("Normalize(7) = %T %v, want int64 7", got, got)
	}
	got := Normalize(Tuple{1, Tuple{2, "x"}})
	tup, ok := got.(Tuple)
	if !ok {
		t.Fatalf("Normalize(tuple) = %T, want Tuple", got)
	}
	if tup[0] != int64(1) {
		t.Errorf("element 0 = %T %v, want int64 1", tup[0], tup[0])
	}
	inner := tup[1].(Tuple)
	if inner[0] != int64(2) || inner[1] != "x" {
		t.Errorf("inner tuple = %v, want (2, \"x\")", Format(inner))
	}
}

func TestKeyString_EqualValuesEqualKeys(t *testing.T) {
	pairs := [][2]any{
		{int64(5), 5},
		{"abc", "abc"},
		{Tuple{1, "x"}, Tuple{int64(1), "x"}},
	}
	for _, p := range pairs {
		a := must(KeyString(p[0]))
		b := must(KeyString(p[1]))
		if a != b {
			t.Errorf("KeyString(%s) != KeyString(%s)", Format(p[0]), Format(p[1]))
		}
	}
}

func TestKeyString_DistinctValuesDistinctKeys(t *testing.T) {
	values := []any{
		int64(1),
		1.0,
		"1",
		Tuple{int64(1)},
		Tuple{int64(1), int64(2), int64(3)},
		Tuple{int64(1), Tuple{int64(2), int64(3)}},
		Tuple{Tuple{int64(1), int64(2)}, int64(3)},
		"",
		int64(0),
	}
	seen := make(map[string]any, len(values))
	for _, v := range values {
		k := must(KeyString(v))
		if prev, dup := seen[k]; dup {
			t.Errorf("KeyString collision: %s and %s", Format(prev), Format(v))
		}
		seen[k] = v
	}
}

func TestKeyString_UnsupportedType(t *testing.T) {
	if _, err := KeyString(true); err == nil {
		t.Fatal("expected error for bool")
	}
	_, err := KeyString(Tuple{int64(1), []byte("x")})
	if err == nil {
		t.Fatal("expected error for nested unsupported type")
	}
	var ive *InvalidValueError
	if !errors.As(err, &ive) {
		t.Fatalf("expected InvalidValueError, got %T: %v", err, err)
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b any
		want int
	}{
		{int64(1), int64(2), -1},
		{int64(2), int64(2), 0},
		{3, int64(2), 1},
		{1.5, int64(2), -1},
		{int64(2), 1.5, 1},
		{int64(1), 1.0, -1}, // int before float on numeric tie
		{1.0, int64(1), 1},
		{"a", "b", -1},
		{"b", "b", 0},
		{int64(9), "a", -1}, // numeric family before strings
		{"z", Tuple{int64(1)}, -1},
		{Tuple{int64(1), "a"}, Tuple{int64(1), "b"}, -1},
		{Tuple{int64(1)}, Tuple{int64(1), int64(0)}, -1},
		{Tuple{int64(2)}, Tuple{int64(1), int64(9)}, 1},
		{Tuple{1, "x"}, Tuple{int64(1), "x"}, 0},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", Format(c.a), Format(c.b), got, c.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(7, int64(7)) {
		t.Error("7 and int64(7) should be equal")
	}
	if Equal(int64(1), 1.0) {
		t.Error("1 and 1.0 are distinct labels")
	}
	if !Equal(Tuple{1, "x"}, Tuple{int64(1), "x"}) {
		t.Error("tuples with normalized ints should be equal")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v    any
		want string
	}{
		{int64(42), "42"},
		{-1.5, "-1.5"},
		{"hi", `"hi"`},
		{Tuple{int64(1), "x", Tuple{2.5}}, `(1, "x", (2.5))`},
	}
	for _, c := range cases {
		if got := Format(c.v); got != c.want {
			t.Errorf("Format(%v) = %s, want %s", c.v, got, c.want)
		}
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
