package scalar

import "strings"

// kindRank orders the type families for cross-kind comparison:
// numeric < string < tuple. Within the numeric family, int and float
// compare by value, with int ordered first on a numeric tie so the order
// stays total and consistent with Equal (1 and 1.0 are distinct labels).
func kindRank(v any) int {
	switch v.(type) {
	case int, int64, float64:
		return 0
	case string:
		return 1
	case Tuple:
		return 2
	default:
		return 3
	}
}

// Compare returns -1, 0, or 1 ordering a before, equal to, or after b.
// The order is total over all valid scalars: numerics by value (int before
// float on ties), strings lexicographically, tuples elementwise then by
// length, and distinct families by rank.
func Compare(a, b any) int {
	a, b = Normalize(a), Normalize(b)
	if ra, rb := kindRank(a), kindRank(b); ra != rb {
		return sign(ra - rb)
	}
	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		case float64:
			if c := compareFloat64(float64(av), bv); c != 0 {
				return c
			}
			return -1 // int before float on numeric tie
		}
	case float64:
		switch bv := b.(type) {
		case float64:
			return compareFloat64(av, bv)
		case int64:
			if c := compareFloat64(av, float64(bv)); c != 0 {
				return c
			}
			return 1
		}
	case string:
		return strings.Compare(av, b.(string))
	case Tuple:
		bv := b.(Tuple)
		n := len(av)
		if len(bv) < n {
			n = len(bv)
		}
		for i := 0; i < n; i++ {
			if c := Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		return sign(len(av) - len(bv))
	}
	return 0
}

// Equal reports whether a and b are the same label. Consistent with
// Compare and with the canonical encoding: same kind, same value.
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
