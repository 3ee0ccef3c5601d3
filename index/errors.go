package index

import (
	"fmt"

	"tabula/scalar"
)

// -------------------------------------------------------------------------
// Typed errors
// -------------------------------------------------------------------------

// OutOfBoundsError is returned when a position, slice bound, or mask shape
// falls outside the index after negative-wrap normalization.
type OutOfBoundsError struct {
	Position int // offending position or bound; the mask length when Mask is set
	Length   int
	Mask     bool
}

func (e *OutOfBoundsError) Error() string {
	if e.Mask {
		return fmt.Sprintf("mask length %d does not match index length %d", e.Position, e.Length)
	}
	return fmt.Sprintf("position %d out of bounds for index of length %d", e.Position, e.Length)
}

// NotFoundError is returned when a label is absent from the index.
// For multi-level lookups Level names the first level whose component
// missed; it is -1 when the miss is not level-specific.
type NotFoundError struct {
	Label any
	Level int
}

func (e *NotFoundError) Error() string {
	if e.Level >= 0 {
		return fmt.Sprintf("label %s not found in level %d", scalar.Format(e.Label), e.Level)
	}
	return fmt.Sprintf("label %s not found", scalar.Format(e.Label))
}

// LevelMismatchError is returned when a tuple's arity does not match the
// level count, or when a names sequence has the wrong shape.
type LevelMismatchError struct {
	Got    int
	Want   int
	Reason string
}

func (e *LevelMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("level mismatch: %s", e.Reason)
	}
	return fmt.Sprintf("got %d levels, want %d", e.Got, e.Want)
}

// CacheInconsistencyError reports a broken cache invariant: a removal for a
// position the bucket does not hold. It indicates a prior internal bug and
// is never produced by correct external use.
type CacheInconsistencyError struct {
	Key      string // canonical bucket key
	Position int
}

func (e *CacheInconsistencyError) Error() string {
	return fmt.Sprintf("cache bucket %x does not contain position %d", e.Key, e.Position)
}
