package index

import "fmt"

// Selector picks index positions for positional reads and writes. The shape
// is always stated by the caller: a bare position, a position list, a
// boolean mask, or a range. Nothing is inferred from element types, so an
// empty Positions and an empty Mask stay unambiguous (both select nothing).
type Selector interface {
	selectorShape()
}

// Position selects a single position. Negative values wrap from the end.
type Position int

// Positions selects an explicit list of positions in the given order, each
// negative-wrapped and bounds-checked independently.
type Positions []int

// Mask selects every position whose entry is true. The mask must be exactly
// as long as the index.
type Mask []bool

// Range selects by slice bounds. Nil bounds mean "not given"; Step 0 means
// the default step 1. Most operations treat the bounds as a closed
// unordered pair with direction taken from the step sign (see
// correctRange); Index.Set alone expands the raw range with conventional
// exclusive-stop stepping.
type Range struct {
	Start *int
	Stop  *int
	Step  int
}

func (Position) selectorShape()  {}
func (Positions) selectorShape() {}
func (Mask) selectorShape()      {}
func (Range) selectorShape()     {}

// Bound wraps an int for use as a Range bound.
func Bound(i int) *int { return &i }

// Span is a Range over [start, stop] with the default step.
func Span(start, stop int) Range {
	return Range{Start: Bound(start), Stop: Bound(stop)}
}

// SpanStep is a Range over [start, stop] with an explicit step.
func SpanStep(start, stop, step int) Range {
	return Range{Start: Bound(start), Stop: Bound(stop), Step: step}
}

// Resolve turns sel into the explicit positions it selects against an
// axis of the given length, with ranges going through closed-interval
// correction. This is the resolution every read path uses; callers
// composing an index with other storage can use it to slice that storage
// identically.
func Resolve(sel Selector, length int) ([]int, error) {
	return resolve(sel, length)
}

// resolve turns sel into explicit positions. Ranges go through
// closed-interval correction first.
func resolve(sel Selector, length int) ([]int, error) {
	if r, ok := sel.(Range); ok {
		cr, err := correctRange(r, length)
		if err != nil {
			return nil, err
		}
		return expandRange(cr, length), nil
	}
	return resolvePlain(sel, length)
}

// resolveRaw is resolve without range correction: ranges are expanded as
// given with exclusive-stop stepping, then every position is wrapped and
// bounds-checked before any mutation happens.
func resolveRaw(sel Selector, length int) ([]int, error) {
	if r, ok := sel.(Range); ok {
		return wrapAll(expandRange(r, length), length)
	}
	return resolvePlain(sel, length)
}

func resolvePlain(sel Selector, length int) ([]int, error) {
	switch s := sel.(type) {
	case Position:
		p, err := wrapPosition(int(s), length)
		if err != nil {
			return nil, err
		}
		return []int{p}, nil
	case Positions:
		return wrapAll(s, length)
	case Mask:
		if len(s) != length {
			return nil, &OutOfBoundsError{Position: len(s), Length: length, Mask: true}
		}
		var out []int
		for i, on := range s {
			if on {
				out = append(out, i)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported selector %T", sel)
	}
}

// wrapPosition normalizes a possibly negative position against length.
func wrapPosition(p, length int) (int, error) {
	q := p
	if q < 0 {
		q += length
	}
	if q < 0 || q >= length {
		return 0, &OutOfBoundsError{Position: p, Length: length}
	}
	return q, nil
}

func wrapAll(ps []int, length int) ([]int, error) {
	out := make([]int, len(ps))
	for i, p := range ps {
		q, err := wrapPosition(p, length)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}
