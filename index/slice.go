package index

// correctRange normalizes r against an index of the given length. The
// start/stop bounds are an unordered pair of selection bounds: the interval
// between them is selected whichever is written first, and BOTH ends are
// included, unlike conventional exclusive-stop slicing. Direction comes
// from the step's sign alone.
//
// Negative bounds wrap from the end; explicit bounds outside [0, length)
// fail with OutOfBounds. After ordering the bounds for the traversal
// direction, the stop bound is shifted by one to re-express the closed end
// in exclusive-stop form; when that shift would leave the valid range, stop
// becomes nil, "to the natural end". The returned Range therefore follows
// conventional stepping semantics and can be fed to expandRange directly.
func correctRange(r Range, length int) (Range, error) {
	step := r.Step
	if step == 0 {
		step = 1
	}

	start, err := wrapBound(r.Start, length)
	if err != nil {
		return Range{}, err
	}
	stop, err := wrapBound(r.Stop, length)
	if err != nil {
		return Range{}, err
	}

	if step > 0 {
		if start != nil && stop != nil && *start > *stop {
			start, stop = stop, start
		}
		if stop != nil {
			if *stop == length-1 {
				stop = nil
			} else {
				stop = Bound(*stop + 1)
			}
		}
	} else {
		switch {
		case start != nil && stop != nil:
			if *start < *stop {
				start, stop = stop, start
			}
			if *stop == 0 {
				stop = nil
			} else {
				stop = Bound(*stop - 1)
			}
		case start == nil && stop != nil:
			// The lone given bound is the traversal start; it runs to
			// the natural end of the descending direction.
			start, stop = stop, nil
			if *start == length-1 {
				start = nil
			}
		}
	}

	return Range{Start: start, Stop: stop, Step: step}, nil
}

// wrapBound normalizes one optional bound, wrapping negatives from the end.
func wrapBound(b *int, length int) (*int, error) {
	if b == nil {
		return nil, nil
	}
	v := *b
	if v < 0 {
		v += length
	}
	if v < 0 || v >= length {
		return nil, &OutOfBoundsError{Position: *b, Length: length}
	}
	return Bound(v), nil
}

// expandRange enumerates the positions a range visits, using conventional
// exclusive-stop stepping. Defaults: step 1; start 0 for ascending steps,
// length-1 for descending; stop length for ascending, -1 for descending.
func expandRange(r Range, length int) []int {
	step := r.Step
	if step == 0 {
		step = 1
	}

	var pos int
	switch {
	case r.Start != nil:
		pos = *r.Start
	case step > 0:
		pos = 0
	default:
		pos = length - 1
	}

	var stop int
	switch {
	case r.Stop != nil:
		stop = *r.Stop
	case step > 0:
		stop = length
	default:
		stop = -1
	}

	var out []int
	for (step > 0 && pos < stop) || (step < 0 && pos > stop) {
		out = append(out, pos)
		pos += step
	}
	return out
}
