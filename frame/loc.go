package frame

import (
	"tabula/index"
)

// Loc is the label-based accessor: rows are addressed by their axis
// labels, resolved to positions through the row index before any cell is
// touched. Selections return new frames; writes hit every row holding the
// label.
type Loc struct {
	df *DataFrame
}

// Loc returns the label-based accessor.
func (df *DataFrame) Loc() Loc { return Loc{df: df} }

// Rows returns a new frame over every row holding label, in position
// order. An absent label fails with NotFound.
func (l Loc) Rows(label any) (*DataFrame, error) {
	positions, err := l.df.rows.locations(label)
	if err != nil {
		return nil, err
	}
	return l.df.take(positions)
}

// RowsOf returns a new frame over the rows holding any of labels, grouped
// in label order. Every label must be present.
func (l Loc) RowsOf(labels []any) (*DataFrame, error) {
	var positions []int
	for _, label := range labels {
		found, err := l.df.rows.locations(label)
		if err != nil {
			return nil, err
		}
		positions = append(positions, found...)
	}
	return l.df.take(positions)
}

// Mask returns a new frame over the rows whose mask entry is true. The
// mask must be exactly as long as the frame.
func (l Loc) Mask(mask []bool) (*DataFrame, error) {
	positions, err := index.Resolve(index.Mask(mask), l.df.Rows())
	if err != nil {
		return nil, err
	}
	return l.df.take(positions)
}

// Slice returns a new frame over the label range from start to stop. A
// start label resolves to its first position, a stop label to its last,
// and the resulting position range follows the closed-interval slice
// semantics, so both endpoint labels are included. Nil leaves a bound
// open; step 0 means 1.
func (l Loc) Slice(start, stop any, step int) (*DataFrame, error) {
	r := index.Range{Step: step}
	if start != nil {
		pos, err := l.df.rows.first(start)
		if err != nil {
			return nil, err
		}
		r.Start = index.Bound(pos)
	}
	if stop != nil {
		positions, err := l.df.rows.locations(stop)
		if err != nil {
			return nil, err
		}
		r.Stop = index.Bound(positions[len(positions)-1])
	}
	positions, err := index.Resolve(r, l.df.Rows())
	if err != nil {
		return nil, err
	}
	return l.df.take(positions)
}

// Cell returns the cell at the first row holding label, in the column
// holding column.
func (l Loc) Cell(label, column any) (any, error) {
	pos, err := l.df.rows.first(label)
	if err != nil {
		return nil, err
	}
	col, err := l.df.colAxis.GetLoc(column)
	if err != nil {
		return nil, err
	}
	return l.df.cols[col][pos], nil
}

// SetRow writes row to every row holding label.
func (l Loc) SetRow(label any, row []any) error {
	if len(row) != l.df.Cols() {
		return &ShapeError{What: "row", Got: len(row), Want: l.df.Cols()}
	}
	positions, err := l.df.rows.locations(label)
	if err != nil {
		return err
	}
	for _, pos := range positions {
		for c := range l.df.cols {
			l.df.cols[c][pos] = row[c]
		}
	}
	return nil
}

// SetCell writes value into the column holding column, at every row
// holding label.
func (l Loc) SetCell(label, column, value any) error {
	positions, err := l.df.rows.locations(label)
	if err != nil {
		return err
	}
	col, err := l.df.colAxis.GetLoc(column)
	if err != nil {
		return err
	}
	for _, pos := range positions {
		l.df.cols[col][pos] = value
	}
	return nil
}

// -------------------------------------------------------------------------
// Positional accessor
// -------------------------------------------------------------------------

// ILoc is the position-based accessor: rows are addressed by position
// through the selector shapes, with ranges following the closed-interval
// slice semantics.
type ILoc struct {
	df *DataFrame
}

// ILoc returns the position-based accessor.
func (df *DataFrame) ILoc() ILoc { return ILoc{df: df} }

// Row returns a copy of the row at pos. Negative positions wrap from the
// end.
func (l ILoc) Row(pos int) ([]any, error) {
	return l.df.Row(pos)
}

// Rows returns a new frame over the rows sel selects, in selection order.
func (l ILoc) Rows(sel index.Selector) (*DataFrame, error) {
	positions, err := index.Resolve(sel, l.df.Rows())
	if err != nil {
		return nil, err
	}
	return l.df.take(positions)
}

// Cell returns the cell at row position pos and column position col, both
// negative-wrapped.
func (l ILoc) Cell(pos, col int) (any, error) {
	rowPos, err := index.Resolve(index.Position(pos), l.df.Rows())
	if err != nil {
		return nil, err
	}
	colPos, err := index.Resolve(index.Position(col), l.df.Cols())
	if err != nil {
		return nil, err
	}
	return l.df.cols[colPos[0]][rowPos[0]], nil
}

// SetRow writes row at position pos.
func (l ILoc) SetRow(pos int, row []any) error {
	return l.SetRows(index.Position(pos), row)
}

// SetRows writes the same row to every position sel selects.
func (l ILoc) SetRows(sel index.Selector, row []any) error {
	if len(row) != l.df.Cols() {
		return &ShapeError{What: "row", Got: len(row), Want: l.df.Cols()}
	}
	positions, err := index.Resolve(sel, l.df.Rows())
	if err != nil {
		return err
	}
	for _, pos := range positions {
		for c := range l.df.cols {
			l.df.cols[c][pos] = row[c]
		}
	}
	return nil
}

// SetCell writes value at row position pos and column position col.
func (l ILoc) SetCell(pos, col int, value any) error {
	rowPos, err := index.Resolve(index.Position(pos), l.df.Rows())
	if err != nil {
		return err
	}
	colPos, err := index.Resolve(index.Position(col), l.df.Cols())
	if err != nil {
		return err
	}
	l.df.cols[colPos[0]][rowPos[0]] = value
	return nil
}
