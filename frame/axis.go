package frame

import (
	"tabula/index"
	"tabula/scalar"
)

// axis is the row-label surface shared by single- and multi-level
// indexes. Labels arrive as any; the multi-level implementation treats a
// non-tuple label as a one-component row so arity errors surface with
// exact counts.
type axis interface {
	length() int
	// locate returns every position holding label, (nil, nil) when the
	// label is valid but absent.
	locate(label any) ([]int, error)
	// locations is locate with absence reported as NotFound.
	locations(label any) ([]int, error)
	// first returns the first position holding label.
	first(label any) (int, error)
	labelAt(pos int) (any, error)
	appendLabel(label any) error
	// subset builds a fresh axis over the labels at positions, keeping
	// names and cached-ness.
	subset(positions []int) (axis, error)
}

// -------------------------------------------------------------------------
// Single-level axis
// -------------------------------------------------------------------------

type singleAxis struct {
	ix *index.Index
}

func (a singleAxis) length() int { return a.ix.Len() }

func (a singleAxis) locate(label any) ([]int, error) { return a.ix.Locate(label) }

func (a singleAxis) locations(label any) ([]int, error) { return a.ix.GetLocs(label) }

func (a singleAxis) first(label any) (int, error) { return a.ix.GetLoc(label) }

func (a singleAxis) labelAt(pos int) (any, error) { return a.ix.At(pos) }

func (a singleAxis) appendLabel(label any) error { return a.ix.Append(label) }

func (a singleAxis) subset(positions []int) (axis, error) {
	values := make([]any, len(positions))
	for i, pos := range positions {
		v, err := a.ix.At(pos)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	ix, err := index.New(values, index.Options{Cached: a.ix.Cached()})
	if err != nil {
		return nil, err
	}
	return singleAxis{ix: ix}, nil
}

// -------------------------------------------------------------------------
// Multi-level axis
// -------------------------------------------------------------------------

type multiAxis struct {
	mi *index.MultiIndex
}

// asRow lifts a bare label into a one-component row; tuple labels pass
// through. Arity checking stays with the index.
func (a multiAxis) asRow(label any) scalar.Tuple {
	if row, ok := label.(scalar.Tuple); ok {
		return row
	}
	return scalar.Tuple{label}
}

func (a multiAxis) length() int { return a.mi.Len() }

func (a multiAxis) locate(label any) ([]int, error) {
	return a.mi.Locate(a.asRow(label))
}

func (a multiAxis) locations(label any) ([]int, error) {
	return a.mi.GetLocs(a.asRow(label))
}

func (a multiAxis) first(label any) (int, error) {
	return a.mi.GetLoc(a.asRow(label))
}

func (a multiAxis) labelAt(pos int) (any, error) {
	row, err := a.mi.RowAt(pos)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (a multiAxis) appendLabel(label any) error {
	return a.mi.AppendRow(a.asRow(label))
}

func (a multiAxis) subset(positions []int) (axis, error) {
	opts := index.MultiOptions{Names: a.mi.Names(), Cached: a.mi.Cached()}
	if len(positions) == 0 {
		columns := make([][]any, a.mi.Levels())
		for level := range columns {
			columns[level] = []any{}
		}
		mi, err := index.NewMulti(columns, opts)
		if err != nil {
			return nil, err
		}
		return multiAxis{mi: mi}, nil
	}
	rows := make([]scalar.Tuple, len(positions))
	for i, pos := range positions {
		row, err := a.mi.RowAt(pos)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	mi, err := index.FromTuples(rows, opts)
	if err != nil {
		return nil, err
	}
	return multiAxis{mi: mi}, nil
}
