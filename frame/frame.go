// Package frame provides a column-major table container addressed through
// the label indexes of package index: rows carry a single- or multi-level
// label axis, columns carry a single-level one, and the Loc/ILoc accessors
// translate label and positional selections into cell reads and writes.
//
// Only axis labels are constrained to the indexable scalar grammar. Data
// cells hold arbitrary values, including nil.
package frame

import (
	"fmt"
	"sort"
	"strings"

	"tabula/index"
	"tabula/scalar"
)

// DataFrame is an ordered collection of equally long columns. The row axis
// is authoritative for the row count; every column holds exactly one cell
// per row.
type DataFrame struct {
	cols    [][]any
	colAxis *index.Index
	rows    axis
}

// Options configures construction of a DataFrame.
type Options struct {
	// Index supplies the row labels as a single-level index. Its length
	// must match the row count. Mutually exclusive with Multi.
	Index *index.Index
	// Multi supplies the row labels as a multi-level index.
	Multi *index.MultiIndex
	// Columns overrides the column labels. One name per column.
	Columns []string
	// Cached builds position caches on the auto-built axes. Explicitly
	// supplied axes keep whatever caching they already have.
	Cached bool
}

// -------------------------------------------------------------------------
// Construction
// -------------------------------------------------------------------------

// FromRecords builds a frame from row-major records. Short rows are padded
// with nil cells to the widest row; the input is never aliased or mutated.
// Default column labels are 0..width-1, default row labels 0..rows-1.
func FromRecords(records [][]any, opts Options) (*DataFrame, error) {
	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}
	cols := make([][]any, width)
	for c := range cols {
		col := make([]any, len(records))
		for r, record := range records {
			if c < len(record) {
				col[r] = record[c]
			}
		}
		cols[c] = col
	}
	names := make([]any, width)
	for i := range names {
		names[i] = int64(i)
	}
	return assemble(cols, names, len(records), opts)
}

// FromColumns builds a frame from named columns. Short columns are padded
// with nil cells to the tallest column. Go maps carry no order, so columns
// are laid out by sorted name.
func FromColumns(columns map[string][]any, opts Options) (*DataFrame, error) {
	names := make([]string, 0, len(columns))
	height := 0
	for name, col := range columns {
		names = append(names, name)
		if len(col) > height {
			height = len(col)
		}
	}
	sort.Strings(names)

	cols := make([][]any, len(names))
	labels := make([]any, len(names))
	for i, name := range names {
		col := make([]any, height)
		copy(col, columns[name])
		cols[i] = col
		labels[i] = name
	}
	return assemble(cols, labels, height, opts)
}

// FromMaps builds a frame from one map per row. The column set is the
// union of all keys, laid out by sorted name; cells a record does not
// provide are nil.
func FromMaps(records []map[string]any, opts Options) (*DataFrame, error) {
	seen := make(map[string]struct{})
	var names []string
	for _, record := range records {
		for name := range record {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)

	cols := make([][]any, len(names))
	labels := make([]any, len(names))
	for i, name := range names {
		col := make([]any, len(records))
		for r, record := range records {
			if v, ok := record[name]; ok {
				col[r] = v
			}
		}
		cols[i] = col
		labels[i] = name
	}
	return assemble(cols, labels, len(records), opts)
}

// assemble attaches the axes to normalized column storage.
func assemble(cols [][]any, names []any, rowCount int, opts Options) (*DataFrame, error) {
	if opts.Index != nil && opts.Multi != nil {
		return nil, fmt.Errorf("row axis given twice: set Index or Multi, not both")
	}

	if opts.Columns != nil {
		if len(opts.Columns) != len(cols) {
			return nil, &ShapeError{What: "column names", Got: len(opts.Columns), Want: len(cols)}
		}
		names = make([]any, len(opts.Columns))
		for i, name := range opts.Columns {
			names[i] = name
		}
	}
	colAxis, err := index.New(names, index.Options{Cached: opts.Cached})
	if err != nil {
		return nil, err
	}

	var rows axis
	switch {
	case opts.Index != nil:
		if opts.Index.Len() != rowCount {
			return nil, &ShapeError{What: "row index", Got: opts.Index.Len(), Want: rowCount}
		}
		rows = singleAxis{ix: opts.Index}
	case opts.Multi != nil:
		if opts.Multi.Len() != rowCount {
			return nil, &ShapeError{What: "row index", Got: opts.Multi.Len(), Want: rowCount}
		}
		rows = multiAxis{mi: opts.Multi}
	default:
		labels := make([]any, rowCount)
		for i := range labels {
			labels[i] = int64(i)
		}
		ix, err := index.New(labels, index.Options{Cached: opts.Cached})
		if err != nil {
			return nil, err
		}
		rows = singleAxis{ix: ix}
	}

	return &DataFrame{cols: cols, colAxis: colAxis, rows: rows}, nil
}

// -------------------------------------------------------------------------
// Shape and axes
// -------------------------------------------------------------------------

// Rows returns the number of rows.
func (df *DataFrame) Rows() int { return df.rows.length() }

// Cols returns the number of columns.
func (df *DataFrame) Cols() int { return len(df.cols) }

// Shape returns rows and columns.
func (df *DataFrame) Shape() (int, int) { return df.Rows(), df.Cols() }

// Index returns the single-level row axis, nil when the rows carry a
// multi-level one.
func (df *DataFrame) Index() *index.Index {
	if a, ok := df.rows.(singleAxis); ok {
		return a.ix
	}
	return nil
}

// Multi returns the multi-level row axis, nil when the rows carry a
// single-level one.
func (df *DataFrame) Multi() *index.MultiIndex {
	if a, ok := df.rows.(multiAxis); ok {
		return a.mi
	}
	return nil
}

// Columns returns the column-label axis.
func (df *DataFrame) Columns() *index.Index { return df.colAxis }

// -------------------------------------------------------------------------
// Reads
// -------------------------------------------------------------------------

// Column returns a copy of the column holding label. With duplicate column
// labels the first match wins.
func (df *DataFrame) Column(label any) ([]any, error) {
	pos, err := df.colAxis.GetLoc(label)
	if err != nil {
		return nil, err
	}
	return append([]any(nil), df.cols[pos]...), nil
}

// ColumnAt returns a copy of the column at pos. Negative positions wrap
// from the end.
func (df *DataFrame) ColumnAt(pos int) ([]any, error) {
	positions, err := index.Resolve(index.Position(pos), df.Cols())
	if err != nil {
		return nil, err
	}
	return append([]any(nil), df.cols[positions[0]]...), nil
}

// Row returns a copy of the row at pos. Negative positions wrap from the
// end.
func (df *DataFrame) Row(pos int) ([]any, error) {
	positions, err := index.Resolve(index.Position(pos), df.Rows())
	if err != nil {
		return nil, err
	}
	return df.rowAt(positions[0]), nil
}

// rowAt copies row p. Bounds are the caller's responsibility.
func (df *DataFrame) rowAt(p int) []any {
	out := make([]any, len(df.cols))
	for c := range df.cols {
		out[c] = df.cols[c][p]
	}
	return out
}

// Head returns a new frame over the first n rows, all of them when n
// exceeds the row count.
func (df *DataFrame) Head(n int) (*DataFrame, error) {
	if n < 0 {
		n = 0
	}
	if rows := df.Rows(); n > rows {
		n = rows
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return df.take(positions)
}

// take builds a new frame over the given row positions, in that order.
// Positions must already be resolved. The result owns fresh storage and
// fresh axes; names and cached-ness carry over.
func (df *DataFrame) take(positions []int) (*DataFrame, error) {
	cols := make([][]any, len(df.cols))
	for c := range df.cols {
		col := make([]any, len(positions))
		for i, p := range positions {
			col[i] = df.cols[c][p]
		}
		cols[c] = col
	}
	rows, err := df.rows.subset(positions)
	if err != nil {
		return nil, err
	}
	colAxis, err := index.New(df.colAxis.ToList(), index.Options{Cached: df.colAxis.Cached()})
	if err != nil {
		return nil, err
	}
	return &DataFrame{cols: cols, colAxis: colAxis, rows: rows}, nil
}

// ToColumns materializes the cells column-major.
func (df *DataFrame) ToColumns() [][]any {
	out := make([][]any, len(df.cols))
	for c := range df.cols {
		out[c] = append([]any(nil), df.cols[c]...)
	}
	return out
}

// ToRows materializes the cells row-major, nil cells included.
func (df *DataFrame) ToRows() [][]any {
	rows := df.Rows()
	out := make([][]any, rows)
	for p := 0; p < rows; p++ {
		out[p] = df.rowAt(p)
	}
	return out
}

// -------------------------------------------------------------------------
// Mutation
// -------------------------------------------------------------------------

// AppendRow appends one row of cells under label. The label goes through
// the row axis first, so an invalid or mismatched label leaves the frame
// untouched.
func (df *DataFrame) AppendRow(row []any, label any) error {
	if len(row) != len(df.cols) {
		return &ShapeError{What: "row", Got: len(row), Want: len(df.cols)}
	}
	if err := df.rows.appendLabel(label); err != nil {
		return err
	}
	for c := range df.cols {
		df.cols[c] = append(df.cols[c], row[c])
	}
	return nil
}

// -------------------------------------------------------------------------
// Iteration and rendering
// -------------------------------------------------------------------------

// Iter returns a restartable iterator over (label, row) pairs in position
// order. The iterator reads the live frame; interleaving mutation is
// undefined.
func (df *DataFrame) Iter() *RowIter {
	return &RowIter{df: df}
}

// RowIter iterates a frame's rows front to back.
type RowIter struct {
	df  *DataFrame
	pos int
}

// Next returns the next label and row copy, reporting false once
// exhausted.
func (it *RowIter) Next() (any, []any, bool) {
	if it.pos >= it.df.Rows() {
		return nil, nil, false
	}
	label, _ := it.df.rows.labelAt(it.pos)
	row := it.df.rowAt(it.pos)
	it.pos++
	return label, row, true
}

// Reset rewinds the iterator to the first row.
func (it *RowIter) Reset() { it.pos = 0 }

// cellText renders a cell for display. Cells are not constrained to the
// scalar grammar, so nil gets its own rendering.
func cellText(v any) string {
	if v == nil {
		return "null"
	}
	return scalar.Format(v)
}

// String renders a fixed-width table of up to the first 50 rows: column
// labels across the top, row labels down the left.
func (df *DataFrame) String() string {
	rows := df.Rows()
	if rows > 50 {
		rows = 50
	}

	labels := make([]string, rows)
	labelWidth := 0
	for p := 0; p < rows; p++ {
		label, _ := df.rows.labelAt(p)
		labels[p] = scalar.Format(label)
		if len(labels[p]) > labelWidth {
			labelWidth = len(labels[p])
		}
	}

	headers := make([]string, len(df.cols))
	widths := make([]int, len(df.cols))
	for c := range df.cols {
		name, _ := df.colAxis.At(c)
		headers[c] = scalar.Format(name)
		widths[c] = len(headers[c])
		for p := 0; p < rows; p++ {
			if w := len(cellText(df.cols[c][p])); w > widths[c] {
				widths[c] = w
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", labelWidth, "")
	for c := range headers {
		fmt.Fprintf(&b, "  %-*s", widths[c], headers[c])
	}
	b.WriteByte('\n')
	for p := 0; p < rows; p++ {
		fmt.Fprintf(&b, "%-*s", labelWidth, labels[p])
		for c := range df.cols {
			fmt.Fprintf(&b, "  %-*s", widths[c], cellText(df.cols[c][p]))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n[%d rows x %d columns]", df.Rows(), df.Cols())
	return b.String()
}
