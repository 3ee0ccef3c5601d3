package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/assertly"

	"tabula/index"
	"tabula/scalar"
)

// sampleFrame builds five rows labeled a, b, a, c, b with a cached index.
func sampleFrame(t *testing.T) *DataFrame {
	t.Helper()
	ix, err := index.New([]any{"a", "b", "a", "c", "b"}, index.Options{Cached: true})
	if err != nil {
		t.Fatal(err)
	}
	df, err := FromRecords([][]any{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, "four"},
		{5, "five"},
	}, Options{Index: ix, Columns: []string{"n", "word"}})
	if err != nil {
		t.Fatal(err)
	}
	return df
}

func TestLoc_Rows(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.Loc().Rows("a")
	if !assert.Nil(t, err) {
		return
	}
	assertly.AssertValues(t, [][]any{{1, "one"}, {3, "three"}}, out.ToRows(), "rows by label")
	assertly.AssertValues(t, []any{"a", "a"}, out.Index().ToList(), "selected labels")
	assert.True(t, out.Index().Cached(), "cached-ness carries into the selection")

	assert.Nil(t, out.ILoc().SetCell(0, 0, 99))
	row, _ := df.Row(0)
	assert.EqualValues(t, 1, row[0], "selection owns its storage")

	var notFound *index.NotFoundError
	_, err = df.Loc().Rows("zzz")
	assert.True(t, errors.As(err, &notFound), "absent label")
}

func TestLoc_RowsOf(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.Loc().RowsOf([]any{"b", "c"})
	if !assert.Nil(t, err) {
		return
	}
	assertly.AssertValues(t, []any{"b", "b", "c"}, out.Index().ToList(), "grouped in label order")
	assertly.AssertValues(t, [][]any{{2, "two"}, {5, "five"}, {4, "four"}}, out.ToRows(), "rows grouped by label")

	var notFound *index.NotFoundError
	_, err = df.Loc().RowsOf([]any{"b", "zzz"})
	assert.True(t, errors.As(err, &notFound), "one absent label fails the whole selection")
}

func TestLoc_Mask(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.Loc().Mask([]bool{true, false, false, false, true})
	if !assert.Nil(t, err) {
		return
	}
	assertly.AssertValues(t, [][]any{{1, "one"}, {5, "five"}}, out.ToRows(), "mask selection")

	var oob *index.OutOfBoundsError
	_, err = df.Loc().Mask([]bool{true, false})
	assert.True(t, errors.As(err, &oob), "short mask")
}

func TestLoc_Slice(t *testing.T) {
	df := sampleFrame(t)

	testCases := []struct {
		description string
		start, stop any
		step        int
		labels      interface{}
	}{
		{
			description: "both endpoint labels included",
			start:       "b", stop: "c",
			labels: []any{"b", "a", "c"},
		},
		{
			description: "stop resolves to its last occurrence",
			start:       "a", stop: "b",
			labels: []any{"a", "b", "a", "c", "b"},
		},
		{
			description: "unordered bounds swap and stay closed",
			start:       "c", stop: "a",
			labels: []any{"a", "c"},
		},
		{
			description: "open start",
			stop:        "b",
			labels:      []any{"a", "b", "a", "c", "b"},
		},
		{
			description: "open stop",
			start:       "c",
			labels:      []any{"c", "b"},
		},
		{
			description: "stepped",
			start:       "a", stop: "c", step: 2,
			labels: []any{"a", "a"},
		},
	}

	for _, testCase := range testCases {
		out, err := df.Loc().Slice(testCase.start, testCase.stop, testCase.step)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assertly.AssertValues(t, testCase.labels, out.Index().ToList(), testCase.description)
	}

	var notFound *index.NotFoundError
	_, err := df.Loc().Slice("zzz", nil, 0)
	assert.True(t, errors.As(err, &notFound), "absent start label")
}

func TestLoc_CellAndWrites(t *testing.T) {
	df := sampleFrame(t)

	cell, err := df.Loc().Cell("b", "word")
	assert.Nil(t, err)
	assert.EqualValues(t, "two", cell, "cell at the first matching row")

	assert.Nil(t, df.Loc().SetCell("a", "n", 99))
	assertly.AssertValues(t, [][]any{
		{99, "one"},
		{2, "two"},
		{99, "three"},
		{4, "four"},
		{5, "five"},
	}, df.ToRows(), "cell write hits every matching row")

	assert.Nil(t, df.Loc().SetRow("b", []any{0, "zap"}))
	assertly.AssertValues(t, [][]any{
		{99, "one"},
		{0, "zap"},
		{99, "three"},
		{4, "four"},
		{0, "zap"},
	}, df.ToRows(), "row write hits every matching row")

	var shape *ShapeError
	err = df.Loc().SetRow("a", []any{1})
	assert.True(t, errors.As(err, &shape), "short row")

	var notFound *index.NotFoundError
	err = df.Loc().SetRow("zzz", []any{1, "x"})
	assert.True(t, errors.As(err, &notFound), "absent label write")
	err = df.Loc().SetCell("a", "missing", 1)
	assert.True(t, errors.As(err, &notFound), "absent column write")
}

func TestILoc_Reads(t *testing.T) {
	df := sampleFrame(t)

	out, err := df.ILoc().Rows(index.Span(3, 1))
	if !assert.Nil(t, err) {
		return
	}
	assertly.AssertValues(t, []any{"b", "a", "c"}, out.Index().ToList(), "closed range selection")

	out, err = df.ILoc().Rows(index.Positions{-1, 0})
	assert.Nil(t, err)
	assertly.AssertValues(t, [][]any{{5, "five"}, {1, "one"}}, out.ToRows(), "wrapped position list")

	row, err := df.ILoc().Row(-2)
	assert.Nil(t, err)
	assertly.AssertValues(t, []any{4, "four"}, row, "wrapped single row")

	cell, err := df.ILoc().Cell(1, -1)
	assert.Nil(t, err)
	assert.EqualValues(t, "two", cell, "wrapped column position")

	var oob *index.OutOfBoundsError
	_, err = df.ILoc().Cell(9, 0)
	assert.True(t, errors.As(err, &oob), "row position out of bounds")
}

func TestILoc_Writes(t *testing.T) {
	df := sampleFrame(t)

	assert.Nil(t, df.ILoc().SetRows(index.Span(0, 1), []any{0, "zap"}))
	assertly.AssertValues(t, [][]any{
		{0, "zap"},
		{0, "zap"},
		{3, "three"},
		{4, "four"},
		{5, "five"},
	}, df.ToRows(), "closed range write covers both endpoints")

	assert.Nil(t, df.ILoc().SetCell(-1, 0, 50))
	row, _ := df.Row(4)
	assert.EqualValues(t, 50, row[0], "wrapped cell write")

	var shape *ShapeError
	err := df.ILoc().SetRows(index.Position(0), []any{1})
	assert.True(t, errors.As(err, &shape), "short row")

	var oob *index.OutOfBoundsError
	err = df.ILoc().SetCell(9, 0, 1)
	assert.True(t, errors.As(err, &oob), "write out of bounds")
}

func TestLoc_MultiAxis(t *testing.T) {
	mi, err := index.NewMulti(
		[][]any{{"x", "x", "y"}, {1, 2, 1}},
		index.MultiOptions{Names: []string{"g", "n"}, Cached: true},
	)
	if !assert.Nil(t, err) {
		return
	}
	df, err := FromRecords([][]any{{"r0"}, {"r1"}, {"r2"}}, Options{Multi: mi, Columns: []string{"v"}})
	if !assert.Nil(t, err) {
		return
	}

	out, err := df.Loc().Rows(scalar.Tuple{"x", 2})
	if !assert.Nil(t, err) {
		return
	}
	assertly.AssertValues(t, [][]any{{"r1"}}, out.ToRows(), "tuple label selection")
	assertly.AssertValues(t, []string{"g", "n"}, out.Multi().Names(), "level names carry into the selection")
	assert.True(t, out.Multi().Cached(), "cached-ness carries into the selection")

	// A bare label against a two-level axis is a one-component row.
	var mismatch *index.LevelMismatchError
	_, err = df.Loc().Rows("x")
	assert.True(t, errors.As(err, &mismatch), "bare label arity")

	empty, err := df.Loc().Mask([]bool{false, false, false})
	assert.Nil(t, err)
	assert.EqualValues(t, 0, empty.Rows())
	assert.EqualValues(t, 2, empty.Multi().Levels(), "empty selection keeps the level count")

	assert.Nil(t, df.AppendRow([]any{"r3"}, scalar.Tuple{"y", 2}))
	locs, err := df.Multi().GetLocs(scalar.Tuple{"y", 2})
	assert.Nil(t, err)
	assertly.AssertValues(t, []int{3}, locs, "appended tuple label is addressable")
}
