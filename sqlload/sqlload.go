// Package sqlload builds DataFrames from SQL query results, optionally
// promoting result columns to the row index. Two entry points cover the
// two client stacks: FromRows for database/sql and FromPGX for pgx.
//
// Scanned values are mapped into the indexable scalar grammar: integer
// widths widen to int64, float32 widens to float64, byte slices become
// strings. NULLs stay nil, which is fine for data cells but rejected as
// soon as one is promoted to an index label.
package sqlload

import (
	"fmt"

	"tabula/frame"
	"tabula/index"
)

// Options configures how a result set becomes a frame.
type Options struct {
	// IndexColumns names the result columns promoted to the row index,
	// in level order. One column builds a single-level index, several
	// build a MultiIndex named after them. Promoted columns leave the
	// frame's data columns. Empty keeps the default positional labels.
	IndexColumns []string
	// Cached builds position caches on the created axes.
	Cached bool
	// Metrics instruments lookups on the created row index. Nil disables
	// instrumentation. Ignored when no columns are promoted.
	Metrics *index.Metrics
}

// build assembles a frame from column names and scanned records.
func build(names []string, records [][]any, opts Options) (*frame.DataFrame, error) {
	if len(opts.IndexColumns) == 0 {
		return frame.FromRecords(records, frame.Options{Columns: names, Cached: opts.Cached})
	}

	promoted := make([]int, len(opts.IndexColumns))
	used := make(map[int]bool, len(opts.IndexColumns))
	for i, name := range opts.IndexColumns {
		pos := indexOf(names, name)
		if pos < 0 {
			return nil, fmt.Errorf("index column %q is not in the result set", name)
		}
		if used[pos] {
			return nil, fmt.Errorf("index column %q given twice", name)
		}
		used[pos] = true
		promoted[i] = pos
	}

	var dataNames []string
	for pos, name := range names {
		if !used[pos] {
			dataNames = append(dataNames, name)
		}
	}
	dataRecords := make([][]any, len(records))
	levels := make([][]any, len(promoted))
	for level := range levels {
		levels[level] = make([]any, len(records))
	}
	for r, record := range records {
		row := make([]any, 0, len(dataNames))
		for pos, cell := range record {
			if !used[pos] {
				row = append(row, cell)
			}
		}
		dataRecords[r] = row
		for level, pos := range promoted {
			levels[level][r] = record[pos]
		}
	}

	if len(promoted) == 1 {
		ix, err := index.New(levels[0], index.Options{Cached: opts.Cached, Metrics: opts.Metrics})
		if err != nil {
			return nil, fmt.Errorf("index column %q: %w", opts.IndexColumns[0], err)
		}
		return frame.FromRecords(dataRecords, frame.Options{Columns: dataNames, Index: ix, Cached: opts.Cached})
	}
	mi, err := index.NewMulti(levels, index.MultiOptions{Names: opts.IndexColumns, Cached: opts.Cached, Metrics: opts.Metrics})
	if err != nil {
		return nil, fmt.Errorf("index columns %v: %w", opts.IndexColumns, err)
	}
	return frame.FromRecords(dataRecords, frame.Options{Columns: dataNames, Multi: mi, Cached: opts.Cached})
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// mapValue normalizes a scanned value toward the scalar grammar. Values
// outside it pass through unchanged and stay usable as data cells.
func mapValue(v any) any {
	switch val := v.(type) {
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	default:
		return v
	}
}

func mapRecord(record []any) []any {
	for i, v := range record {
		record[i] = mapValue(v)
	}
	return record
}
