package sqlload

import (
	"database/sql"
	"fmt"

	"tabula/frame"
)

// FromRows drains a database/sql result set into a frame. The rows are
// fully consumed but not closed; closing stays with the caller.
func FromRows(rows *sql.Rows, opts Options) (*frame.DataFrame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read column names: %w", err)
	}

	var records [][]any
	for rows.Next() {
		cells := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records), err)
		}
		records = append(records, mapRecord(cells))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("drain rows: %w", err)
	}

	return build(names, records, opts)
}
