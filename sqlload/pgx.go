package sqlload

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"tabula/frame"
)

// FromPGX drains a pgx result set into a frame. The rows are fully
// consumed but not closed; closing stays with the caller.
func FromPGX(rows pgx.Rows, opts Options) (*frame.DataFrame, error) {
	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name
	}

	var records [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(records), err)
		}
		cells := make([]any, len(values))
		copy(cells, values)
		records = append(records, mapRecord(cells))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("drain rows: %w", err)
	}

	return build(names, records, opts)
}
