package bridge

import (
	"database/sql"
	"fmt"
)

// Frame is a materialized, analysis-ready table: the result of joining two
// persisted tables on a shared identifier.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// Len returns the row count.
func (f *Frame) Len() int { return len(f.Rows) }

// Column returns all cells of one named column.
func (f *Frame) Column(name string) ([]any, bool) {
	for i, c := range f.Columns {
		if c != name {
			continue
		}
		out := make([]any, len(f.Rows))
		for j, row := range f.Rows {
			out[j] = row[i]
		}
		return out, true
	}
	return nil, false
}

func readFrame(rows *sql.Rows) (*Frame, error) {
	defer func() { _ = rows.Close() }() // safe to ignore

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("frame columns: %w", err)
	}
	f := &Frame{Columns: cols}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("frame scan: %w", err)
		}
		f.Rows = append(f.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("frame iterate: %w", err)
	}
	return f, nil
}
