package store

import "errors"

// ErrNotFound reports that a table or column entry does not exist in the
// store. Callers treat it as "not loaded", never as a hard failure.
var ErrNotFound = errors.New("store: entry not found")

// Store is the read boundary over a hierarchical, path-keyed container of
// named arrays. Entries are slash-separated paths, optionally suffixed with
// a ";cycle" version marker. Implementations never write to the store.
type Store interface {
	// Keys returns every entry name in the store, cycle suffixes included.
	Keys() []string
	// SubKeys returns the nested entry names within one table.
	SubKeys(table string) ([]string, error)
	// ReadColumn reads one column of a table into a flat in-memory sequence.
	ReadColumn(table, entry string) (*Column, error)
	Close() error
}

// Column is a flat ordered sequence of cells, one per row. Scalar-valued
// columns fill Scalars; array-valued (possibly ragged) columns fill Ragged.
// Exactly one of the two is set.
type Column struct {
	Scalars []float64
	Ragged  [][]float64
}

// Len returns the row count of the column.
func (c *Column) Len() int {
	if c == nil {
		return 0
	}
	if c.Ragged != nil {
		return len(c.Ragged)
	}
	return len(c.Scalars)
}

// IsRagged reports whether the column holds array-valued cells.
func (c *Column) IsRagged() bool { return c != nil && c.Ragged != nil }

// Cell returns the i-th cell as a sequence. Scalar cells come back as a
// one-element slice.
func (c *Column) Cell(i int) []float64 {
	if c.Ragged != nil {
		return c.Ragged[i]
	}
	return []float64{c.Scalars[i]}
}
