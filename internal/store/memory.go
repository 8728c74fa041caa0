package store

import "fmt"

// MemStore is an in-memory Store used by tests and synthetic fixtures.
type MemStore struct {
	keys   []string
	tables map[string]*memTable
}

type memTable struct {
	entries []string
	columns map[string]*Column
	broken  map[string]error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

// AddTable registers a table under a raw (possibly cycled) entry name.
func (m *MemStore) AddTable(rawKey string) {
	m.keys = append(m.keys, rawKey)
	path := LogicalPath(rawKey)
	if _, ok := m.tables[path]; !ok {
		m.tables[path] = &memTable{columns: make(map[string]*Column)}
	}
}

// SetColumn attaches a column to a table, creating the table when absent.
func (m *MemStore) SetColumn(table, entry string, col *Column) {
	t, ok := m.tables[table]
	if !ok {
		m.AddTable(table + ";1")
		t = m.tables[table]
	}
	if _, exists := t.columns[entry]; !exists {
		t.entries = append(t.entries, entry)
	}
	t.columns[entry] = col
}

// BreakColumn makes reads of one column fail with err. Used to exercise the
// soft-disable path for corrupt sub-tables.
func (m *MemStore) BreakColumn(table, entry string, err error) {
	t, ok := m.tables[table]
	if !ok {
		m.AddTable(table + ";1")
		t = m.tables[table]
	}
	if t.broken == nil {
		t.broken = make(map[string]error)
	}
	if _, exists := t.columns[entry]; !exists {
		t.entries = append(t.entries, entry)
	}
	t.broken[entry] = err
}

// Keys implements Store.
func (m *MemStore) Keys() []string { return m.keys }

// SubKeys implements Store.
func (m *MemStore) SubKeys(table string) ([]string, error) {
	t, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", table, ErrNotFound)
	}
	return t.entries, nil
}

// ReadColumn implements Store.
func (m *MemStore) ReadColumn(table, entry string) (*Column, error) {
	t, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", table, ErrNotFound)
	}
	if err, bad := t.broken[entry]; bad {
		return nil, fmt.Errorf("read column %s/%s: %w", table, entry, err)
	}
	col, ok := t.columns[entry]
	if !ok {
		return nil, fmt.Errorf("column %s/%s: %w", table, entry, ErrNotFound)
	}
	return col, nil
}

// Close implements Store.
func (m *MemStore) Close() error { return nil }
