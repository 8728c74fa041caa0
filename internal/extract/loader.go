package extract

import (
	"log"

	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/store"
)

// Table holds the loaded columns of one logical table, keyed by logical
// field name. A nil Table means the table was not loaded — a normal state,
// not an error.
type Table struct {
	Path string
	cols map[string]*store.Column
}

// Loaded reports whether the table was found and read.
func (t *Table) Loaded() bool { return t != nil }

// Column returns the loaded column for a logical field.
func (t *Table) Column(field string) (*store.Column, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.cols[field]
	return c, ok
}

// Scalars returns a scalar-valued column as a flat sequence.
func (t *Table) Scalars(field string) ([]float64, bool) {
	c, ok := t.Column(field)
	if !ok || c.IsRagged() {
		return nil, false
	}
	return c.Scalars, true
}

// Ragged returns an array-valued column, one sequence per row.
func (t *Table) Ragged(field string) ([][]float64, bool) {
	c, ok := t.Column(field)
	if !ok || !c.IsRagged() {
		return nil, false
	}
	return c.Ragged, true
}

// Rows returns the table row count. Columns within one table are aligned,
// so any loaded column is authoritative.
func (t *Table) Rows() int {
	if t == nil {
		return 0
	}
	for _, c := range t.cols {
		return c.Len()
	}
	return 0
}

// normalize reshapes a field stored as a uniform fixed-width flat sequence
// into one sequence per row, so later geometry indexing can address rows
// directly. Already-ragged columns pass through.
func (t *Table) normalize(field string, rows int) {
	c, ok := t.Column(field)
	if !ok || c.IsRagged() || rows <= 0 {
		return
	}
	if len(c.Scalars)%rows != 0 {
		return
	}
	width := len(c.Scalars) / rows
	ragged := make([][]float64, rows)
	for i := range ragged {
		ragged[i] = c.Scalars[i*width : (i+1)*width]
	}
	t.cols[field] = &store.Column{Ragged: ragged}
}

// Loader pulls named columns of logical tables into memory.
type Loader struct {
	st  store.Store
	res *store.Resolver
}

// NewLoader indexes the store's entries and returns a loader over them.
func NewLoader(st store.Store) *Loader {
	return &Loader{st: st, res: store.NewResolver(st.Keys())}
}

// Resolver exposes the deduplicated table paths of the underlying store.
func (l *Loader) Resolver() *store.Resolver { return l.res }

// Load reads the wanted fields of one table. A missing table yields nil; a
// missing column is skipped and the rest of the table still loads. A read
// error on any column logs and disables the whole table, so dependent
// features degrade instead of aborting the extraction.
func (l *Loader) Load(spec api.TableSpec, fields ...string) *Table {
	return l.load(spec, false, fields)
}

// LoadStrict behaves like Load but also treats a missing column as
// disabling: tables whose consumers index every field directly (the truth
// sub-table) are all-or-nothing.
func (l *Loader) LoadStrict(spec api.TableSpec, fields ...string) *Table {
	return l.load(spec, true, fields)
}

func (l *Loader) load(spec api.TableSpec, strict bool, fields []string) *Table {
	path, ok := store.ResolveName(l.res.Tables(), spec.Path)
	if !ok {
		return nil
	}
	entries, err := l.st.SubKeys(path)
	if err != nil {
		log.Printf("lastvis: list columns of %s: %v", path, err)
		return nil
	}

	t := &Table{Path: path, cols: make(map[string]*store.Column, len(fields))}
	for _, field := range fields {
		entry, ok := store.ResolveName(entries, spec.Column(field))
		if !ok {
			if strict {
				log.Printf("lastvis: table %s misses column %s, disabling", path, spec.Column(field))
				return nil
			}
			continue
		}
		col, err := l.st.ReadColumn(path, entry)
		if err != nil {
			log.Printf("lastvis: read %s/%s: %v, disabling table", path, entry, err)
			return nil
		}
		t.cols[field] = col
	}
	return t
}
