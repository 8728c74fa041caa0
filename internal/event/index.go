package event

import (
	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/extract"
)

// Index holds the cross-table associations of one extraction: event id to
// event-table rows, telescope id to configuration row, event id to truth
// row. Maps are built once so repeated renderer queries are O(1) instead of
// a scan per query.
type Index struct {
	x *extract.Extraction

	eventRows map[int64][]int
	configRow map[int64]int
	truthRow  map[int64]int
}

// NewIndex builds the association maps for an extraction.
func NewIndex(x *extract.Extraction) *Index {
	ix := &Index{
		x:         x,
		eventRows: make(map[int64][]int),
		configRow: make(map[int64]int),
		truthRow:  make(map[int64]int),
	}

	if ids, ok := x.Events.Scalars(api.FieldEventID); ok {
		for row, v := range ids {
			id := int64(v)
			ix.eventRows[id] = append(ix.eventRows[id], row)
		}
	}

	// First matching configuration row wins when a telescope id repeats.
	if tels, ok := x.Geometry.Scalars(api.FieldTelID); ok {
		for row, v := range tels {
			tel := int64(v)
			if _, seen := ix.configRow[tel]; !seen {
				ix.configRow[tel] = row
			}
		}
	}

	// Later truth rows override earlier ones on id collision. Last-wins is
	// the upstream convention; keep it even though at most one row per id
	// is expected.
	if ids, ok := x.Truth.Scalars(api.FieldEventID); ok {
		for row, v := range ids {
			ix.truthRow[int64(v)] = row
		}
	}

	return ix
}

// EventRows returns the ordered event-table rows sharing an event id. The
// multiplicity is the number of triggered telescopes for that event.
func (ix *Index) EventRows(id int64) []int { return ix.eventRows[id] }

// ConfigRow returns the configuration row for a telescope id.
func (ix *Index) ConfigRow(tel int64) (int, bool) {
	row, ok := ix.configRow[tel]
	return row, ok
}

// TruthRow returns the truth row for an event id.
func (ix *Index) TruthRow(id int64) (int, bool) {
	row, ok := ix.truthRow[id]
	return row, ok
}

// Slice is one event's view across tables.
type Slice struct {
	EventID int64
	// Rows are the event-table rows for this event, in table order.
	Rows []int
	// TelIDs holds the telescope id of each row.
	TelIDs []int64
	// ConfigRows holds the matching geometry row per telescope, -1 when the
	// configuration table has no row for that id.
	ConfigRows []int
	// Rep is the representative event row for event-level scalars
	// (pointing): the last matching row, per the upstream convention.
	Rep int
	// TruthRow is the matching truth row, absent when truth is unavailable.
	TruthRow Maybe[int]
}

// Slice assembles the per-event view for one event id. ok is false when the
// event table holds no row for the id.
func (ix *Index) Slice(id int64) (*Slice, bool) {
	rows := ix.eventRows[id]
	if len(rows) == 0 {
		return nil, false
	}
	s := &Slice{
		EventID:    id,
		Rows:       rows,
		TelIDs:     make([]int64, len(rows)),
		ConfigRows: make([]int, len(rows)),
		Rep:        rows[len(rows)-1],
	}
	tels, _ := ix.x.Events.Scalars(api.FieldTelID)
	for i, row := range rows {
		tel := int64(-1)
		if row < len(tels) {
			tel = int64(tels[row])
		}
		s.TelIDs[i] = tel
		if cfg, ok := ix.configRow[tel]; ok {
			s.ConfigRows[i] = cfg
		} else {
			s.ConfigRows[i] = -1
		}
	}
	if row, ok := ix.truthRow[id]; ok {
		s.TruthRow = Some(row)
	}
	return s, true
}
