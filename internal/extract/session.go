package extract

import (
	"log"

	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/store"
)

// Extraction is the read-only view over one opened store: the four logical
// tables the renderer and reporters consume. Any table may be nil when the
// upstream pipeline did not produce it. The view is valid until the store
// is reopened.
type Extraction struct {
	Schema   *api.Schema
	Events   *Table
	Geometry *Table
	Array    *Table
	Truth    *Table
}

// Load opens a ROOT store at path and extracts its tables. A store-open
// failure is fatal to the session: it is logged here and the returned
// extraction has every table unset, so downstream target resolution fails
// cleanly instead of the error surfacing to the caller.
func Load(path string, schema *api.Schema) *Extraction {
	st, err := store.OpenRoot(path)
	if err != nil {
		log.Printf("lastvis: load store %s: %v", path, err)
		return &Extraction{Schema: schema}
	}
	defer func() { _ = st.Close() }() // safe to ignore
	return FromStore(st, schema)
}

// FromStore extracts the logical tables from an already-open store.
func FromStore(st store.Store, schema *api.Schema) *Extraction {
	l := NewLoader(st)
	x := &Extraction{Schema: schema}

	x.Events = l.Load(schema.Events,
		api.FieldEventID, api.FieldTelID, api.FieldSignal,
		api.FieldTelAz, api.FieldTelAlt)

	x.Geometry = l.Load(schema.Geometry,
		api.FieldTelID, api.FieldNumPixels, api.FieldPixX, api.FieldPixY,
		api.FieldPixSize, api.FieldPixShape, api.FieldFocalLength)
	// Row count must come from a per-telescope column: flat pixel columns
	// are total-pixel length before normalization.
	if ids, ok := x.Geometry.Scalars(api.FieldTelID); ok {
		x.Geometry.normalize(api.FieldPixX, len(ids))
		x.Geometry.normalize(api.FieldPixY, len(ids))
	}

	x.Array = l.Load(schema.Array, api.FieldEventID, api.FieldEnergy)

	// Truth consumers index every field directly, so the sub-table is
	// all-or-nothing: any failure disables truth-dependent rendering.
	x.Truth = l.LoadStrict(schema.Truth,
		api.FieldEventID, api.FieldEnergy, api.FieldCoreX, api.FieldCoreY,
		api.FieldAltitude, api.FieldAzimuth, api.FieldXMax,
		api.FieldHFirstInt, api.FieldPointAz, api.FieldPointAlt)

	return x
}

// HasTruth reports whether shower truth is available for this extraction.
func (x *Extraction) HasTruth() bool { return x.Truth.Loaded() }
