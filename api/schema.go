package api

// Schema describes the logical tables of a simulation store and the stored
// column name behind each logical field. The zero value is not useful; start
// from Default and override fields via a JSON schema file.
type Schema struct {
	// Version of the lastvis schema.
	Version string `json:"version"`
	// Events is the per-telescope event table (one row per triggered telescope).
	Events TableSpec `json:"events"`
	// Geometry is the static per-telescope configuration table.
	Geometry TableSpec `json:"geometry"`
	// Array is the array-level event table.
	Array TableSpec `json:"array"`
	// Truth is the simulated shower truth table.
	Truth TableSpec `json:"truth"`
}

// TableSpec identifies one logical table.
type TableSpec struct {
	// Path is the logical entry path of the table. Matching is tolerant:
	// an entry equal to Path or ending in "/"+Path resolves.
	Path string `json:"path"`
	// Columns maps logical field names to stored column names.
	Columns map[string]string `json:"columns,omitempty"`
}

// Column returns the stored column name for a logical field, falling back to
// the field name itself when the spec carries no override.
func (t TableSpec) Column(field string) string {
	if name, ok := t.Columns[field]; ok {
		return name
	}
	return field
}

// Logical field names understood by the extraction layer.
const (
	FieldEventID     = "event_id"
	FieldTelID       = "tel_id"
	FieldSignal      = "signal"
	FieldTelAz       = "tel_az"
	FieldTelAlt      = "tel_alt"
	FieldNumPixels   = "num_pixels"
	FieldPixX        = "pix_x"
	FieldPixY        = "pix_y"
	FieldPixSize     = "pix_size"
	FieldPixShape    = "pix_shape"
	FieldFocalLength = "focal_length"
	FieldEnergy      = "energy"
	FieldCoreX       = "core_x"
	FieldCoreY       = "core_y"
	FieldAltitude    = "altitude"
	FieldAzimuth     = "azimuth"
	FieldXMax        = "x_max"
	FieldHFirstInt   = "h_first_int"
	FieldPointAz     = "array_point_az"
	FieldPointAlt    = "array_point_alt"
)

// Default returns the schema matching the upstream simulation writer layout.
func Default() *Schema {
	return &Schema{
		Version: "v1",
		Events: TableSpec{
			Path: "true_image",
			Columns: map[string]string{
				FieldEventID: "event_id",
				FieldTelID:   "tel_id",
				FieldSignal:  "true_pe",
				FieldTelAz:   "tel_az",
				FieldTelAlt:  "tel_alt",
			},
		},
		Geometry: TableSpec{
			Path: "telconfig",
			Columns: map[string]string{
				FieldTelID:       "tel_id",
				FieldNumPixels:   "num_pixels",
				FieldPixX:        "pix_x",
				FieldPixY:        "pix_y",
				FieldPixSize:     "pix_size",
				FieldPixShape:    "pix_shape",
				FieldFocalLength: "focal_length",
			},
		},
		Array: TableSpec{
			Path: "arrayevent",
			Columns: map[string]string{
				FieldEventID: "event_id",
				FieldEnergy:  "energy",
			},
		},
		Truth: TableSpec{
			Path: "simulation/shower/shower_info",
			Columns: map[string]string{
				FieldEventID:   "shower_info/LShower/event_id",
				FieldEnergy:    "shower_info/LShower/energy",
				FieldCoreX:     "shower_info/LShower/core_x",
				FieldCoreY:     "shower_info/LShower/core_y",
				FieldAltitude:  "shower_info/LShower/altitude",
				FieldAzimuth:   "shower_info/LShower/azimuth",
				FieldXMax:      "shower_info/LShower/x_max",
				FieldHFirstInt: "shower_info/LShower/h_first_int",
				FieldPointAz:   "shower_info/LShower/array_point_az",
				FieldPointAlt:  "shower_info/LShower/array_point_alt",
			},
		},
	}
}
