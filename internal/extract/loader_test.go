package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/store"
)

func scalars(vs ...float64) *store.Column {
	return &store.Column{Scalars: vs}
}

func ragged(rows ...[]float64) *store.Column {
	return &store.Column{Ragged: rows}
}

func eventFixture() *store.MemStore {
	m := store.NewMemStore()
	m.AddTable("true_image;1")
	m.SetColumn("true_image", "event_id", scalars(1, 1, 2))
	m.SetColumn("true_image", "tel_id", scalars(1, 2, 1))
	m.SetColumn("true_image", "cam/true_pe", ragged([]float64{1, 2}, []float64{3}, []float64{4}))
	return m
}

func TestLoadResolvesNestedColumns(t *testing.T) {
	l := NewLoader(eventFixture())
	tbl := l.Load(api.Default().Events, api.FieldEventID, api.FieldSignal)
	require.True(t, tbl.Loaded())

	ids, ok := tbl.Scalars(api.FieldEventID)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 1, 2}, ids)

	sig, ok := tbl.Ragged(api.FieldSignal)
	require.True(t, ok)
	assert.Len(t, sig, 3)
}

func TestLoadSkipsMissingColumn(t *testing.T) {
	l := NewLoader(eventFixture())
	tbl := l.Load(api.Default().Events,
		api.FieldEventID, api.FieldTelID, api.FieldSignal,
		api.FieldTelAz, api.FieldTelAlt)
	require.True(t, tbl.Loaded())

	// Pointing columns are absent from the fixture: the table still loads
	// and the absent fields read back as not-ok.
	_, ok := tbl.Scalars(api.FieldTelAz)
	assert.False(t, ok)
	_, ok = tbl.Scalars(api.FieldEventID)
	assert.True(t, ok)
}

func TestLoadMissingTable(t *testing.T) {
	l := NewLoader(store.NewMemStore())
	tbl := l.Load(api.Default().Events, api.FieldEventID)
	assert.False(t, tbl.Loaded())
	assert.Equal(t, 0, tbl.Rows())
	_, ok := tbl.Column(api.FieldEventID)
	assert.False(t, ok)
}

func TestLoadReadErrorDisablesTable(t *testing.T) {
	m := eventFixture()
	m.BreakColumn("true_image", "tel_id", errors.New("basket decode"))

	l := NewLoader(m)
	tbl := l.Load(api.Default().Events, api.FieldEventID, api.FieldTelID)
	assert.False(t, tbl.Loaded())
}

func TestLoadStrictMissingColumnDisables(t *testing.T) {
	m := store.NewMemStore()
	m.AddTable("simulation/shower/shower_info;1")
	m.SetColumn("simulation/shower/shower_info", "shower_info/LShower/event_id", scalars(1, 2))

	l := NewLoader(m)
	spec := api.Default().Truth
	assert.True(t, l.Load(spec, api.FieldEventID, api.FieldEnergy).Loaded())
	assert.False(t, l.LoadStrict(spec, api.FieldEventID, api.FieldEnergy).Loaded())
}

func TestFromStoreNormalizesPixelColumns(t *testing.T) {
	m := eventFixture()
	m.AddTable("telconfig;1")
	m.SetColumn("telconfig", "tel_id", scalars(1, 2))
	m.SetColumn("telconfig", "num_pixels", scalars(3, 3))
	m.SetColumn("telconfig", "pix_x", scalars(0, 1, 2, 3, 4, 5))
	m.SetColumn("telconfig", "pix_y", scalars(5, 4, 3, 2, 1, 0))
	m.SetColumn("telconfig", "pix_size", scalars(0.1, 0.1))
	m.SetColumn("telconfig", "pix_shape", scalars(0, 0))
	m.SetColumn("telconfig", "focal_length", scalars(16, 16))

	x := FromStore(m, api.Default())
	require.True(t, x.Geometry.Loaded())

	px, ok := x.Geometry.Ragged(api.FieldPixX)
	require.True(t, ok)
	require.Len(t, px, 2)
	assert.Equal(t, []float64{0, 1, 2}, px[0])
	assert.Equal(t, []float64{3, 4, 5}, px[1])

	py, ok := x.Geometry.Ragged(api.FieldPixY)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 1, 0}, py[1])
}

func TestFromStoreWithoutTruth(t *testing.T) {
	x := FromStore(eventFixture(), api.Default())
	assert.True(t, x.Events.Loaded())
	assert.False(t, x.HasTruth())
	assert.False(t, x.Array.Loaded())
}
