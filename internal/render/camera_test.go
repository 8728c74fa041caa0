package render

import (
	"errors"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/event"
	"github.com/last-obs/lastvis/internal/extract"
	"github.com/last-obs/lastvis/internal/store"
)

func scalars(vs ...float64) *store.Column {
	return &store.Column{Scalars: vs}
}

func ragged(rows ...[]float64) *store.Column {
	return &store.Column{Ragged: rows}
}

// renderFixture builds one event seen by two telescopes. Telescope 2 records
// five samples against six configured pixels, so its panel degrades to an
// all-zero camera.
func renderFixture(withTruth bool) *extract.Extraction {
	m := store.NewMemStore()
	m.AddTable("true_image;1")
	m.SetColumn("true_image", "event_id", scalars(42, 42))
	m.SetColumn("true_image", "tel_id", scalars(1, 2))
	m.SetColumn("true_image", "true_pe", ragged(
		[]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4, 5}))
	m.SetColumn("true_image", "tel_az", scalars(180.5, 180.5))
	m.SetColumn("true_image", "tel_alt", scalars(70.25, 70.25))

	m.AddTable("telconfig;1")
	m.SetColumn("telconfig", "tel_id", scalars(1, 2))
	m.SetColumn("telconfig", "num_pixels", scalars(4, 6))
	m.SetColumn("telconfig", "pix_x", ragged(
		[]float64{-0.1, 0.1, -0.1, 0.1},
		[]float64{-0.1, 0, 0.1, -0.1, 0, 0.1}))
	m.SetColumn("telconfig", "pix_y", ragged(
		[]float64{-0.1, -0.1, 0.1, 0.1},
		[]float64{-0.1, -0.1, -0.1, 0.1, 0.1, 0.1}))
	m.SetColumn("telconfig", "pix_size", scalars(0.02, 0.02))
	m.SetColumn("telconfig", "pix_shape", scalars(0, 0))
	m.SetColumn("telconfig", "focal_length", scalars(16, 16))

	if withTruth {
		const path = "simulation/shower/shower_info"
		const pre = "shower_info/LShower/"
		m.AddTable(path + ";1")
		m.SetColumn(path, pre+"event_id", scalars(42))
		m.SetColumn(path, pre+"energy", scalars(1.23))
		m.SetColumn(path, pre+"core_x", scalars(100.5))
		m.SetColumn(path, pre+"core_y", scalars(-50.25))
		m.SetColumn(path, pre+"altitude", scalars(70))
		m.SetColumn(path, pre+"azimuth", scalars(180))
		m.SetColumn(path, pre+"x_max", scalars(350.1))
		m.SetColumn(path, pre+"h_first_int", scalars(25.5))
		m.SetColumn(path, pre+"array_point_az", scalars(0))
		m.SetColumn(path, pre+"array_point_alt", scalars(0))
	}
	return extract.FromStore(m, api.Default())
}

func newRenderer(x *extract.Extraction) *Renderer {
	r := New(x, event.NewIndex(x))
	r.PanelSize = 200
	return r
}

func TestPixelValues(t *testing.T) {
	sig := []float64{1, 2, 3}
	assert.Equal(t, sig, PixelValues(sig, 3))
	assert.Equal(t, []float64{0, 0, 0, 0}, PixelValues(sig, 4))
	assert.Equal(t, []float64{0, 0}, PixelValues(nil, 2))
	assert.Empty(t, PixelValues(sig, -1))
}

func TestResolveTarget(t *testing.T) {
	r := newRenderer(renderFixture(true))

	id, err := r.ResolveTarget(Target{EventID: event.Some[int64](42)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	// Brightest takes precedence over an explicit id.
	id, err = r.ResolveTarget(Target{EventID: event.Some[int64](999), Brightest: true})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = r.ResolveTarget(Target{})
	assert.ErrorIs(t, err, ErrNoTarget)

	// No signal data: brightest falls back to the explicit id.
	empty := newRenderer(extract.FromStore(store.NewMemStore(), api.Default()))
	id, err = empty.ResolveTarget(Target{EventID: event.Some[int64](7), Brightest: true})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = empty.ResolveTarget(Target{Brightest: true})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestRenderComposition(t *testing.T) {
	r := newRenderer(renderFixture(true))

	img, id, err := r.Render(Target{EventID: event.Some[int64](42)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	// Two telescope panels plus the truth panel: a 3x1 grid.
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestRenderWithoutTruth(t *testing.T) {
	r := newRenderer(renderFixture(false))

	img, _, err := r.Render(Target{Brightest: true})
	require.NoError(t, err)

	// No truth panel: two telescope panels only.
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestRenderNaNSignal(t *testing.T) {
	m := store.NewMemStore()
	m.AddTable("true_image;1")
	m.SetColumn("true_image", "event_id", scalars(1))
	m.SetColumn("true_image", "tel_id", scalars(1))
	m.SetColumn("true_image", "true_pe", ragged(
		[]float64{1, math.NaN(), 3, math.NaN()}))

	m.AddTable("telconfig;1")
	m.SetColumn("telconfig", "tel_id", scalars(1))
	m.SetColumn("telconfig", "num_pixels", scalars(4))
	m.SetColumn("telconfig", "pix_x", ragged([]float64{-0.1, 0.1, -0.1, 0.1}))
	m.SetColumn("telconfig", "pix_y", ragged([]float64{-0.1, -0.1, 0.1, 0.1}))
	m.SetColumn("telconfig", "pix_size", scalars(0.02))
	m.SetColumn("telconfig", "pix_shape", scalars(0))
	m.SetColumn("telconfig", "focal_length", scalars(16))

	x := extract.FromStore(m, api.Default())
	r := newRenderer(x)

	// NaN cells are valid input: they render unlit instead of panicking.
	img, id, err := r.Render(Target{EventID: event.Some[int64](1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestRenderUnknownEvent(t *testing.T) {
	r := newRenderer(renderFixture(true))
	_, _, err := r.Render(Target{EventID: event.Some[int64](7)})
	assert.True(t, errors.Is(err, ErrNoTarget))
}

func TestTruthText(t *testing.T) {
	x := renderFixture(true)
	g := goldie.New(t)
	g.Assert(t, "truth_text", []byte(TruthText(x, 42, 0)))
}

func TestAccentCycling(t *testing.T) {
	assert.Equal(t, accentFor(1), accentFor(5))
	assert.NotEqual(t, accentFor(1), accentFor(2))
	// Out-of-range ids still resolve.
	assert.NotNil(t, accentFor(0))
	assert.NotNil(t, accentFor(-3))
}
