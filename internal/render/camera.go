package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/event"
	"github.com/last-obs/lastvis/internal/extract"
)

// ErrNoTarget reports that no target event could be resolved: neither an
// explicit id nor enough data to infer the brightest event.
var ErrNoTarget = errors.New("render: no target event could be resolved")

// unitToCm converts store positions (meters) to centimeters for display.
const unitToCm = 100

// accentColors cycle per telescope id for the panel annotation border.
var accentColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, // blue
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}, // orange
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, // green
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff}, // purple
}

func accentFor(tel int64) color.Color {
	i := int((tel-1)%int64(len(accentColors))+int64(len(accentColors))) % len(accentColors)
	return accentColors[i]
}

// Target selects the event to render: an explicit id, or the event with
// the maximum total signal. Brightest takes precedence when both are set.
type Target struct {
	EventID   event.Maybe[int64]
	Brightest bool
}

// Renderer composes one multi-panel camera figure per call: one panel per
// triggered telescope plus a text panel when shower truth is available.
type Renderer struct {
	X  *extract.Extraction
	Ix *event.Index
	// PanelSize is the square panel edge in output pixels. The default
	// matches the fixed high-resolution output of the upstream figure.
	PanelSize int
}

// New returns a renderer over an indexed extraction.
func New(x *extract.Extraction, ix *event.Index) *Renderer {
	return &Renderer{X: x, Ix: ix, PanelSize: 1500}
}

// ResolveTarget picks the event id for a target.
func (r *Renderer) ResolveTarget(t Target) (int64, error) {
	if t.Brightest {
		if id, ok := event.BrightestEvent(r.X); ok {
			return id, nil
		}
	}
	if t.EventID.Present {
		return t.EventID.Value, nil
	}
	return 0, ErrNoTarget
}

// PixelValues returns the per-pixel values for one telescope row. When the
// recorded sequence length disagrees with the configured pixel count, an
// all-zero sequence at the configured length substitutes: a degraded
// render, not an error.
func PixelValues(signal []float64, numPixels int) []float64 {
	if numPixels < 0 {
		numPixels = 0
	}
	if len(signal) == numPixels {
		return signal
	}
	return make([]float64, numPixels)
}

// Render builds the figure for a target and returns the composed image and
// the resolved event id.
func (r *Renderer) Render(t Target) (image.Image, int64, error) {
	id, err := r.ResolveTarget(t)
	if err != nil {
		return nil, 0, err
	}
	s, ok := r.Ix.Slice(id)
	if !ok {
		return nil, 0, fmt.Errorf("event %d has no telescope rows: %w", id, ErrNoTarget)
	}

	withTruth := r.X.HasTruth() && s.TruthRow.Present
	panels := len(s.Rows)
	if withTruth {
		panels++
	}
	rows, cols := GridFor(panels)

	master := gg.NewContext(cols*r.PanelSize, rows*r.PanelSize)
	master.SetRGB(1, 1, 1)
	master.Clear()

	offset := 0
	if withTruth {
		master.DrawImage(r.truthPanel(s), 0, 0)
		offset = 1
	}
	for i := range s.Rows {
		cell := i + offset
		master.DrawImage(r.cameraPanel(s, i), (cell%cols)*r.PanelSize, (cell/cols)*r.PanelSize)
	}
	// Grid cells beyond the used panel count stay blank.

	return master.Image(), id, nil
}

// SavePNG writes a rendered figure to path.
func SavePNG(img image.Image, path string) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

// cameraPanel draws one telescope's camera image.
func (r *Renderer) cameraPanel(s *event.Slice, i int) image.Image {
	size := float64(r.PanelSize)
	dc := gg.NewContext(r.PanelSize, r.PanelSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	tel := s.TelIDs[i]
	cfg := s.ConfigRows[i]

	geom := r.X.Geometry
	pxRows, okX := geom.Ragged(api.FieldPixX)
	pyRows, okY := geom.Ragged(api.FieldPixY)
	sizes, okS := geom.Scalars(api.FieldPixSize)
	focals, okF := geom.Scalars(api.FieldFocalLength)
	npixs, okN := geom.Scalars(api.FieldNumPixels)
	if cfg < 0 || !okX || !okY || !okS || !okF || !okN || cfg >= len(pxRows) {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(fmt.Sprintf("Telescope %d: no geometry", tel), size/2, size/2, 0.5, 0.5)
		return dc.Image()
	}

	npix := int(npixs[cfg])
	var raw []float64
	if sig, ok := r.X.Events.Ragged(api.FieldSignal); ok {
		raw = sig[s.Rows[i]]
	}
	values := PixelValues(raw, npix)

	xs := scaled(pxRows[cfg], unitToCm)
	ys := scaled(pyRows[cfg], unitToCm)
	side := sizes[cfg] * unitToCm
	focal := focals[cfg] * unitToCm

	// NaN cells render as unlit and must not poison the scale maximum.
	maxV := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		maxV = math.Max(maxV, v)
	}
	sc := NewScale(maxV)

	// Plot square with room for the two axis pairs and the colour bar.
	ml := 0.11 * size
	mt := 0.09 * size
	plot := 0.72 * size

	// Equal-aspect data window: pixel extent padded by one pixel size on
	// every edge, stretched to a common span for x and y.
	xlo, xhi := bounds(xs, side)
	ylo, yhi := bounds(ys, side)
	span := math.Max(xhi-xlo, yhi-ylo)
	if span <= 0 {
		span = 1
	}
	x0 := (xlo+xhi)/2 - span/2
	y0 := (ylo+yhi)/2 - span/2
	tx := func(x float64) float64 { return ml + (x-x0)/span*plot }
	ty := func(y float64) float64 { return mt + plot - (y-y0)/span*plot }

	// Camera pixels: filled squares centered on their geometry position.
	w := side / span * plot
	for j := 0; j < npix && j < len(xs) && j < len(ys); j++ {
		dc.SetColor(sc.At(values[j]))
		dc.DrawRectangle(tx(xs[j])-w/2, ty(ys[j])-w/2, w, w)
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(0.5)
		dc.Stroke()
	}

	// Frame.
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(ml, mt, plot, plot)
	dc.Stroke()

	r.drawAxes(dc, ml, mt, plot, x0, y0, span, focal)
	r.annotate(dc, s, tel, ml, mt)
	r.colorBar(dc, sc, ml+plot+0.035*size, mt, 0.022*size, plot)

	return dc.Image()
}

// drawAxes draws the linear (cm) axes and the secondary angular axes. The
// camera plane is linear in position but physically meaningful in angle:
// deg = atan(pos / focal).
func (r *Renderer) drawAxes(dc *gg.Context, ml, mt, plot, x0, y0, span, focal float64) {
	const tick = 9
	dc.SetLineWidth(1)
	dc.SetRGB(0, 0, 0)

	tx := func(x float64) float64 { return ml + (x-x0)/span*plot }
	ty := func(y float64) float64 { return mt + plot - (y-y0)/span*plot }

	// Bottom and left: centimeters.
	for _, t := range niceTicks(x0, x0+span) {
		px := tx(t)
		dc.DrawLine(px, mt+plot, px, mt+plot+tick)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", t), px, mt+plot+tick+12, 0.5, 0.5)
	}
	for _, t := range niceTicks(y0, y0+span) {
		py := ty(t)
		dc.DrawLine(ml-tick, py, ml, py)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", t), ml-tick-22, py, 0.5, 0.5)
	}
	dc.DrawStringAnchored("X Position (cm)", ml+plot/2, mt+plot+42, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, ml-58, mt+plot/2)
	dc.DrawStringAnchored("Y Position (cm)", ml-58, mt+plot/2, 0.5, 0.5)
	dc.Pop()

	if focal <= 0 {
		return
	}

	// Top and right: degrees, deg = atan(pos/focal), inverse
	// pos = tan(deg)*focal.
	deg := func(pos float64) float64 { return math.Atan(pos/focal) * 180 / math.Pi }
	pos := func(d float64) float64 { return math.Tan(d*math.Pi/180) * focal }
	for _, d := range niceTicks(deg(x0), deg(x0+span)) {
		px := tx(pos(d))
		if px < ml || px > ml+plot {
			continue
		}
		dc.DrawLine(px, mt-tick, px, mt)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", d), px, mt-tick-12, 0.5, 0.5)
	}
	for _, d := range niceTicks(deg(y0), deg(y0+span)) {
		py := ty(pos(d))
		if py < mt || py > mt+plot {
			continue
		}
		dc.DrawLine(ml+plot, py, ml+plot+tick, py)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", d), ml+plot+tick+20, py, 0.5, 0.5)
	}
	dc.DrawStringAnchored("X Position (degrees)", ml+plot/2, mt-34, 0.5, 0.5)
}

// annotate draws the telescope id and pointing box. Pointing comes from the
// representative event row, not the panel's own row — the upstream
// convention treats pointing as one-per-event; kept as observed.
func (r *Renderer) annotate(dc *gg.Context, s *event.Slice, tel int64, ml, mt float64) {
	az, alt := math.NaN(), math.NaN()
	if vs, ok := r.X.Events.Scalars(api.FieldTelAz); ok && s.Rep < len(vs) {
		az = vs[s.Rep]
	}
	if vs, ok := r.X.Events.Scalars(api.FieldTelAlt); ok && s.Rep < len(vs) {
		alt = vs[s.Rep]
	}
	lines := []string{
		fmt.Sprintf("Telescope %d", tel),
		fmt.Sprintf("Az: %.2f, Alt: %.2f", az, alt),
	}

	x, y := ml+14, mt+16
	boxW, boxH := 0.0, 0.0
	for _, line := range lines {
		w, h := dc.MeasureString(line)
		boxW = math.Max(boxW, w)
		boxH += h + 6
	}
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(x-6, y-12, boxW+12, boxH+10)
	dc.Fill()
	dc.SetColor(accentFor(tel))
	dc.SetLineWidth(2)
	dc.DrawRectangle(x-6, y-12, boxW+12, boxH+10)
	dc.Stroke()
	dc.SetRGB(0, 0, 0)
	for _, line := range lines {
		dc.DrawString(line, x, y)
		y += 19
	}
}

// colorBar draws a vertical bar reflecting the asymmetric binning, with
// value ticks and a label.
func (r *Renderer) colorBar(dc *gg.Context, sc *Scale, x, y, w, h float64) {
	steps := int(h)
	for i := 0; i < steps; i++ {
		v := sc.Max() * (1 - float64(i)/float64(steps-1))
		dc.SetColor(sc.At(v))
		dc.DrawRectangle(x, y+float64(i), w, 1)
		dc.Fill()
	}
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
	for _, t := range niceTicks(0, sc.Max()) {
		py := y + h - t/sc.Max()*h
		dc.DrawLine(x+w, py, x+w+5, py)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", t), x+w+28, py, 0.5, 0.5)
	}
	dc.DrawStringAnchored("Pe Value", x+w/2, y-16, 0.5, 0.5)
}

// truthPanel renders the shower truth summary as a text panel.
func (r *Renderer) truthPanel(s *event.Slice) image.Image {
	size := float64(r.PanelSize)
	dc := gg.NewContext(r.PanelSize, r.PanelSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(0, 0, 0)

	lines := strings.Split(TruthText(r.X, s.EventID, s.TruthRow.Value), "\n")
	const lineH = 34
	y := size/2 - float64(len(lines)-1)*lineH/2
	for _, line := range lines {
		dc.DrawStringAnchored(line, size/2, y, 0.5, 0.5)
		y += lineH
	}
	return dc.Image()
}

// TruthText formats the truth summary shown on the text panel.
func TruthText(x *extract.Extraction, id int64, row int) string {
	get := func(field string) float64 {
		if vs, ok := x.Truth.Scalars(field); ok && row < len(vs) {
			return vs[row]
		}
		return math.NaN()
	}
	return strings.Join([]string{
		"Event Information",
		fmt.Sprintf("Event ID: %d", id),
		fmt.Sprintf("True energy: %.2f", get(api.FieldEnergy)),
		fmt.Sprintf("Core x: %.2f", get(api.FieldCoreX)),
		fmt.Sprintf("Core y: %.2f", get(api.FieldCoreY)),
		fmt.Sprintf("Altitude: %.2f", get(api.FieldAltitude)),
		fmt.Sprintf("Azimuth: %.2f", get(api.FieldAzimuth)),
		fmt.Sprintf("X max: %.2f", get(api.FieldXMax)),
		fmt.Sprintf("First interaction: %.2f", get(api.FieldHFirstInt)),
	}, "\n")
}

func scaled(vs []float64, f float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v * f
	}
	return out
}

func bounds(vs []float64, pad float64) (lo, hi float64) {
	if len(vs) == 0 {
		return -pad, pad
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo - pad, hi + pad
}
