package render

import (
	"image/color"
	"math"

	"github.com/mazznoer/colorgrad"
)

// levels is the number of colormap bins above the sentinel.
const levels = 256

// Scale maps pixel signal values to colours with asymmetric binning: zero
// maps to a sentinel white distinct from the colormap, values in (0, 1]
// collapse into the first colormap bin, and values above 1 spread linearly
// over the remaining bins up to the observed maximum. Any signal at all
// pops visually against true zero while lit pixels keep dynamic range.
type Scale struct {
	max    float64
	colors []color.Color // sentinel + levels colormap entries
}

// NewScale builds a scale for signals in [0, max].
func NewScale(max float64) *Scale {
	if max <= 1 || math.IsNaN(max) {
		max = 1
	}
	grad := colorgrad.Plasma()
	colors := make([]color.Color, 0, levels+1)
	colors = append(colors, color.White)
	for i := 0; i < levels; i++ {
		colors = append(colors, grad.At(float64(i)/float64(levels-1)))
	}
	return &Scale{max: max, colors: colors}
}

// Max returns the upper bound of the scale.
func (s *Scale) Max() float64 { return s.max }

// At returns the colour for one signal value.
func (s *Scale) At(v float64) color.Color {
	return s.colors[s.bin(v)]
}

// bin returns the colour index for a value: 0 is the sentinel. NaN cells
// count as no signal.
func (s *Scale) bin(v float64) int {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v <= 1 || s.max <= 1:
		return 1
	}
	idx := 1 + int((v-1)/(s.max-1)*float64(levels-1))
	if idx > levels {
		idx = levels
	}
	return idx
}
