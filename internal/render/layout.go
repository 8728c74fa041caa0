package render

import "math"

// GridFor returns the smallest roughly-square grid fitting n panels:
// columns = floor(sqrt(n)), rows = ceil(n / columns). Cells beyond n stay
// blank.
func GridFor(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Sqrt(float64(n)))
	if cols < 1 {
		cols = 1
	}
	rows = (n + cols - 1) / cols
	return rows, cols
}

// niceTicks returns round tick positions covering [lo, hi], aiming for
// about five ticks.
func niceTicks(lo, hi float64) []float64 {
	if hi <= lo {
		return []float64{lo}
	}
	span := hi - lo
	step := math.Pow(10, math.Floor(math.Log10(span/4)))
	switch {
	case span/step > 10:
		step *= 5
	case span/step > 5:
		step *= 2
	}
	var ticks []float64
	for t := math.Ceil(lo/step) * step; t <= hi+step/1e6; t += step {
		ticks = append(ticks, t)
	}
	return ticks
}
