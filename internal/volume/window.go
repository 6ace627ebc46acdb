package volume

import (
	"math"
	"sort"
)

// Gray2D is an 8-bit display image produced by the window/level
// transform, row-major.
type Gray2D struct {
	Pix    []uint8
	Height int
	Width  int
}

// At returns the display value at row y, column x.
func (g *Gray2D) At(y, x int) uint8 {
	return g.Pix[y*g.Width+x]
}

// ApplyWindowLevel maps raw intensities to 8-bit display values. Values
// below level-width/2 clamp to 0, values above level+width/2 clamp to
// 255, and the window in between maps linearly, truncating fractions.
// Width is floored at 1.0, so the transform never divides by zero; the
// high==low branch is kept as a defensive guard and returns an all-zero
// image of the same shape.
func ApplyWindowLevel(s *Slice2D, width, level float64) *Gray2D {
	if width < 1.0 {
		width = 1.0
	}
	low := level - width/2
	high := level + width/2

	out := &Gray2D{
		Pix:    make([]uint8, len(s.Data)),
		Height: s.Height,
		Width:  s.Width,
	}
	if high == low {
		return out
	}

	span := high - low
	for i, raw := range s.Data {
		val := float64(raw)
		if val < low {
			val = low
		} else if val > high {
			val = high
		}
		out.Pix[i] = uint8((val - low) / span * 255.0)
	}
	return out
}

// DefaultWindow computes a reasonable initial window for the volume from
// the 5th and 95th intensity percentiles: the width spans the bulk of
// the histogram without letting a handful of outliers flatten the
// display, and the level centers on it. Width is floored at 1.0.
func DefaultWindow(v *Volume) (width, level float64) {
	samples := v.intensities()
	sort.Float64s(samples)

	p5 := percentile(samples, 5)
	p95 := percentile(samples, 95)

	width = math.Max(p95-p5, 1.0)
	level = (p95 + p5) / 2
	return width, level
}

// percentile returns the q-th percentile (0..100) of sorted samples,
// linearly interpolating between the two nearest ranks at q*(n-1).
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
