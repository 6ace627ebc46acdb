package volume

import "math"

// OverlayLine computes the segment, in axial-image pixel space, that
// marks where the reformatted plane cuts through an axial view of the
// given height and width. Sagittal cuts draw a vertical line, coronal
// cuts a horizontal one. When limit <= 0 there is nothing to
// interpolate and the line is centered. Drawing the line is the
// renderer's job; this is pure geometry.
func OverlayLine(plane Plane, reformIndex, limit, height, width int) (x1, y1, x2, y2 int) {
	if limit <= 0 {
		if plane == PlaneSagittal {
			x := width / 2
			return x, 0, x, height - 1
		}
		y := height / 2
		return 0, y, width - 1, y
	}

	ratio := float64(reformIndex) / float64(limit)
	if plane == PlaneSagittal {
		x := int(math.Round(ratio * float64(width-1)))
		return x, 0, x, height - 1
	}
	y := int(math.Round(ratio * float64(height-1)))
	return 0, y, width - 1, y
}
