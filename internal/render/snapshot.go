package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/mrsinham/dicomview/internal/session"
	"github.com/mrsinham/dicomview/internal/volume"
)

// overlayColor marks the reformation cut on the axial view.
var overlayColor = color.RGBA{R: 255, G: 215, B: 0, A: 255}

// Snapshot renders the current viewing state as one image: the axial
// view with the reformation cut marked, and the reformatted view next
// to it, both resized to size x size with captions.
func Snapshot(v *volume.Volume, st *session.State, size int) *image.RGBA {
	axial := viewImage(v, st, volume.PlaneAxial, st.AxialIndex, size)
	reform := viewImage(v, st, st.Plane, st.ReformIndex, size)

	limit := v.PlaneLimit(st.Plane)
	x1, y1, x2, y2 := volume.OverlayLine(st.Plane, st.ReformIndex, limit, size, size)
	DrawOverlayLine(axial, x1, y1, x2, y2, overlayColor)

	axialLabel, reformLabel, windowLabel := st.Readouts(v)
	Caption(axial, 8, size-10, axialLabel)
	Caption(reform, 8, size-10, fmt.Sprintf("%s  %s", reformLabel, windowLabel))

	const gap = 8
	canvas := image.NewRGBA(image.Rect(0, 0, size*2+gap, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, size, size), axial, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(size+gap, 0, size*2+gap, size), reform, image.Point{}, draw.Src)
	return canvas
}

// viewImage extracts, windows and resizes one view.
func viewImage(v *volume.Volume, st *session.State, plane volume.Plane, index, size int) *image.RGBA {
	s := v.ExtractPlane(plane, index)
	g := volume.ApplyWindowLevel(s, st.WindowWidth, st.WindowLevel)
	resized := Resize(GrayImage(g), size, size)
	return ToRGBA(resized)
}
