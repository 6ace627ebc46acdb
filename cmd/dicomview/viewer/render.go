package viewer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/dicomview/internal/render"
	"github.com/mrsinham/dicomview/internal/session"
	"github.com/mrsinham/dicomview/internal/volume"
)

// terminalView renders one plane of the volume as a block of terminal
// cells. Each cell carries two vertical pixels via the upper half block
// glyph, the top pixel as foreground and the bottom as background, so a
// cols x rows cell grid shows a cols x 2*rows image.
func terminalView(v *volume.Volume, st *session.State, plane volume.Plane, index, cols, rows int) string {
	s := v.ExtractPlane(plane, index)
	g := volume.ApplyWindowLevel(s, st.WindowWidth, st.WindowLevel)

	img := render.ToRGBA(render.Resize(render.GrayImage(g), cols, rows*2))

	if plane == volume.PlaneAxial {
		limit := v.PlaneLimit(st.Plane)
		x1, y1, x2, y2 := volume.OverlayLine(st.Plane, st.ReformIndex, limit, rows*2, cols)
		render.DrawOverlayLine(img, x1, y1, x2, y2, color.RGBA{R: 255, G: 215, B: 0, A: 255})
	}

	return halfBlockString(img)
}

// halfBlockString converts an RGBA image with an even height into
// styled half-block rows.
func halfBlockString(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bottom := img.RGBAAt(x, y+1)
			cell := lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render("▀")
			sb.WriteString(cell)
		}
		if y+2 < b.Max.Y {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
