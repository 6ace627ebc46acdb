// Package render turns windowed slices into images: grayscale
// conversion, bilinear resize to the display size, the reformation
// overlay line, captions, and PNG export.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mrsinham/dicomview/internal/volume"
)

// GrayImage wraps a windowed slice as an *image.Gray without copying
// the pixel buffer.
func GrayImage(g *volume.Gray2D) *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}

// Resize scales src to width x height with bilinear interpolation.
func Resize(src image.Image, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// DrawOverlayLine draws the reformation cut marker onto img as a
// two-pixel axis-aligned line. Endpoints outside the image are clipped.
func DrawOverlayLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	b := img.Bounds()
	set := func(x, y int) {
		if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
			img.SetRGBA(x, y, c)
		}
	}
	if x1 == x2 {
		for y := min(y1, y2); y <= max(y1, y2); y++ {
			set(x1, y)
			set(x1+1, y)
		}
		return
	}
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		set(x, y1)
		set(x, y1+1)
	}
}

// Caption draws text at (x, y) with a one-pixel black outline so it
// stays readable over both bright and dark tissue.
func Caption(img *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	for _, off := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(x+off[0], y+off[1]),
		}
		d.DrawString(text)
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// ToRGBA copies a grayscale image into an RGBA canvas so overlays and
// captions can be drawn in color.
func ToRGBA(src *image.Gray) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
