package volume

import (
	"fmt"
	"strings"
)

// Plane identifies a viewing plane through the volume.
type Plane string

const (
	PlaneAxial    Plane = "Axial"
	PlaneSagittal Plane = "Sagittal"
	PlaneCoronal  Plane = "Coronal"
)

// ReformPlanes lists the planes available on the reformation slider.
// Axial is the native acquisition plane and has its own slider.
var ReformPlanes = []Plane{PlaneSagittal, PlaneCoronal}

// ParsePlane parses a plane name, case-insensitively.
func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "axial":
		return PlaneAxial, nil
	case "sagittal":
		return PlaneSagittal, nil
	case "coronal":
		return PlaneCoronal, nil
	}
	return "", fmt.Errorf("unknown plane %q", s)
}

func (p Plane) String() string {
	return string(p)
}

// Slice2D is one extracted cross-section, row-major.
type Slice2D struct {
	Data   []float32
	Height int
	Width  int
}

// At returns the intensity at row y, column x.
func (s *Slice2D) At(y, x int) float32 {
	return s.Data[y*s.Width+x]
}

// PlaneLimit returns the largest valid index for the given plane:
// NX-1 for sagittal cuts, NY-1 for coronal cuts, NZ-1 for axial.
func (v *Volume) PlaneLimit(plane Plane) int {
	switch plane {
	case PlaneSagittal:
		return v.nx - 1
	case PlaneCoronal:
		return v.ny - 1
	}
	return v.nz - 1
}

// ExtractPlane returns the 2D cross-section of the volume at the given
// plane and index. The index is clamped into the plane's valid range, so
// the call is total; sliders may drift past the edge during interaction
// without faulting. Each call allocates a fresh backing array.
//
// Axial slices come back as stored, NY rows by NX columns. Sagittal and
// coronal cuts are rotated a quarter turn counter-clockwise and then
// flipped vertically so the first acquisition slice lands on the left
// and the top of the body stays up; the two steps compose to a
// transpose of the raw plane.
func (v *Volume) ExtractPlane(plane Plane, index int) *Slice2D {
	switch plane {
	case PlaneSagittal:
		x := clampInt(index, 0, v.nx-1)
		// Raw cut: NZ rows by NY columns at fixed X.
		raw := make([]float32, v.nz*v.ny)
		for z := 0; z < v.nz; z++ {
			for y := 0; y < v.ny; y++ {
				raw[z*v.ny+y] = v.At(z, y, x)
			}
		}
		return transpose(raw, v.nz, v.ny)

	case PlaneCoronal:
		y := clampInt(index, 0, v.ny-1)
		// Raw cut: NZ rows by NX columns at fixed Y.
		raw := make([]float32, v.nz*v.nx)
		for z := 0; z < v.nz; z++ {
			for x := 0; x < v.nx; x++ {
				raw[z*v.nx+x] = v.At(z, y, x)
			}
		}
		return transpose(raw, v.nz, v.nx)
	}

	z := clampInt(index, 0, v.nz-1)
	out := make([]float32, v.ny*v.nx)
	copy(out, v.data[z*v.ny*v.nx:(z+1)*v.ny*v.nx])
	return &Slice2D{Data: out, Height: v.ny, Width: v.nx}
}

// transpose swaps the axes of a rows x cols plane.
func transpose(src []float32, rows, cols int) *Slice2D {
	out := make([]float32, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c*rows+r] = src[r*cols+c]
		}
	}
	return &Slice2D{Data: out, Height: cols, Width: rows}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
