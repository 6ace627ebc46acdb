// Package volume implements the reslicing and windowing engine: it
// assembles an ordered 3D intensity field from decoded slice records,
// extracts axial/sagittal/coronal cross-sections, and maps raw
// intensities to 8-bit display values via a window/level transform.
package volume

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/mrsinham/dicomview/internal/dicom"
)

// ErrNoDecodableSlices is returned when assembly is handed an empty
// record set, i.e. every input failed to decode upstream.
var ErrNoDecodableSlices = errors.New("no decodable slices in series")

// DimensionMismatchError reports a slice whose shape disagrees with the
// canonical shape established by the first sorted record. Assembly
// aborts rather than writing a mismatched slice into the volume.
type DimensionMismatchError struct {
	Index    int // position in sorted order
	Rows     int
	Cols     int
	WantRows int
	WantCols int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("slice %d has shape %dx%d, series shape is %dx%d",
		e.Index, e.Rows, e.Cols, e.WantRows, e.WantCols)
}

// Volume is a dense 3D field of rescaled float32 intensities, stored
// Z-major: Data[z*NY*NX + y*NX + x]. A Volume is immutable once
// assembled; every accessor returns copies or scalars.
type Volume struct {
	data []float32
	nz   int // slice count
	ny   int // rows
	nx   int // columns

	meta dicom.SliceMeta // first sorted slice, display only
}

// Dims returns the volume shape as (slices, rows, columns).
func (v *Volume) Dims() (nz, ny, nx int) {
	return v.nz, v.ny, v.nx
}

// At returns the intensity at slice z, row y, column x.
func (v *Volume) At(z, y, x int) float32 {
	return v.data[z*v.ny*v.nx+y*v.nx+x]
}

// Meta returns the display metadata of the first sorted slice.
func (v *Volume) Meta() dicom.SliceMeta {
	return v.meta
}

// MinMax returns the smallest and largest intensity in the volume.
func (v *Volume) MinMax() (min, max float64) {
	s := v.intensities()
	return floats.Min(s), floats.Max(s)
}

// intensities copies the backing array into a float64 slice.
func (v *Volume) intensities() []float64 {
	out := make([]float64, len(v.data))
	for i, f := range v.data {
		out[i] = float64(f)
	}
	return out
}

// Assemble orders the given records and builds one volume from them.
//
// Records sort ascending by their ordering key; the sort is stable, so
// ties keep their input order and assembly is deterministic. The first
// sorted record's shape is canonical: any record disagreeing with it
// yields a *DimensionMismatchError. Each slice is written through its
// rescale calibration (v*slope + intercept, identity when absent).
func Assemble(records []dicom.SliceRecord) (*Volume, error) {
	if len(records) == 0 {
		return nil, ErrNoDecodableSlices
	}

	sorted := make([]dicom.SliceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderValue < sorted[j].OrderValue
	})

	ny, nx := sorted[0].Rows, sorted[0].Cols
	v := &Volume{
		data: make([]float32, len(sorted)*ny*nx),
		nz:   len(sorted),
		ny:   ny,
		nx:   nx,
		meta: sorted[0].Meta,
	}

	for i, rec := range sorted {
		if rec.Rows != ny || rec.Cols != nx {
			return nil, &DimensionMismatchError{
				Index:    i,
				Rows:     rec.Rows,
				Cols:     rec.Cols,
				WantRows: ny,
				WantCols: nx,
			}
		}

		dst := v.data[i*ny*nx : (i+1)*ny*nx]
		if !rec.HasRescale || (rec.RescaleSlope == 1 && rec.RescaleIntercept == 0) {
			copy(dst, rec.Pixels)
			continue
		}
		slope := float32(rec.RescaleSlope)
		intercept := float32(rec.RescaleIntercept)
		for j, p := range rec.Pixels {
			dst[j] = p*slope + intercept
		}
	}

	return v, nil
}
