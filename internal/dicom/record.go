// Package dicom decodes a DICOM series from disk into slice records that
// the volume assembler can consume. It also contains a small synthetic
// series writer used by the demo mode and the test fixtures.
package dicom

// OrderKind identifies which ordering key a slice record carries.
type OrderKind int

const (
	// OrderNone means no usable ordering tag was present; the record
	// sorts with a constant key of 0.
	OrderNone OrderKind = iota
	// OrderInstance means the key is an explicit instance number.
	OrderInstance
	// OrderPosition means the key is the through-plane spatial
	// coordinate (image position Z, or slice location).
	OrderPosition
)

func (k OrderKind) String() string {
	switch k {
	case OrderInstance:
		return "instance"
	case OrderPosition:
		return "position"
	}
	return "none"
}

// SliceMeta holds descriptive fields used only for display, never for
// computation. Each field is independently optional.
type SliceMeta struct {
	PixelSpacing   *[2]float64 // row spacing, column spacing in mm
	SliceThickness *float64    // mm
	Description    string      // study or series description
	SourceFile     string      // base name of the decoded file
}

// SliceRecord is one decoded 2D image plus its provenance: raw pixel
// intensities (pre-rescale), an ordering key, the rescale calibration
// pair, and display metadata.
type SliceRecord struct {
	// Pixels holds row-major intensities, len == Rows*Cols.
	Pixels []float32
	Rows   int
	Cols   int

	OrderKind  OrderKind
	OrderValue float64

	// RescaleSlope and RescaleIntercept calibrate stored values to
	// physical units as v*slope + intercept. They default to the
	// identity (1, 0) and are only meaningful when HasRescale is set,
	// mirroring how the tags appear in pairs or not at all.
	RescaleSlope     float64
	RescaleIntercept float64
	HasRescale       bool

	Meta SliceMeta
}

// At returns the raw intensity at row y, column x.
func (r *SliceRecord) At(y, x int) float32 {
	return r.Pixels[y*r.Cols+x]
}
