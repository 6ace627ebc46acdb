// Package session holds the viewing state of one loaded series: the
// active reformation plane, slice indices, window/level values and
// their slider bounds. It is pure state plus transitions; rendering
// and input handling live elsewhere.
package session

import (
	"fmt"
	"math"

	"github.com/mrsinham/dicomview/internal/dicom"
	"github.com/mrsinham/dicomview/internal/volume"
)

// State is the complete viewing state for one volume. All transition
// methods mutate in place; the caller owns concurrency (the TUI runs
// single-threaded through its update loop).
type State struct {
	Plane       volume.Plane
	AxialIndex  int
	ReformIndex int

	WindowWidth float64
	WindowLevel float64

	// Percentile-derived defaults, kept for resets and preset math.
	DefaultWidth float64
	DefaultLevel float64

	// Slider bounds for the window/level controls.
	WWMax float64
	WLMin float64
	WLMax float64
}

// New builds the initial state for a freshly assembled volume: sagittal
// reformation at the middle of the slider range, middle axial slice,
// and the percentile-based default window. Slider bounds stretch to
// cover both the default window and the volume's actual intensity
// range.
func New(v *volume.Volume) *State {
	nz, _, _ := v.Dims()
	ww, wl := volume.DefaultWindow(v)
	ww = math.Round(ww)
	wl = math.Round(wl)

	lo, hi := v.MinMax()

	s := &State{
		Plane:        volume.PlaneSagittal,
		AxialIndex:   nz / 2,
		WindowWidth:  ww,
		WindowLevel:  wl,
		DefaultWidth: ww,
		DefaultLevel: wl,
		WWMax:        math.Max(5*ww, 2000),
		WLMin:        math.Min(math.Floor(lo), -1200),
		WLMax:        math.Max(math.Ceil(hi), 1600),
	}
	s.ReformIndex = v.PlaneLimit(s.Plane) / 2
	return s
}

// WithPlane switches the reformation plane and recenters the reform
// slider on the new plane's range.
func (s *State) WithPlane(v *volume.Volume, plane volume.Plane) {
	s.Plane = plane
	s.ReformIndex = v.PlaneLimit(plane) / 2
}

// Clamped pulls both slice indices back into the valid range of the
// volume, and the window values back inside their slider bounds. Called
// after every nudge so the rest of the state machine never sees an
// out-of-range value.
func (s *State) Clamped(v *volume.Volume) {
	nz, _, _ := v.Dims()
	s.AxialIndex = clampInt(s.AxialIndex, 0, nz-1)
	s.ReformIndex = clampInt(s.ReformIndex, 0, v.PlaneLimit(s.Plane))

	if s.WindowWidth < 1 {
		s.WindowWidth = 1
	}
	if s.WindowWidth > s.WWMax {
		s.WindowWidth = s.WWMax
	}
	if s.WindowLevel < s.WLMin {
		s.WindowLevel = s.WLMin
	}
	if s.WindowLevel > s.WLMax {
		s.WindowLevel = s.WLMax
	}
}

// ResetWindow restores the percentile-based default window.
func (s *State) ResetWindow() {
	s.WindowWidth = s.DefaultWidth
	s.WindowLevel = s.DefaultLevel
}

// ResetPlane recenters both sliders: middle axial slice, middle of the
// current reformation range.
func (s *State) ResetPlane(v *volume.Volume) {
	nz, _, _ := v.Dims()
	s.AxialIndex = nz / 2
	s.ReformIndex = v.PlaneLimit(s.Plane) / 2
}

// Preset is a named window/level pair.
type Preset struct {
	Name  string
	Width float64
	Level float64
}

// Presets returns the window presets for a volume with the given
// default window. Soft Tissue is the default window itself; Bone
// widens and raises it; Lung and Head are fixed CT-style windows.
func Presets(defWidth, defLevel float64) []Preset {
	return []Preset{
		{Name: "Soft Tissue", Width: defWidth, Level: defLevel},
		{Name: "Bone", Width: math.Max(0.45*defWidth, 250), Level: defLevel + 0.6*defWidth},
		{Name: "Lung", Width: 1500, Level: -600},
		{Name: "Head", Width: 120, Level: 40},
	}
}

// ApplyPreset sets the window to the i-th preset. Out-of-range indices
// are ignored.
func (s *State) ApplyPreset(i int) {
	presets := Presets(s.DefaultWidth, s.DefaultLevel)
	if i < 0 || i >= len(presets) {
		return
	}
	s.WindowWidth = presets[i].Width
	s.WindowLevel = presets[i].Level
}

// Readouts formats the slider readouts shown next to each view.
func (s *State) Readouts(v *volume.Volume) (axial, reform, window string) {
	nz, _, _ := v.Dims()
	axial = fmt.Sprintf("Axial %d/%d", s.AxialIndex+1, nz)
	reform = fmt.Sprintf("%s %d/%d", s.Plane, s.ReformIndex+1, v.PlaneLimit(s.Plane)+1)
	window = fmt.Sprintf("WW %.0f  WL %.0f", s.WindowWidth, s.WindowLevel)
	return axial, reform, window
}

// Summary formats the metadata panel: series description, volume
// shape, spacing and the intensity range.
func Summary(meta dicom.SliceMeta, v *volume.Volume) string {
	nz, ny, nx := v.Dims()
	lo, hi := v.MinMax()

	desc := meta.Description
	if desc == "" {
		desc = "(no description)"
	}
	spacing := "unknown"
	if meta.PixelSpacing != nil {
		spacing = fmt.Sprintf("%.3g x %.3g mm", meta.PixelSpacing[0], meta.PixelSpacing[1])
	}
	thickness := "unknown"
	if meta.SliceThickness != nil {
		thickness = fmt.Sprintf("%.3g mm", *meta.SliceThickness)
	}

	return fmt.Sprintf(
		"Series: %s\nShape: %d slices x %d rows x %d cols\nPixel spacing: %s\nSlice thickness: %s\nIntensity range: %.1f to %.1f",
		desc, nz, ny, nx, spacing, thickness, lo, hi,
	)
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
