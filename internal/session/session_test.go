package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/dicomview/internal/dicom"
	"github.com/mrsinham/dicomview/internal/volume"
)

// testVolume builds a small volume with a known intensity spread.
func testVolume(t *testing.T, nz, ny, nx int) *volume.Volume {
	t.Helper()
	records := make([]dicom.SliceRecord, nz)
	for z := 0; z < nz; z++ {
		pixels := make([]float32, ny*nx)
		for i := range pixels {
			pixels[i] = float32(z*ny*nx + i)
		}
		records[z] = dicom.SliceRecord{
			Pixels:     pixels,
			Rows:       ny,
			Cols:       nx,
			OrderValue: float64(z),
		}
	}
	v, err := volume.Assemble(records)
	require.NoError(t, err)
	return v
}

func TestNew_Defaults(t *testing.T) {
	v := testVolume(t, 10, 8, 6)
	st := New(v)

	assert.Equal(t, volume.PlaneSagittal, st.Plane)
	assert.Equal(t, 5, st.AxialIndex)
	// Sagittal limit is NX-1 = 5, so the slider starts at 2.
	assert.Equal(t, 2, st.ReformIndex)

	assert.GreaterOrEqual(t, st.WindowWidth, 1.0)
	assert.Equal(t, st.DefaultWidth, st.WindowWidth)
	assert.Equal(t, st.DefaultLevel, st.WindowLevel)

	assert.GreaterOrEqual(t, st.WWMax, 2000.0)
	assert.LessOrEqual(t, st.WLMin, -1200.0)
	assert.GreaterOrEqual(t, st.WLMax, 1600.0)
}

func TestWithPlane_RecentersReform(t *testing.T) {
	v := testVolume(t, 10, 8, 6)
	st := New(v)

	st.WithPlane(v, volume.PlaneCoronal)
	assert.Equal(t, volume.PlaneCoronal, st.Plane)
	// Coronal limit is NY-1 = 7.
	assert.Equal(t, 3, st.ReformIndex)
}

func TestClamped(t *testing.T) {
	v := testVolume(t, 10, 8, 6)
	st := New(v)

	st.AxialIndex = -3
	st.ReformIndex = 100
	st.WindowWidth = st.WWMax + 500
	st.WindowLevel = st.WLMin - 500
	st.Clamped(v)

	assert.Equal(t, 0, st.AxialIndex)
	assert.Equal(t, v.PlaneLimit(st.Plane), st.ReformIndex)
	assert.Equal(t, st.WWMax, st.WindowWidth)
	assert.Equal(t, st.WLMin, st.WindowLevel)

	st.WindowWidth = 0
	st.Clamped(v)
	assert.Equal(t, 1.0, st.WindowWidth)
}

func TestResetWindow(t *testing.T) {
	v := testVolume(t, 4, 4, 4)
	st := New(v)

	st.WindowWidth = 999
	st.WindowLevel = -42
	st.ResetWindow()

	assert.Equal(t, st.DefaultWidth, st.WindowWidth)
	assert.Equal(t, st.DefaultLevel, st.WindowLevel)
}

func TestResetPlane(t *testing.T) {
	v := testVolume(t, 10, 8, 6)
	st := New(v)

	st.AxialIndex = 9
	st.ReformIndex = 0
	st.ResetPlane(v)

	assert.Equal(t, 5, st.AxialIndex)
	assert.Equal(t, v.PlaneLimit(st.Plane)/2, st.ReformIndex)
}

func TestPresets(t *testing.T) {
	presets := Presets(400, 40)
	require.Len(t, presets, 4)

	assert.Equal(t, "Soft Tissue", presets[0].Name)
	assert.Equal(t, 400.0, presets[0].Width)
	assert.Equal(t, 40.0, presets[0].Level)

	// Bone widens to 45% of the default (floored at 250) and raises the
	// level by 60% of the default width.
	assert.Equal(t, "Bone", presets[1].Name)
	assert.Equal(t, 250.0, presets[1].Width)
	assert.Equal(t, 280.0, presets[1].Level)

	assert.Equal(t, "Lung", presets[2].Name)
	assert.Equal(t, 1500.0, presets[2].Width)
	assert.Equal(t, -600.0, presets[2].Level)

	assert.Equal(t, "Head", presets[3].Name)
	assert.Equal(t, 120.0, presets[3].Width)
	assert.Equal(t, 40.0, presets[3].Level)
}

func TestPresets_BoneScalesWithWideDefaults(t *testing.T) {
	presets := Presets(1000, 0)
	assert.Equal(t, 450.0, presets[1].Width)
	assert.Equal(t, 600.0, presets[1].Level)
}

func TestApplyPreset(t *testing.T) {
	v := testVolume(t, 4, 4, 4)
	st := New(v)

	st.ApplyPreset(2)
	assert.Equal(t, 1500.0, st.WindowWidth)
	assert.Equal(t, -600.0, st.WindowLevel)

	// Out of range indices leave the window alone.
	st.ApplyPreset(9)
	assert.Equal(t, 1500.0, st.WindowWidth)
}

func TestReadouts(t *testing.T) {
	v := testVolume(t, 10, 8, 6)
	st := New(v)
	st.WindowWidth = 350
	st.WindowLevel = 50

	axial, reform, window := st.Readouts(v)
	assert.Equal(t, "Axial 6/10", axial)
	assert.Equal(t, "Sagittal 3/6", reform)
	assert.Equal(t, "WW 350  WL 50", window)
}

func TestSummary(t *testing.T) {
	v := testVolume(t, 3, 2, 2)

	thickness := 2.5
	meta := dicom.SliceMeta{
		Description:    "BRAIN MR",
		PixelSpacing:   &[2]float64{0.9, 0.9},
		SliceThickness: &thickness,
	}

	got := Summary(meta, v)
	assert.Contains(t, got, "BRAIN MR")
	assert.Contains(t, got, "3 slices x 2 rows x 2 cols")
	assert.Contains(t, got, "0.9 x 0.9 mm")
	assert.Contains(t, got, "2.5 mm")
}

func TestSummary_MissingMeta(t *testing.T) {
	v := testVolume(t, 2, 2, 2)

	got := Summary(dicom.SliceMeta{}, v)
	assert.Contains(t, got, "(no description)")
	assert.True(t, strings.Contains(got, "unknown"))
}
