package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/dicomview/internal/dicom"
)

func TestApplyWindowLevel_Mapping(t *testing.T) {
	// Window 100 around level 50 spans [0, 100].
	s := &Slice2D{
		Data:   []float32{-50, 0, 25, 50, 75, 100, 150},
		Height: 1,
		Width:  7,
	}

	g := ApplyWindowLevel(s, 100, 50)
	require.Equal(t, 1, g.Height)
	require.Equal(t, 7, g.Width)

	want := []uint8{
		0,   // below the window clamps to 0
		0,   // low edge
		63,  // 25% of the window, truncated
		127, // midpoint truncates down
		191, // 75%
		255, // high edge
		255, // above the window clamps to 255
	}
	assert.Equal(t, want, g.Pix)
}

func TestApplyWindowLevel_WidthFloor(t *testing.T) {
	// Width below 1 behaves as width 1: a step function around level.
	s := &Slice2D{Data: []float32{9, 10, 11}, Height: 1, Width: 3}

	g := ApplyWindowLevel(s, 0, 10)
	assert.Equal(t, uint8(0), g.Pix[0])
	assert.Equal(t, uint8(127), g.Pix[1])
	assert.Equal(t, uint8(255), g.Pix[2])
}

func TestApplyWindowLevel_NegativeWindow(t *testing.T) {
	s := &Slice2D{Data: []float32{100}, Height: 1, Width: 1}

	// A negative width also floors to 1.
	g := ApplyWindowLevel(s, -500, 100)
	assert.Equal(t, uint8(127), g.Pix[0])
}

func TestApplyWindowLevel_Scenario(t *testing.T) {
	// Single bright voxel in a zero volume: with a window twice its
	// value centered on it, the voxel lands mid-gray and the rest black.
	records := make([]dicom.SliceRecord, 4)
	for z := range records {
		records[z] = dicom.SliceRecord{
			Pixels:     make([]float32, 16),
			Rows:       4,
			Cols:       4,
			OrderValue: float64(z),
		}
	}
	records[2].Pixels[1*4+3] = 200

	v, err := Assemble(records)
	require.NoError(t, err)

	s := v.ExtractPlane(PlaneAxial, 2)
	g := ApplyWindowLevel(s, 400, 200)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint8(0)
			if y == 1 && x == 3 {
				want = 127
			}
			assert.Equal(t, want, g.At(y, x), "y=%d x=%d", y, x)
		}
	}
}

func TestDefaultWindow(t *testing.T) {
	// 101 voxels 0..100: the percentiles land exactly on 5 and 95.
	pixels := make([]float32, 101)
	for i := range pixels {
		pixels[i] = float32(i)
	}
	v, err := Assemble([]dicom.SliceRecord{{Pixels: pixels, Rows: 1, Cols: 101}})
	require.NoError(t, err)

	ww, wl := DefaultWindow(v)
	assert.InDelta(t, 90, ww, 1e-9)
	assert.InDelta(t, 50, wl, 1e-9)
}

func TestDefaultWindow_UniformVolume(t *testing.T) {
	pixels := []float32{42, 42, 42, 42}
	v, err := Assemble([]dicom.SliceRecord{{Pixels: pixels, Rows: 2, Cols: 2}})
	require.NoError(t, err)

	ww, wl := DefaultWindow(v)
	assert.Equal(t, 1.0, ww)
	assert.Equal(t, 42.0, wl)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.Equal(t, 10.0, percentile(sorted, 0))
	assert.Equal(t, 40.0, percentile(sorted, 100))
	assert.Equal(t, 25.0, percentile(sorted, 50))
	// Rank 0.15 between the first two samples.
	assert.InDelta(t, 11.5, percentile(sorted, 5), 1e-9)

	assert.Equal(t, 7.0, percentile([]float64{7}, 95))
}
