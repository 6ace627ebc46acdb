package dicom

import (
	"fmt"
	"hash/fnv"
	"math"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"sync"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// SynthOptions configures WriteSynthSeries.
type SynthOptions struct {
	Dir       string
	NumSlices int
	Rows      int
	Cols      int
	Seed      uint64 // 0 derives a seed from Dir
	Workers   int    // 0 = sequential
	Quiet     bool
}

// WriteSynthSeries writes a small synthetic MR series to opts.Dir: an
// ellipsoid phantom with per-slice noise, 12-bit values in 16-bit
// storage. The same seed always produces byte-identical pixel data, so
// the demo mode and the test fixtures are reproducible.
func WriteSynthSeries(opts SynthOptions) error {
	if opts.NumSlices <= 0 {
		return fmt.Errorf("number of slices must be > 0, got %d", opts.NumSlices)
	}
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return fmt.Errorf("invalid slice shape %dx%d", opts.Rows, opts.Cols)
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("create series directory: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		h := fnv.New64a()
		_, _ = h.Write([]byte(opts.Dir))
		seed = h.Sum64()
	}

	studyUID := deterministicUID(fmt.Sprintf("%d_study", seed))
	seriesUID := deterministicUID(fmt.Sprintf("%d_series", seed))

	type sliceTask struct {
		index int
		path  string
	}
	tasks := make([]sliceTask, opts.NumSlices)
	for i := range tasks {
		tasks[i] = sliceTask{
			index: i,
			path:  filepath.Join(opts.Dir, fmt.Sprintf("IMG%04d.dcm", i+1)),
		}
	}

	writeOne := func(t sliceTask) error {
		ds := synthDataset(opts, seed, studyUID, seriesUID, t.index)
		f, err := os.Create(t.path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return dicom.Write(f, ds)
	}

	workers := opts.Workers
	if workers <= 1 {
		for _, t := range tasks {
			if err := writeOne(t); err != nil {
				return fmt.Errorf("write slice %d: %w", t.index+1, err)
			}
		}
	} else {
		if workers > len(tasks) {
			workers = len(tasks)
		}
		taskChan := make(chan sliceTask, len(tasks))
		errChan := make(chan error, len(tasks))
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for t := range taskChan {
					if err := writeOne(t); err != nil {
						errChan <- fmt.Errorf("write slice %d: %w", t.index+1, err)
					}
				}
			}()
		}
		for _, t := range tasks {
			taskChan <- t
		}
		close(taskChan)
		wg.Wait()
		close(errChan)
		if err := <-errChan; err != nil {
			return err
		}
	}

	if !opts.Quiet {
		fmt.Printf("Wrote %d synthetic slices to %s/\n", opts.NumSlices, opts.Dir)
	}
	return nil
}

// synthDataset builds the full dataset for one slice of the phantom.
func synthDataset(opts SynthOptions, seed uint64, studyUID, seriesUID string, index int) dicom.Dataset {
	rows, cols, depth := opts.Rows, opts.Cols, opts.NumSlices

	pixelsPerFrame := rows * cols
	nativeFrame := frame.NewNativeFrame[uint16](16, rows, cols, pixelsPerFrame, 1)

	// Per-slice deterministic noise stream.
	rng := randv2.New(randv2.NewPCG(seed, uint64(index)+1))

	// Ellipsoid phantom: bright interior with radial falloff so sagittal
	// and coronal reformats show a recognizable cross-section.
	cz := float64(depth-1) / 2
	cy := float64(rows-1) / 2
	cx := float64(cols-1) / 2
	rz := math.Max(cz, 1) * 0.8
	ry := cy * 0.7
	rx := cx * 0.8

	z := float64(index)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dz := (z - cz) / rz
			dy := (float64(y) - cy) / ry
			dx := (float64(x) - cx) / rx
			d := math.Sqrt(dz*dz + dy*dy + dx*dx)

			var intensity float64
			if d < 1 {
				intensity = 600 + (1-d)*2800
			} else {
				intensity = 120
			}
			intensity += (rng.Float64() - 0.5) * 160

			if intensity < 0 {
				intensity = 0
			} else if intensity > 4095 {
				intensity = 4095
			}
			nativeFrame.RawData[y*cols+x] = uint16(intensity)
		}
	}

	sliceThickness := 1.0
	positionZ := -float64(depth)/2 + float64(index)*sliceThickness

	elements := []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.4"}),
		mustNewElement(tag.SOPInstanceUID, []string{deterministicUID(fmt.Sprintf("%d_instance_%d", seed, index))}),
		mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
		mustNewElement(tag.Modality, []string{"MR"}),
		mustNewElement(tag.SeriesDescription, []string{"Synthetic phantom MR"}),
		mustNewElement(tag.InstanceNumber, []string{intToIS(index + 1)}),
		mustNewElement(tag.ImagePositionPatient, []string{
			floatToDS(-100), floatToDS(-100), floatToDS(positionZ),
		}),
		mustNewElement(tag.SliceLocation, []string{floatToDS(positionZ)}),
		mustNewElement(tag.SliceThickness, []string{floatToDS(sliceThickness)}),
		mustNewElement(tag.PixelSpacing, []string{floatToDS(0.9), floatToDS(0.9)}),
		mustNewElement(tag.RescaleSlope, []string{floatToDS(1)}),
		mustNewElement(tag.RescaleIntercept, []string{floatToDS(0)}),
		mustNewElement(tag.Rows, []int{rows}),
		mustNewElement(tag.Columns, []int{cols}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{12}),
		mustNewElement(tag.HighBit, []int{11}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.PixelData, dicom.PixelDataInfo{
			Frames: []*frame.Frame{
				{
					Encapsulated: false,
					NativeData:   nativeFrame,
				},
			},
		}),
	}

	return dicom.Dataset{Elements: elements}
}

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// floatToDS converts a float64 to a DICOM Decimal String.
func floatToDS(f float64) string {
	return fmt.Sprintf("%.6g", f)
}

// intToIS converts an int to a DICOM Integer String.
func intToIS(i int) string {
	return fmt.Sprintf("%d", i)
}

// deterministicUID derives a stable UID from name.
func deterministicUID(name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return fmt.Sprintf("1.2.826.0.1.3680043.8.498.%d", h.Sum64())
}
