package dicom

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// SkippedFile records an input that could not be decoded into a slice.
// Skipped files are reported, not fatal, unless every file is skipped.
type SkippedFile struct {
	Path   string
	Reason error
}

// LoadSeries reads every .dcm file in dir and decodes each into a
// SliceRecord. Files that fail to decode are skipped and returned as
// diagnostics. An error is returned only when dir is unreadable, holds
// no .dcm files, or no file at all could be decoded.
func LoadSeries(dir string) ([]SliceRecord, []SkippedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read series directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".dcm") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no DICOM files found in %s", dir)
	}
	sort.Strings(paths)

	var records []SliceRecord
	var skipped []SkippedFile
	for _, p := range paths {
		rec, err := DecodeFile(p)
		if err != nil {
			skipped = append(skipped, SkippedFile{Path: p, Reason: err})
			continue
		}
		records = append(records, *rec)
	}
	if len(records) == 0 {
		return nil, skipped, fmt.Errorf("no readable DICOM files in %s", dir)
	}

	return records, skipped, nil
}

// DecodeFile decodes a single DICOM file into a SliceRecord. Only the
// first frame of multi-frame objects is used.
func DecodeFile(path string) (*SliceRecord, error) {
	base := filepath.Base(path)

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", base, err)
	}

	pixelElem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("%s: missing pixel data", base)
	}
	info := dicom.MustGetPixelDataInfo(pixelElem.Value)
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("%s: pixel data has no frames", base)
	}
	img, err := info.Frames[0].GetImage()
	if err != nil {
		return nil, fmt.Errorf("%s: decode frame: %w", base, err)
	}

	rec := &SliceRecord{
		Pixels:       framePixels(img),
		Rows:         img.Bounds().Dy(),
		Cols:         img.Bounds().Dx(),
		RescaleSlope: 1,
	}

	// Ordering: prefer the explicit instance number, fall back to the
	// through-plane spatial coordinate, else leave the constant key.
	if n, ok := intTag(ds, tag.InstanceNumber); ok {
		rec.OrderKind = OrderInstance
		rec.OrderValue = float64(n)
	} else if pos, ok := floatsTag(ds, tag.ImagePositionPatient); ok && len(pos) == 3 {
		rec.OrderKind = OrderPosition
		rec.OrderValue = pos[2]
	} else if loc, ok := floatTag(ds, tag.SliceLocation); ok {
		rec.OrderKind = OrderPosition
		rec.OrderValue = loc
	}

	// The rescale pair is applied only when both tags are present.
	slope, okSlope := floatTag(ds, tag.RescaleSlope)
	intercept, okIntercept := floatTag(ds, tag.RescaleIntercept)
	if okSlope && okIntercept {
		rec.RescaleSlope = slope
		rec.RescaleIntercept = intercept
		rec.HasRescale = true
	}

	if sp, ok := floatsTag(ds, tag.PixelSpacing); ok && len(sp) == 2 {
		rec.Meta.PixelSpacing = &[2]float64{sp[0], sp[1]}
	}
	if th, ok := floatTag(ds, tag.SliceThickness); ok {
		rec.Meta.SliceThickness = &th
	}
	if desc, ok := stringTag(ds, tag.StudyDescription); ok && desc != "" {
		rec.Meta.Description = desc
	} else if desc, ok := stringTag(ds, tag.SeriesDescription); ok {
		rec.Meta.Description = desc
	}
	rec.Meta.SourceFile = base

	return rec, nil
}

// framePixels flattens a decoded frame image into raw row-major
// intensities. Grayscale frames come back as image.Gray16 (or image.Gray
// for 8-bit data) carrying the stored values unscaled.
func framePixels(img image.Image) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]float32, w*h)

	switch im := img.(type) {
	case *image.Gray16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				pixels[y*w+x] = float32(im.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				pixels[y*w+x] = float32(im.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				pixels[y*w+x] = float32(r)
			}
		}
	}

	return pixels
}

// stringTag returns the first value of a string-typed element.
func stringTag(ds dicom.Dataset, t tag.Tag) (string, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil {
		return "", false
	}
	if vals, ok := el.Value.GetValue().([]string); ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0]), true
	}
	return "", false
}

// intTag returns the first value of an element as an int. Integer String
// elements decode as strings, so both representations are accepted.
func intTag(ds dicom.Dataset, t tag.Tag) (int, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil {
		return 0, false
	}
	switch vals := el.Value.GetValue().(type) {
	case []int:
		if len(vals) > 0 {
			return vals[0], true
		}
	case []string:
		if len(vals) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(vals[0])); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// floatTag returns the first value of an element as a float64. Decimal
// String elements decode as strings.
func floatTag(ds dicom.Dataset, t tag.Tag) (float64, bool) {
	vals, ok := floatsTag(ds, t)
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// floatsTag returns all values of an element as float64s.
func floatsTag(ds dicom.Dataset, t tag.Tag) ([]float64, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil || el == nil {
		return nil, false
	}
	switch vals := el.Value.GetValue().(type) {
	case []float64:
		return vals, len(vals) > 0
	case []int:
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = float64(v)
		}
		return out, len(out) > 0
	case []string:
		out := make([]float64, 0, len(vals))
		for _, s := range vals {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		}
		return out, len(out) > 0
	}
	return nil, false
}
