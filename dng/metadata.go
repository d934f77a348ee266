package dng

import (
	"encoding/binary"

	"github.com/brightlab/dngraw/colormath"
	"github.com/brightlab/dngraw/tiff"
)

// Metadata is a projection of a tiff.Directory onto the DNG-specific typed
// fields a color pipeline consumes. Every field is optional
// by construction: a nil pointer or nil slice means the source tag was
// absent, never that its value was zero. Tags this package does not
// recognize are retained verbatim in Opaque for pass-through.
type Metadata struct {
	DNGVersion        []byte
	UniqueCameraModel string

	BlackLevel []float64
	WhiteLevel []float64
	ActiveArea []uint32

	ColorMatrix1       *colormath.Matrix
	ColorMatrix2       *colormath.Matrix
	CameraCalibration1 *colormath.Matrix
	CameraCalibration2 *colormath.Matrix
	ForwardMatrix1     *colormath.Matrix
	ForwardMatrix2     *colormath.Matrix

	AnalogBalance []float64
	AsShotNeutral []float64
	AsShotWhiteXY []float64

	// CalibrationIlluminant{1,2} are the kelvin temperatures derived from
	// the raw CalibrationIlluminant tags. Absent if the
	// underlying tag is absent; 0 if present but unrecognized.
	CalibrationIlluminant1 *float64
	CalibrationIlluminant2 *float64

	// ColorPlanes equals the directory's SamplesPerPixel.
	ColorPlanes int

	// Opaque retains every directory entry not projected above, keyed by
	// tag, for pass-through consumers that need the raw bytes.
	Opaque map[tiff.TagID]tiff.TagEntry
}

// Extract projects dir onto a Metadata value. samplesPerPixel is the
// directory's resolved SamplesPerPixel (from tiff.ResolveLayout), used as
// ColorPlanes and as the column/row count reshaping matrix-valued tags.
func Extract(dir tiff.Directory, src tiff.ByteSource, order binary.ByteOrder, samplesPerPixel int) (*Metadata, error) {
	m := &Metadata{
		ColorPlanes: samplesPerPixel,
		Opaque:      map[tiff.TagID]tiff.TagEntry{},
	}

	for tag, entry := range dir.Entries {
		if !knownTags[tag] {
			m.Opaque[tag] = entry
		}
	}

	var err error
	if m.DNGVersion, err = decodeBytes(dir, src, order, TagDNGVersion); err != nil {
		return nil, err
	}
	if m.UniqueCameraModel, err = decodeASCII(dir, src, order, TagUniqueCameraModel); err != nil {
		return nil, err
	}
	if m.BlackLevel, err = decodeFloats(dir, src, order, TagBlackLevel); err != nil {
		return nil, err
	}
	if m.WhiteLevel, err = decodeFloats(dir, src, order, TagWhiteLevel); err != nil {
		return nil, err
	}
	if m.ActiveArea, err = decodeUints(dir, src, order, TagActiveArea); err != nil {
		return nil, err
	}
	if m.AnalogBalance, err = decodeFloats(dir, src, order, TagAnalogBalance); err != nil {
		return nil, err
	}
	if m.AsShotNeutral, err = decodeFloats(dir, src, order, TagAsShotNeutral); err != nil {
		return nil, err
	}
	if m.AsShotWhiteXY, err = decodeFloats(dir, src, order, TagAsShotWhiteXY); err != nil {
		return nil, err
	}

	if m.ColorMatrix1, err = decodeMatrix(dir, src, order, TagColorMatrix1, 3, samplesPerPixel); err != nil {
		return nil, err
	}
	if m.ColorMatrix2, err = decodeMatrix(dir, src, order, TagColorMatrix2, 3, samplesPerPixel); err != nil {
		return nil, err
	}
	if m.CameraCalibration1, err = decodeMatrix(dir, src, order, TagCameraCalibration1, samplesPerPixel, samplesPerPixel); err != nil {
		return nil, err
	}
	if m.CameraCalibration2, err = decodeMatrix(dir, src, order, TagCameraCalibration2, samplesPerPixel, samplesPerPixel); err != nil {
		return nil, err
	}
	if m.ForwardMatrix1, err = decodeMatrix(dir, src, order, TagForwardMatrix1, 3, samplesPerPixel); err != nil {
		return nil, err
	}
	if m.ForwardMatrix2, err = decodeMatrix(dir, src, order, TagForwardMatrix2, 3, samplesPerPixel); err != nil {
		return nil, err
	}

	if m.CalibrationIlluminant1, err = decodeIlluminant(dir, src, order, TagCalibrationIllum1); err != nil {
		return nil, err
	}
	if m.CalibrationIlluminant2, err = decodeIlluminant(dir, src, order, TagCalibrationIllum2); err != nil {
		return nil, err
	}

	return m, nil
}

func decodeASCII(dir tiff.Directory, src tiff.ByteSource, order binary.ByteOrder, tag tiff.TagID) (string, error) {
	v, ok, err := dir.Decode(src, order, tag)
	if err != nil || !ok {
		return "", err
	}
	return v.ASCII()
}

func decodeBytes(dir tiff.Directory, src tiff.ByteSource, order binary.ByteOrder, tag tiff.TagID) ([]byte, error) {
	v, ok, err := dir.Decode(src, order, tag)
	if err != nil || !ok {
		return nil, err
	}
	if v.Type == tiff.DTASCII {
		s, err := v.ASCII()
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
	return v.Bytes()
}

func decodeFloats(dir tiff.Directory, src tiff.ByteSource, order binary.ByteOrder, tag tiff.TagID) ([]float64, error) {
	v, ok, err := dir.Decode(src, order, tag)
	if err != nil || !ok {
		return nil, err
	}
	return v.AsFloat64s()
}

func decodeUints(dir tiff.Directory, src tiff.ByteSource, order binary.ByteOrder, tag tiff.TagID) ([]uint32, error) {
	v, ok, err := dir.Decode(src, order, tag)
	if err != nil || !ok {
		return nil, err
	}
	nums, err := v.AsUint64s()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(nums))
	for i, n := range nums {
		out[i] = uint32(n)
	}
	return out, nil
}

// decodeMatrix reshapes a matrix-valued tag's SRATIONAL payload into a
// rows x cols colormath.Matrix, row-major.
func decodeMatrix(dir tiff.Directory, src tiff.ByteSource, order binary.ByteOrder, tag tiff.TagID, rows, cols int) (*colormath.Matrix, error) {
	vals, err := decodeFloats(dir, src, order, tag)
	if err != nil || vals == nil {
		return nil, err
	}
	if len(vals) != rows*cols {
		// Malformed or camera with an unexpected colorPlanes count;
		// keep the raw values unreshaped rather than panic.
		rows, cols = 1, len(vals)
	}
	m := colormath.NewMatrix(rows, cols, vals)
	return &m, nil
}

func decodeIlluminant(dir tiff.Directory, src tiff.ByteSource, order binary.ByteOrder, tag tiff.TagID) (*float64, error) {
	v, ok, err := dir.Decode(src, order, tag)
	if err != nil || !ok {
		return nil, err
	}
	shorts, err := v.Shorts()
	if err != nil {
		return nil, err
	}
	if len(shorts) == 0 {
		return nil, nil
	}
	k := lightSourceTemperature(shorts[0])
	return &k, nil
}
