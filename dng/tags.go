// Package dng projects a parsed tiff.Directory onto the typed DNG 1.4 /
// TIFF-EP fields a color pipeline needs: calibration matrices, white-balance
// inputs, and light-source temperatures. Every field is optional, mirroring
// the DNG specification's own "absent means absent" semantics.
package dng

import "github.com/brightlab/dngraw/tiff"

// Recognized DNG 1.4 / TIFF-EP tags. All other tags present in
// a directory are retained by Metadata as opaque pass-through entries.
const (
	TagDNGVersion           tiff.TagID = 0xC612
	TagUniqueCameraModel    tiff.TagID = 0xC614
	TagBlackLevel           tiff.TagID = 0xC61A
	TagWhiteLevel           tiff.TagID = 0xC61D
	TagColorMatrix1         tiff.TagID = 0xC621
	TagColorMatrix2         tiff.TagID = 0xC622
	TagCameraCalibration1   tiff.TagID = 0xC623
	TagCameraCalibration2   tiff.TagID = 0xC624
	TagAnalogBalance        tiff.TagID = 0xC627
	TagAsShotNeutral        tiff.TagID = 0xC628
	TagAsShotWhiteXY        tiff.TagID = 0xC629
	TagCalibrationIllum1    tiff.TagID = 0xC65A
	TagCalibrationIllum2    tiff.TagID = 0xC65B
	TagActiveArea           tiff.TagID = 0xC68D
	TagForwardMatrix1       tiff.TagID = 0xC714
	TagForwardMatrix2       tiff.TagID = 0xC715
)

// knownTags is consulted by Extract to decide which entries are projected
// onto Metadata's typed fields versus retained as opaque pass-through.
var knownTags = map[tiff.TagID]bool{
	TagDNGVersion:         true,
	TagUniqueCameraModel:  true,
	TagBlackLevel:         true,
	TagWhiteLevel:         true,
	TagColorMatrix1:       true,
	TagColorMatrix2:       true,
	TagCameraCalibration1: true,
	TagCameraCalibration2: true,
	TagAnalogBalance:      true,
	TagAsShotNeutral:      true,
	TagAsShotWhiteXY:      true,
	TagCalibrationIllum1:  true,
	TagCalibrationIllum2:  true,
	TagActiveArea:         true,
	TagForwardMatrix1:     true,
	TagForwardMatrix2:     true,
}
