// Package tiff implements a TIFF 6.0 / DNG 1.4 container parser: byte-order
// detection, image file directory (IFD) traversal including nested sub-IFDs,
// typed tag entry decoding, and strip/tile pixel extraction.
//
// Decompression of entropy-coded pixels (JPEG, LZW, deflate) is out of scope;
// only uncompressed pixel storage is read.
package tiff

import "fmt"

// Byte order magic bytes found at offset 0 of a TIFF stream.
const (
	magicLittleEndian = 0x4949
	magicBigEndian    = 0x4D4D
)

// tiffVersion is the fixed identifier at offset 2 of a TIFF stream.
const tiffVersion uint16 = 42

// DataType is the closed variant of tag payload element types a TIFF/DNG
// directory entry may declare.
type DataType uint16

const (
	DTNone      DataType = 0
	DTByte      DataType = 1
	DTASCII     DataType = 2
	DTShort     DataType = 3
	DTLong      DataType = 4
	DTRational  DataType = 5
	DTSByte     DataType = 6
	DTUndefined DataType = 7
	DTSShort    DataType = 8
	DTSLong     DataType = 9
	DTSRational DataType = 10
	DTFloat     DataType = 11
	DTDouble    DataType = 12
)

// dataTypeSize holds the fixed byte size of a single element of each
// DataType, indexed by its numeric value. Index 0 (DTNone) is a sentinel.
var dataTypeSize = [...]uint32{
	0, // DTNone
	1, // DTByte
	1, // DTASCII
	2, // DTShort
	4, // DTLong
	8, // DTRational
	1, // DTSByte
	1, // DTUndefined
	2, // DTSShort
	4, // DTSLong
	8, // DTSRational
	4, // DTFloat
	8, // DTDouble
}

// Size returns the number of bytes a single element of this type occupies.
// Unrecognized types return 0.
func (d DataType) Size() uint32 {
	if int(d) < 0 || int(d) >= len(dataTypeSize) {
		return 0
	}
	return dataTypeSize[d]
}

var dataTypeNames = map[DataType]string{
	DTByte:      "BYTE",
	DTASCII:     "ASCII",
	DTShort:     "SHORT",
	DTLong:      "LONG",
	DTRational:  "RATIONAL",
	DTSByte:     "SBYTE",
	DTUndefined: "UNDEFINED",
	DTSShort:    "SSHORT",
	DTSLong:     "SLONG",
	DTSRational: "SRATIONAL",
	DTFloat:     "FLOAT",
	DTDouble:    "DOUBLE",
}

func (d DataType) String() string {
	if s, ok := dataTypeNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DataType(%d)", uint16(d))
}

// TagID identifies a directory entry's field.
type TagID uint16

// Core TIFF 6.0 tags.
const (
	TagNewSubfileType          TagID = 0x0FE
	TagImageWidth              TagID = 0x100
	TagImageLength             TagID = 0x101
	TagBitsPerSample           TagID = 0x102
	TagCompression             TagID = 0x103
	TagPhotometricInterp       TagID = 0x106
	TagFillOrder               TagID = 0x10A
	TagStripOffsets            TagID = 0x111
	TagSamplesPerPixel         TagID = 0x115
	TagRowsPerStrip            TagID = 0x116
	TagStripByteCounts         TagID = 0x117
	TagPlanarConfiguration     TagID = 0x11C
	TagTileWidth               TagID = 0x142
	TagTileLength              TagID = 0x143
	TagTileOffsets             TagID = 0x144
	TagTileByteCounts          TagID = 0x145
	TagSubIFDs                 TagID = 0x14A
)

var coreTagNames = map[TagID]string{
	TagNewSubfileType:      "NewSubfileType",
	TagImageWidth:          "ImageWidth",
	TagImageLength:         "ImageLength",
	TagBitsPerSample:       "BitsPerSample",
	TagCompression:         "Compression",
	TagPhotometricInterp:   "PhotometricInterpretation",
	TagFillOrder:           "FillOrder",
	TagStripOffsets:        "StripOffsets",
	TagSamplesPerPixel:     "SamplesPerPixel",
	TagRowsPerStrip:        "RowsPerStrip",
	TagStripByteCounts:     "StripByteCounts",
	TagPlanarConfiguration: "PlanarConfiguration",
	TagTileWidth:           "TileWidth",
	TagTileLength:          "TileLength",
	TagTileOffsets:         "TileOffsets",
	TagTileByteCounts:      "TileByteCounts",
	TagSubIFDs:             "SubIFDs",
}

func (t TagID) String() string {
	if s, ok := coreTagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(0x%04X)", uint16(t))
}

// PlanarConfig enumerates the TIFF PlanarConfiguration tag values.
type PlanarConfig uint16

const (
	PlanarChunky PlanarConfig = 1
	PlanarPlanes PlanarConfig = 2
)

// FillOrder enumerates the TIFF FillOrder tag values.
type FillOrder uint16

const (
	FillOrderMSB FillOrder = 1
	FillOrderLSB FillOrder = 2
)
