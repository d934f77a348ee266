package tiff

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ImageLayout is the resolved pixel geometry of a directory: planar
// configuration, compression, dimensions, sample width, and strip/tile
// addressing. Exactly one of the strip set or tile set is populated; tile
// takes precedence if both are present.
type ImageLayout struct {
	PlanarConfig    PlanarConfig
	Compression     uint16
	Width           uint32
	Height          uint32
	BitsPerSample   uint32
	SamplesPerPixel uint32
	FillOrder       FillOrder

	RowsPerStrip    uint32
	StripOffsets    []uint32
	StripByteCounts []uint32

	TileWidth      uint32
	TileHeight     uint32
	TileOffsets    []uint32
	TileByteCounts []uint32
}

// HasTiles reports whether tile mode applies.
func (l ImageLayout) HasTiles() bool { return len(l.TileOffsets) > 0 }

func decodeUint32Scalar(dir Directory, src ByteSource, order binary.ByteOrder, tag TagID) (uint32, bool, error) {
	v, ok, err := dir.Decode(src, order, tag)
	if err != nil || !ok {
		return 0, ok, err
	}
	nums, err := v.AsUint64s()
	if err != nil {
		return 0, true, err
	}
	if len(nums) == 0 {
		return 0, true, nil
	}
	return uint32(nums[0]), true, nil
}

func decodeUint32Array(dir Directory, src ByteSource, order binary.ByteOrder, tag TagID) ([]uint32, error) {
	v, ok, err := dir.Decode(src, order, tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
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

func requireUint32Scalar(dir Directory, src ByteSource, order binary.ByteOrder, tag TagID) (uint32, error) {
	v, ok, err := decodeUint32Scalar(dir, src, order, tag)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &MissingRequiredTagError{Tag: tag}
	}
	return v, nil
}

// ResolveLayout projects a Directory's tags onto an ImageLayout, applying
// TIFF's default values where permitted (Compression=1, PlanarConfig=1,
// FillOrder=1) and surfacing MissingRequiredTagError for the geometric tags
// a PixelReader cannot proceed without.
func ResolveLayout(dir Directory, src ByteSource, order binary.ByteOrder) (*ImageLayout, error) {
	width, err := requireUint32Scalar(dir, src, order, TagImageWidth)
	if err != nil {
		return nil, err
	}
	height, err := requireUint32Scalar(dir, src, order, TagImageLength)
	if err != nil {
		return nil, err
	}
	bits, err := requireUint32Scalar(dir, src, order, TagBitsPerSample)
	if err != nil {
		return nil, err
	}
	samples, err := requireUint32Scalar(dir, src, order, TagSamplesPerPixel)
	if err != nil {
		return nil, err
	}

	layout := &ImageLayout{
		Width:           width,
		Height:          height,
		BitsPerSample:   bits,
		SamplesPerPixel: samples,
		Compression:     1,
		PlanarConfig:    PlanarChunky,
		FillOrder:       FillOrderMSB,
	}

	if v, ok, err := decodeUint32Scalar(dir, src, order, TagCompression); err != nil {
		return nil, err
	} else if ok {
		layout.Compression = uint16(v)
	}

	if v, ok, err := decodeUint32Scalar(dir, src, order, TagPlanarConfiguration); err != nil {
		return nil, err
	} else if ok {
		layout.PlanarConfig = PlanarConfig(v)
	}

	if v, ok, err := decodeUint32Scalar(dir, src, order, TagFillOrder); err != nil {
		return nil, err
	} else if ok {
		layout.FillOrder = FillOrder(v)
	}

	layout.StripOffsets, err = decodeUint32Array(dir, src, order, TagStripOffsets)
	if err != nil {
		return nil, err
	}
	layout.StripByteCounts, err = decodeUint32Array(dir, src, order, TagStripByteCounts)
	if err != nil {
		return nil, err
	}
	if v, ok, err := decodeUint32Scalar(dir, src, order, TagRowsPerStrip); err != nil {
		return nil, err
	} else if ok {
		layout.RowsPerStrip = v
	} else if len(layout.StripOffsets) > 0 {
		// TIFF's default RowsPerStrip is "effectively infinite" — a
		// single strip covers the whole image.
		layout.RowsPerStrip = height
	}

	layout.TileOffsets, err = decodeUint32Array(dir, src, order, TagTileOffsets)
	if err != nil {
		return nil, err
	}
	layout.TileByteCounts, err = decodeUint32Array(dir, src, order, TagTileByteCounts)
	if err != nil {
		return nil, err
	}
	if len(layout.TileOffsets) > 0 {
		tw, err := requireUint32Scalar(dir, src, order, TagTileWidth)
		if err != nil {
			return nil, errors.Wrap(err, "tiff: tile mode requires TileWidth")
		}
		th, err := requireUint32Scalar(dir, src, order, TagTileLength)
		if err != nil {
			return nil, errors.Wrap(err, "tiff: tile mode requires TileLength")
		}
		layout.TileWidth = tw
		layout.TileHeight = th

		// Tile mode takes precedence: leave the strip set empty.
		layout.RowsPerStrip = 0
		layout.StripOffsets = nil
		layout.StripByteCounts = nil
	}

	return layout, nil
}
