package tiff

import (
	"github.com/pkg/errors"
)

// PixelReader extracts uncompressed sample values from a directory's strip
// or tile storage, honoring planar configuration, fill order, and a
// bits-per-sample width that need not be a multiple of 8.
// A PixelReader is not safe for concurrent use: it re-seeks the underlying
// ByteSource on every read.
type PixelReader struct {
	layout *ImageLayout
	src    ByteSource
}

// NewPixelReader validates compression support and constructs a reader for
// layout's strip or tile storage. Bit-packed sample extraction does not
// depend on the stream's byte order: TIFF packs sub-byte sample widths
// within each byte the same way regardless of endianness.
func NewPixelReader(layout *ImageLayout, src ByteSource) (*PixelReader, error) {
	if layout.Compression != 1 {
		return nil, &UnsupportedCompressionError{Code: layout.Compression}
	}
	return &PixelReader{layout: layout, src: src}, nil
}

// unit is the bit-packing granularity: lcm(bitsPerSample, 8). A sample width
// that already divides 8 evenly (1,2,4,8) packs within a single byte; wider
// samples (10,12,14,16...) pack across the smallest number of whole bytes
// that holds a whole number of samples.
func unit(bitsPerSample uint32) uint32 {
	return lcm(bitsPerSample, 8)
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b uint32) uint32 {
	if a == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

// unpackBits extracts count samples of width bitsPerSample from packed,
// per fillOrder. packed is assumed to hold whole units: lcm(bitsPerSample, 8)
// bits per group, count/samplesPerUnit groups rounded up. LSB fill order
// applies only to 8-, 16- and 32-bit samples; every other width is unpacked
// MSB-first whatever fillOrder says.
func unpackBits(packed []byte, bitsPerSample uint32, count int, order FillOrder) []uint32 {
	if order == FillOrderLSB && (bitsPerSample == 8 || bitsPerSample == 16 || bitsPerSample == 32) {
		return unpackLSB(packed, bitsPerSample, count)
	}
	return unpackMSB(packed, bitsPerSample, count)
}

// unpackLSB interprets each unit as a little-endian integer of unitBytes
// bytes, valid only when bitsPerSample is a whole number of bytes (8, 16,
// 32 — the only widths spec permits in this fill order).
func unpackLSB(packed []byte, bitsPerSample uint32, count int) []uint32 {
	unitBytes := int(bitsPerSample / 8)
	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		base := i * unitBytes
		var v uint32
		for b := unitBytes - 1; b >= 0; b-- {
			idx := base + b
			if idx >= len(packed) {
				continue
			}
			v = (v << 8) | uint32(packed[idx])
		}
		out[i] = v
	}
	return out
}

// unpackMSB processes bytes left to right, maintaining a bit accumulator:
// whenever it holds at least bitsPerSample bits, the top bitsPerSample bits
// are emitted as the next sample.
func unpackMSB(packed []byte, bitsPerSample uint32, count int) []uint32 {
	out := make([]uint32, count)
	var bitPos uint64

	for i := 0; i < count; i++ {
		var v uint32
		for b := uint32(0); b < bitsPerSample; b++ {
			byteIdx := int(bitPos / 8)
			bit := uint(bitPos % 8)
			if byteIdx >= len(packed) {
				break
			}
			bitVal := uint32((packed[byteIdx] >> (7 - bit)) & 1)
			v = (v << 1) | bitVal
			bitPos++
		}
		out[i] = v
	}
	return out
}

// rowByteWidth returns the number of whole bytes one row of width samples
// (each bitsPerSample wide) occupies, rounding up per-unit.
func rowByteWidth(widthSamples uint32, bitsPerSample uint32) int {
	u := unit(bitsPerSample)
	samplesPerUnit := u / bitsPerSample
	units := (widthSamples + samplesPerUnit - 1) / samplesPerUnit
	return int(units * (u / 8))
}

// ReadStrips reads every strip in order and returns the per-sample values of
// the realized image (realWidth = width, realHeight = ceil(height /
// rowsPerStrip) x rowsPerStrip), row-major, channel-minor for chunky layout.
// Planar layout returns each plane's samples concatenated in plane order.
// Each strip is read as a full rowsPerStrip rows regardless of how many rows
// remain in the declared height: geometric size, not StripByteCounts, is
// what tells the reader how many bytes a strip holds.
func (p *PixelReader) ReadStrips() (data []uint32, realWidth, realHeight int, err error) {
	l := p.layout
	if len(l.StripOffsets) == 0 {
		return nil, 0, 0, errors.New("tiff: layout has no strip storage")
	}
	if l.RowsPerStrip == 0 {
		return nil, 0, 0, errors.New("tiff: RowsPerStrip is zero")
	}

	planes := 1
	samplesPerPixelPerPlane := l.SamplesPerPixel
	if l.PlanarConfig == PlanarPlanes {
		planes = int(l.SamplesPerPixel)
		samplesPerPixelPerPlane = 1
	}

	stripsPerPlane := (int(l.Height) + int(l.RowsPerStrip) - 1) / int(l.RowsPerStrip)
	rows := int(l.RowsPerStrip)
	realHeight = stripsPerPlane * rows
	realWidth = int(l.Width)

	var out []uint32
	stripIdx := 0
	n := rows * rowByteWidth(l.Width*samplesPerPixelPerPlane, l.BitsPerSample)
	samplesInStrip := rows * realWidth * int(samplesPerPixelPerPlane)

	for plane := 0; plane < planes; plane++ {
		for s := 0; s < stripsPerPlane; s++ {
			if stripIdx >= len(l.StripOffsets) {
				return nil, 0, 0, errors.Errorf("tiff: expected %d strips, have %d offsets", planes*stripsPerPlane, len(l.StripOffsets))
			}
			raw, rErr := p.readBlock(l.StripOffsets[stripIdx], n)
			if rErr != nil {
				return nil, 0, 0, errors.Wrapf(rErr, "tiff: read strip %d", stripIdx)
			}
			out = append(out, unpackBits(raw, l.BitsPerSample, samplesInStrip, l.FillOrder)...)
			stripIdx++
		}
	}
	return out, realWidth, realHeight, nil
}

// ReadTiles reads every tile and reassembles them into row-major rows of the
// realized (tile-padded) image: realWidth = ceil(width/tileWidth) x
// tileWidth, realHeight = ceil(height/tileHeight) x tileHeight. Pixels
// outside the declared width x height region inside a border tile are
// present in the returned buffer but undefined.
func (p *PixelReader) ReadTiles() (data []uint32, realWidth, realHeight int, err error) {
	l := p.layout
	if len(l.TileOffsets) == 0 {
		return nil, 0, 0, errors.New("tiff: layout has no tile storage")
	}
	if l.TileWidth == 0 || l.TileHeight == 0 {
		return nil, 0, 0, errors.New("tiff: tile dimensions are zero")
	}

	planes := 1
	samplesPerPixelPerPlane := l.SamplesPerPixel
	if l.PlanarConfig == PlanarPlanes {
		planes = int(l.SamplesPerPixel)
		samplesPerPixelPerPlane = 1
	}

	tilesAcross := int((l.Width + l.TileWidth - 1) / l.TileWidth)
	tilesDown := int((l.Height + l.TileHeight - 1) / l.TileHeight)
	tilesPerPlane := tilesAcross * tilesDown
	realWidth = tilesAcross * int(l.TileWidth)
	realHeight = tilesDown * int(l.TileHeight)

	out := make([]uint32, realWidth*realHeight*int(samplesPerPixelPerPlane)*planes)
	tileIdx := 0
	n := int(l.TileHeight) * rowByteWidth(l.TileWidth*samplesPerPixelPerPlane, l.BitsPerSample)
	samplesInTile := int(l.TileWidth) * int(l.TileHeight) * int(samplesPerPixelPerPlane)

	for plane := 0; plane < planes; plane++ {
		for ty := 0; ty < tilesDown; ty++ {
			for tx := 0; tx < tilesAcross; tx++ {
				if tileIdx >= len(l.TileOffsets) {
					return nil, 0, 0, errors.Errorf("tiff: expected %d tiles, have %d offsets", planes*tilesPerPlane, len(l.TileOffsets))
				}

				raw, rErr := p.readBlock(l.TileOffsets[tileIdx], n)
				if rErr != nil {
					return nil, 0, 0, errors.Wrapf(rErr, "tiff: read tile %d", tileIdx)
				}
				unpacked := unpackBits(raw, l.BitsPerSample, samplesInTile, l.FillOrder)

				originX := tx * int(l.TileWidth)
				originY := ty * int(l.TileHeight)
				p.scatterTile(out, unpacked, realWidth, realHeight, originX, originY, int(samplesPerPixelPerPlane), plane)

				tileIdx++
			}
		}
	}
	return out, realWidth, realHeight, nil
}

// scatterTile copies a decoded tile's samples into out (sized realWidth x
// realHeight) at (originX, originY). Every tile sample is written, including
// the undefined padding a border tile carries beyond the declared image
// bounds: the realized buffer is tile-padded by construction.
func (p *PixelReader) scatterTile(out []uint32, tile []uint32, realWidth, realHeight, originX, originY, spp, plane int) {
	l := p.layout
	tw := int(l.TileWidth)
	th := int(l.TileHeight)

	rowStride := realWidth * spp
	planeStride := rowStride * realHeight

	for y := 0; y < th; y++ {
		imgY := originY + y
		for x := 0; x < tw; x++ {
			imgX := originX + x
			for c := 0; c < spp; c++ {
				src := (y*tw+x)*spp + c
				dst := plane*planeStride + imgY*rowStride + imgX*spp + c
				out[dst] = tile[src]
			}
		}
	}
}

// readBlock reads n bytes of strip/tile storage at the given absolute
// offset. n is always derived from image geometry (rows/tile dimensions x
// row byte width), never from StripByteCounts/TileByteCounts: those tags
// are advisory only, per spec.
func (p *PixelReader) readBlock(offset uint32, n int) ([]byte, error) {
	if err := p.src.Seek(int64(offset)); err != nil {
		return nil, err
	}
	return p.src.ReadExact(n)
}
