package tiff_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/brightlab/dngraw/tiff"
	"github.com/stretchr/testify/require"
)

// buildMinimalTIFF assembles a little-endian TIFF stream with one IFD
// carrying ImageWidth/ImageLength/BitsPerSample/SamplesPerPixel as inline
// SHORT entries, exercising the inline-payload rule.
func buildMinimalTIFF(t *testing.T, width, height, bits, samples uint16) []byte {
	t.Helper()
	var buf bytes.Buffer

	binary.Write(&buf, binary.LittleEndian, uint16(0x4949))
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, uint32(8)) // root IFD offset

	type entry struct {
		tag, typ uint16
		count    uint32
		value    uint16
	}
	entries := []entry{
		{0x100, 3, 1, width},
		{0x101, 3, 1, height},
		{0x102, 3, 1, bits},
		{0x115, 3, 1, samples},
	}

	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&buf, binary.LittleEndian, e.tag)
		binary.Write(&buf, binary.LittleEndian, e.typ)
		binary.Write(&buf, binary.LittleEndian, e.count)
		binary.Write(&buf, binary.LittleEndian, e.value)
		binary.Write(&buf, binary.LittleEndian, uint16(0)) // pad to 4 bytes
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // next IFD offset

	return buf.Bytes()
}

func TestParseMinimalTIFFAndInlinePayload(t *testing.T) {
	data := buildMinimalTIFF(t, 64, 32, 8, 3)
	src := tiff.NewReadSeekerSource(bytes.NewReader(data))

	container, err := tiff.Parse(src)
	require.NoError(t, err)
	require.Len(t, container.Root, 1)

	layout, err := tiff.ResolveLayout(container.Root[0], src, container.Order)
	require.NoError(t, err)
	require.EqualValues(t, 64, layout.Width)
	require.EqualValues(t, 32, layout.Height)
	require.EqualValues(t, 8, layout.BitsPerSample)
	require.EqualValues(t, 3, layout.SamplesPerPixel)
}

func TestMissingRequiredTag(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0x4949))
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // zero entries
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	src := tiff.NewReadSeekerSource(bytes.NewReader(buf.Bytes()))
	container, err := tiff.Parse(src)
	require.NoError(t, err)

	_, err = tiff.ResolveLayout(container.Root[0], src, container.Order)
	require.Error(t, err)

	var missing *tiff.MissingRequiredTagError
	require.ErrorAs(t, err, &missing)
}

func TestMalformedHeaderMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0, 0, 0, 0}
	src := tiff.NewReadSeekerSource(bytes.NewReader(data))
	_, err := tiff.Parse(src)
	require.Error(t, err)
	require.ErrorIs(t, err, tiff.ErrMalformedHeader)
}

func TestBigEndianHeader(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint16(0x4D4D))
	binary.Write(&buf, binary.BigEndian, uint16(42))
	binary.Write(&buf, binary.BigEndian, uint32(8))
	binary.Write(&buf, binary.BigEndian, uint16(0))
	binary.Write(&buf, binary.BigEndian, uint32(0))

	src := tiff.NewReadSeekerSource(bytes.NewReader(buf.Bytes()))
	container, err := tiff.Parse(src)
	require.NoError(t, err)
	require.Equal(t, binary.BigEndian, container.Order)
}

// buildStripTIFF assembles a single-strip, single-directory TIFF: one SHORT
// or LONG entry per geometric tag, StripOffsets pointing at stripData placed
// immediately after the directory record.
func buildStripTIFF(t *testing.T, stripData []byte) []byte {
	t.Helper()

	type ent struct {
		tag, typ uint16
		count    uint32
		val      uint32
	}
	entries := []ent{
		{0x100, 3, 1, 2},                      // ImageWidth
		{0x101, 3, 1, 2},                      // ImageLength
		{0x102, 3, 1, 8},                      // BitsPerSample
		{0x103, 3, 1, 1},                      // Compression
		{0x115, 3, 1, 1},                      // SamplesPerPixel
		{0x116, 3, 1, 2},                      // RowsPerStrip
		{0x111, 4, 1, 0},                      // StripOffsets (patched below)
		{0x117, 4, 1, uint32(len(stripData))}, // StripByteCounts
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0x4949))
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))

	stripOffsetSlot := -1
	for _, e := range entries {
		if e.tag == 0x111 {
			stripOffsetSlot = buf.Len() + 8
		}
		binary.Write(&buf, binary.LittleEndian, e.tag)
		binary.Write(&buf, binary.LittleEndian, e.typ)
		binary.Write(&buf, binary.LittleEndian, e.count)
		binary.Write(&buf, binary.LittleEndian, e.val)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // next IFD offset

	stripOffset := uint32(buf.Len())
	buf.Write(stripData)

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[stripOffsetSlot:], stripOffset)
	return out
}

// TestPixelReaderStrips_S1 exercises spec scenario S1: a minimal single-strip
// TIFF unpacks to the exact strip bytes at the declared dimensions.
func TestPixelReaderStrips_S1(t *testing.T) {
	data := buildStripTIFF(t, []byte{10, 20, 30, 40})
	src := tiff.NewReadSeekerSource(bytes.NewReader(data))

	container, err := tiff.Parse(src)
	require.NoError(t, err)
	layout, err := tiff.ResolveLayout(container.Root[0], src, container.Order)
	require.NoError(t, err)
	reader, err := tiff.NewPixelReader(layout, src)
	require.NoError(t, err)

	samples, w, h, err := reader.ReadStrips()
	require.NoError(t, err)
	require.Equal(t, 2, w)
	require.Equal(t, 2, h)
	require.Equal(t, []uint32{10, 20, 30, 40}, samples)
}

// TestPixelReaderTiles_S6 exercises spec scenario S6: width=5, height=3,
// tileWidth=4, tileHeight=2 realizes an 8x4 buffer with tiles placed in
// row-major order.
func TestPixelReaderTiles_S6(t *testing.T) {
	type ent struct {
		tag, typ uint16
		count    uint32
		val      uint32
	}
	entries := []ent{
		{0x100, 3, 1, 5}, // ImageWidth
		{0x101, 3, 1, 3}, // ImageLength
		{0x102, 3, 1, 8}, // BitsPerSample
		{0x103, 3, 1, 1}, // Compression
		{0x115, 3, 1, 1}, // SamplesPerPixel
		{0x142, 3, 1, 4}, // TileWidth
		{0x143, 3, 1, 2}, // TileLength
		{0x144, 4, 4, 0}, // TileOffsets (indirect array, patched below)
	}

	dirSize := 2 + len(entries)*12 + 4
	arraysStart := uint32(8 + dirSize)
	dataStart := arraysStart + 4*4

	tiles := [][]byte{
		{1, 2, 3, 4, 5, 6, 7, 8},
		{11, 12, 13, 14, 15, 16, 17, 18},
		{21, 22, 23, 24, 25, 26, 27, 28},
		{31, 32, 33, 34, 35, 36, 37, 38},
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0x4949))
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&buf, binary.LittleEndian, e.tag)
		binary.Write(&buf, binary.LittleEndian, e.typ)
		binary.Write(&buf, binary.LittleEndian, e.count)
		val := e.val
		if e.tag == 0x144 {
			val = arraysStart
		}
		binary.Write(&buf, binary.LittleEndian, val)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // next IFD offset
	require.EqualValues(t, arraysStart, buf.Len())

	for i := range tiles {
		binary.Write(&buf, binary.LittleEndian, dataStart+uint32(i*8))
	}
	require.EqualValues(t, dataStart, buf.Len())
	for _, tl := range tiles {
		buf.Write(tl)
	}

	src := tiff.NewReadSeekerSource(bytes.NewReader(buf.Bytes()))
	container, err := tiff.Parse(src)
	require.NoError(t, err)
	layout, err := tiff.ResolveLayout(container.Root[0], src, container.Order)
	require.NoError(t, err)
	reader, err := tiff.NewPixelReader(layout, src)
	require.NoError(t, err)

	samples, rw, rh, err := reader.ReadTiles()
	require.NoError(t, err)
	require.Equal(t, 8, rw)
	require.Equal(t, 4, rh)
	require.Len(t, samples, rw*rh)

	require.EqualValues(t, 1, samples[0*rw+0])
	require.EqualValues(t, 11, samples[0*rw+4])
	require.EqualValues(t, 21, samples[2*rw+0])
	require.EqualValues(t, 31, samples[2*rw+4])
}
