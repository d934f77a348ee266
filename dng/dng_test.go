package dng_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/brightlab/dngraw/dng"
	"github.com/brightlab/dngraw/tiff"
	"github.com/stretchr/testify/require"
)

type fixtureEntry struct {
	tag     tiff.TagID
	typ     uint16
	count   uint32
	payload []byte
}

// buildFixture assembles a minimal little-endian TIFF stream with one IFD
// containing entries, placing any payload too large to inline after the
// directory record.
func buildFixture(entries []fixtureEntry) []byte {
	const headerSize = 8
	dirSize := 2 + len(entries)*12 + 4
	overflowStart := uint32(headerSize + dirSize)

	var dirBuf bytes.Buffer
	var overflowBuf bytes.Buffer

	binary.Write(&dirBuf, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&dirBuf, binary.LittleEndian, uint16(e.tag))
		binary.Write(&dirBuf, binary.LittleEndian, e.typ)
		binary.Write(&dirBuf, binary.LittleEndian, e.count)

		if len(e.payload) <= 4 {
			var padded [4]byte
			copy(padded[:], e.payload)
			dirBuf.Write(padded[:])
		} else {
			binary.Write(&dirBuf, binary.LittleEndian, overflowStart+uint32(overflowBuf.Len()))
			overflowBuf.Write(e.payload)
		}
	}
	binary.Write(&dirBuf, binary.LittleEndian, uint32(0))

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, uint16(0x4949))
	binary.Write(&out, binary.LittleEndian, uint16(42))
	binary.Write(&out, binary.LittleEndian, uint32(headerSize))
	out.Write(dirBuf.Bytes())
	out.Write(overflowBuf.Bytes())
	return out.Bytes()
}

func shortPayload(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func sratPayload(pairs [][2]int32) []byte {
	var buf bytes.Buffer
	for _, p := range pairs {
		binary.Write(&buf, binary.LittleEndian, p[0])
		binary.Write(&buf, binary.LittleEndian, p[1])
	}
	return buf.Bytes()
}

func ratPayload(pairs [][2]uint32) []byte {
	var buf bytes.Buffer
	for _, p := range pairs {
		binary.Write(&buf, binary.LittleEndian, p[0])
		binary.Write(&buf, binary.LittleEndian, p[1])
	}
	return buf.Bytes()
}

func TestExtractProjectsColorMatrixAndIlluminant(t *testing.T) {
	identity3x3 := sratPayload([][2]int32{
		{1, 1}, {0, 1}, {0, 1},
		{0, 1}, {1, 1}, {0, 1},
		{0, 1}, {0, 1}, {1, 1},
	})
	neutral := ratPayload([][2]uint32{{1, 1}, {1, 1}, {1, 1}})

	data := buildFixture([]fixtureEntry{
		{0x100, 3, 1, shortPayload(64)},
		{0x101, 3, 1, shortPayload(32)},
		{0x102, 3, 1, shortPayload(8)},
		{0x115, 3, 1, shortPayload(3)},
		{dng.TagCalibrationIllum1, 3, 1, shortPayload(17)}, // -> 2850K
		{dng.TagColorMatrix1, 10, 9, identity3x3},
		{dng.TagAsShotNeutral, 5, 3, neutral},
	})

	src := tiff.NewReadSeekerSource(bytes.NewReader(data))
	container, err := tiff.Parse(src)
	require.NoError(t, err)

	meta, err := dng.Extract(container.Root[0], src, container.Order, 3)
	require.NoError(t, err)

	require.NotNil(t, meta.CalibrationIlluminant1)
	require.InDelta(t, 2850.0, *meta.CalibrationIlluminant1, 1e-9)

	require.NotNil(t, meta.ColorMatrix1)
	require.Equal(t, 3, meta.ColorMatrix1.Rows)
	require.Equal(t, 3, meta.ColorMatrix1.Cols)
	require.InDelta(t, 1.0, meta.ColorMatrix1.At(0, 0), 1e-9)
	require.InDelta(t, 0.0, meta.ColorMatrix1.At(0, 1), 1e-9)

	require.Equal(t, []float64{1, 1, 1}, meta.AsShotNeutral)
	require.Nil(t, meta.ColorMatrix2)
}
