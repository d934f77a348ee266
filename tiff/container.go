package tiff

import (
	"encoding/binary"

	"github.com/brightlab/dngraw/internal/rawlog"
	"github.com/pkg/errors"
)

// Container is a parsed TIFF file: its detected byte order and the chain of
// directories reachable from the header's root-directory offset.
//
// A Container owns nothing of the underlying byte source — directory
// entries carry offsets, and every typed read re-seeks, so a caller may
// discard the source and reopen it later for pixel reads as long as the
// backing bytes are identical.
type Container struct {
	Order binary.ByteOrder
	Root  []Directory
}

// Parse detects endianness from the stream header and walks the root
// directory chain.
func Parse(src ByteSource) (*Container, error) {
	order, rootOffset, err := parseHeader(src)
	if err != nil {
		return nil, err
	}

	root, err := parseDirectoryChain(src, order, rootOffset, map[uint32]bool{})
	if err != nil {
		return nil, errors.Wrap(err, "tiff: walk root directory chain")
	}

	return &Container{Order: order, Root: root}, nil
}

// parseHeader reads the 8-byte TIFF header: byte-order magic, version
// identifier, and root directory offset.
func parseHeader(src ByteSource) (binary.ByteOrder, uint32, error) {
	if err := src.Seek(0); err != nil {
		return nil, 0, err
	}

	magic, err := src.ReadU16(binary.BigEndian)
	if err != nil {
		return nil, 0, errors.Wrap(ErrMalformedHeader, "tiff: read byte-order magic")
	}

	var order binary.ByteOrder
	switch magic {
	case magicLittleEndian:
		order = binary.LittleEndian
	case magicBigEndian:
		order = binary.BigEndian
	default:
		return nil, 0, errors.Wrapf(ErrMalformedHeader, "unrecognized byte-order magic 0x%04X", magic)
	}

	version, err := src.ReadU16(order)
	if err != nil {
		return nil, 0, errors.Wrap(err, "tiff: read version identifier")
	}
	if version != tiffVersion {
		// Permissive parsing: a wrong version identifier is logged, not
		// fatal — plenty of real-world files carry stray values here.
		rawlog.Info.Printf("tiff: unexpected version identifier %d (want %d)", version, tiffVersion)
	}

	offset, err := src.ReadU32(order)
	if err != nil {
		return nil, 0, errors.Wrap(err, "tiff: read root directory offset")
	}

	// A root offset past the end of the stream is a header fault: probe the
	// directory's entry count there before handing the offset on.
	if offset != 0 {
		if err := src.Seek(int64(offset)); err != nil {
			return nil, 0, errors.Wrapf(ErrMalformedHeader, "seek to root directory offset %d", offset)
		}
		if _, err := src.ReadU16(order); err != nil {
			return nil, 0, errors.Wrapf(ErrMalformedHeader, "root directory offset %d is past the end of the stream", offset)
		}
	}

	return order, offset, nil
}
