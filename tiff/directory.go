package tiff

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// maxDirectoryDepth caps both the number of directories in one chain and the
// nesting depth of sub-IFD recursion in FindBySubfileType.
const maxDirectoryDepth = 32

// Directory is one TIFF image file directory: an ordered collection of
// TagEntry values indexed by TagID, plus the offset of the next directory
// in its chain (0 terminates the chain).
type Directory struct {
	Entries    map[TagID]TagEntry
	NextOffset uint32
}

// Get returns the entry for tag, if present.
func (d Directory) Get(tag TagID) (TagEntry, bool) {
	e, ok := d.Entries[tag]
	return e, ok
}

// Decode looks up tag and decodes its payload, or returns ok=false if the
// tag is absent. A present-but-undecodable tag (e.g. a stream read failure)
// returns a non-nil error.
func (d Directory) Decode(src ByteSource, order binary.ByteOrder, tag TagID) (v *TagValue, ok bool, err error) {
	e, found := d.Get(tag)
	if !found {
		return nil, false, nil
	}
	v, err = e.Decode(src, order)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// parseDirectory reads one directory record at the stream's current
// position: a 16-bit entry count, that many 12-byte entries, then a 32-bit
// next-offset, all in the given byte order.
func parseDirectory(src ByteSource, order binary.ByteOrder) (Directory, error) {
	count, err := src.ReadU16(order)
	if err != nil {
		return Directory{}, errors.Wrap(err, "tiff: read directory entry count")
	}

	entries := make(map[TagID]TagEntry, count)
	for i := uint16(0); i < count; i++ {
		entry, err := parseTagEntry(src, order)
		if err != nil {
			return Directory{}, errors.Wrapf(err, "tiff: read directory entry %d/%d", i, count)
		}
		// Duplicate tags within one directory are not expected;
		// last-write-wins if encountered.
		entries[entry.Tag] = entry
	}

	next, err := src.ReadU32(order)
	if err != nil {
		return Directory{}, errors.Wrap(err, "tiff: read directory next-offset")
	}

	return Directory{Entries: entries, NextOffset: next}, nil
}

// parseDirectoryChain walks a directory chain starting at offset until
// NextOffset is 0, guarding against cycles and excessive depth.
func parseDirectoryChain(src ByteSource, order binary.ByteOrder, offset uint32, visited map[uint32]bool) ([]Directory, error) {
	var chain []Directory
	for offset != 0 {
		if len(chain) >= maxDirectoryDepth {
			return nil, errors.Wrapf(ErrCyclicDirectory, "chain exceeds %d directories", maxDirectoryDepth)
		}
		if visited[offset] {
			return nil, errors.Wrapf(ErrCyclicDirectory, "offset %d already visited", offset)
		}
		visited[offset] = true

		if err := src.Seek(int64(offset)); err != nil {
			return nil, errors.Wrapf(err, "tiff: seek to directory at %d", offset)
		}
		dir, err := parseDirectory(src, order)
		if err != nil {
			return nil, err
		}
		chain = append(chain, dir)
		offset = dir.NextOffset
	}
	return chain, nil
}

// SubDirectoryChains returns the directory chains reachable from this
// directory's SubIFDs tag (0x14A), one chain per offset the tag carries.
// Returns nil, nil if the directory has no SubIFDs tag.
func (d Directory) SubDirectoryChains(src ByteSource, order binary.ByteOrder) ([][]Directory, error) {
	entry, ok := d.Get(TagSubIFDs)
	if !ok {
		return nil, nil
	}
	offsets, err := entry.offsets(src, order)
	if err != nil {
		return nil, errors.Wrap(err, "tiff: decode SubIFDs offsets")
	}

	chains := make([][]Directory, 0, len(offsets))
	for _, off := range offsets {
		chain, err := parseDirectoryChain(src, order, off, map[uint32]bool{})
		if err != nil {
			return nil, errors.Wrapf(err, "tiff: walk sub-IFD chain at %d", off)
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

// FindBySubfileType performs a depth-first search over root and its
// SubIFDs, returning the first directory whose NewSubfileType (tag 0xFE)
// equals value. The raw pixels of a DNG are typically located by
// FindBySubfileType(root, 0).
func FindBySubfileType(root []Directory, src ByteSource, order binary.ByteOrder, value uint32) (*Directory, error) {
	return findBySubfileType(root, src, order, value, 0)
}

func findBySubfileType(root []Directory, src ByteSource, order binary.ByteOrder, value uint32, depth int) (*Directory, error) {
	if depth > maxDirectoryDepth {
		return nil, errors.Wrapf(ErrCyclicDirectory, "sub-IFD nesting exceeds %d levels", maxDirectoryDepth)
	}
	for i := range root {
		dir := root[i]
		if entry, ok := dir.Get(TagNewSubfileType); ok {
			v, err := entry.Decode(src, order)
			if err != nil {
				return nil, err
			}
			nums, err := v.AsUint64s()
			if err != nil {
				return nil, err
			}
			if len(nums) > 0 && nums[0] == uint64(value) {
				return &dir, nil
			}
		}

		chains, err := dir.SubDirectoryChains(src, order)
		if err != nil {
			return nil, err
		}
		for _, chain := range chains {
			if found, err := findBySubfileType(chain, src, order, value, depth+1); err != nil {
				return nil, err
			} else if found != nil {
				return found, nil
			}
		}
	}
	return nil, nil
}
