package tiff

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// entryRecordSize is the fixed on-disk size of one IFD entry: tag(2) +
// type(2) + count(4) + valueOrOffset(4).
const entryRecordSize = 12

// TagEntry is a single directory entry, normalized so Offset always holds
// the absolute stream offset at which its Count*Type.Size() payload bytes
// reside — for inline entries (payload <= 4 bytes) this is the offset of
// the entry's own valueOrOffset slot within the directory record, not a
// dereference of its numeric contents.
type TagEntry struct {
	Tag    TagID
	Type   DataType
	Count  uint32
	Offset uint32
}

// totalBytes is the payload size in bytes.
func (e TagEntry) totalBytes() uint32 {
	return e.Count * e.Type.Size()
}

// parseTagEntry reads one 12-byte directory entry at the stream's current
// position and normalizes its offset per the inline-payload rule.
func parseTagEntry(src ByteSource, order binary.ByteOrder) (TagEntry, error) {
	tagNum, err := src.ReadU16(order)
	if err != nil {
		return TagEntry{}, errors.Wrap(err, "tiff: read entry tag")
	}
	typeNum, err := src.ReadU16(order)
	if err != nil {
		return TagEntry{}, errors.Wrap(err, "tiff: read entry type")
	}
	count, err := src.ReadU32(order)
	if err != nil {
		return TagEntry{}, errors.Wrap(err, "tiff: read entry count")
	}

	// The valueOrOffset field occupies the next 4 bytes. Record its slot
	// offset before consuming it: an inline payload lives right here.
	slotOffset, err := src.Tell()
	if err != nil {
		return TagEntry{}, err
	}
	rawValue, err := src.ReadU32(order)
	if err != nil {
		return TagEntry{}, errors.Wrap(err, "tiff: read entry value/offset")
	}

	entry := TagEntry{
		Tag:   TagID(tagNum),
		Type:  DataType(typeNum),
		Count: count,
	}
	if entry.totalBytes() <= 4 {
		entry.Offset = uint32(slotOffset)
	} else {
		entry.Offset = rawValue
	}
	return entry, nil
}

// Decode reads and decodes this entry's payload from src. The returned
// TagValue's typed accessors (ASCII, Shorts, Rationals, ...) reject any
// logical type other than the one this entry actually declared.
func (e TagEntry) Decode(src ByteSource, order binary.ByteOrder) (*TagValue, error) {
	if e.Type.Size() == 0 {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "unrecognized tag data type %d for tag %s", uint16(e.Type), e.Tag)
	}
	if err := src.Seek(int64(e.Offset)); err != nil {
		return nil, errors.Wrapf(err, "tiff: seek to tag %s payload", e.Tag)
	}

	v := &TagValue{Type: e.Type, Count: e.Count}
	n := int(e.Count)

	switch e.Type {
	case DTASCII:
		raw, err := src.ReadExact(n)
		if err != nil {
			return nil, err
		}
		v.ascii = stripTrailingNUL(raw)

	case DTByte:
		raw, err := src.ReadExact(n)
		if err != nil {
			return nil, err
		}
		v.bytes = raw

	case DTSByte:
		raw, err := src.ReadExact(n)
		if err != nil {
			return nil, err
		}
		out := make([]int8, n)
		for i, b := range raw {
			out[i] = int8(b)
		}
		v.sbytes = out

	case DTUndefined:
		raw, err := src.ReadExact(n)
		if err != nil {
			return nil, err
		}
		v.undefined = raw

	case DTShort:
		out := make([]uint16, n)
		for i := range out {
			u, err := src.ReadU16(order)
			if err != nil {
				return nil, err
			}
			out[i] = u
		}
		v.shorts = out

	case DTSShort:
		out := make([]int16, n)
		for i := range out {
			u, err := src.ReadI16(order)
			if err != nil {
				return nil, err
			}
			out[i] = u
		}
		v.sshorts = out

	case DTLong:
		out := make([]uint32, n)
		for i := range out {
			u, err := src.ReadU32(order)
			if err != nil {
				return nil, err
			}
			out[i] = u
		}
		v.longs = out

	case DTSLong:
		out := make([]int32, n)
		for i := range out {
			u, err := src.ReadI32(order)
			if err != nil {
				return nil, err
			}
			out[i] = u
		}
		v.slongs = out

	case DTRational:
		out := make([]Rational, n)
		for i := range out {
			num, err := src.ReadU32(order)
			if err != nil {
				return nil, err
			}
			den, err := src.ReadU32(order)
			if err != nil {
				return nil, err
			}
			out[i] = Rational{Num: num, Den: den}
		}
		v.rationals = out

	case DTSRational:
		out := make([]SRational, n)
		for i := range out {
			num, err := src.ReadI32(order)
			if err != nil {
				return nil, err
			}
			den, err := src.ReadI32(order)
			if err != nil {
				return nil, err
			}
			out[i] = SRational{Num: num, Den: den}
		}
		v.srats = out

	case DTFloat:
		out := make([]float32, n)
		for i := range out {
			f, err := src.ReadF32(order)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		v.floats = out

	case DTDouble:
		out := make([]float64, n)
		for i := range out {
			f, err := src.ReadF64(order)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		v.doubles = out

	default:
		return nil, errors.Wrapf(ErrTagTypeMismatch, "unsupported tag data type %s", e.Type)
	}

	return v, nil
}

// offsets interprets this entry's payload as one or more absolute stream
// offsets, as required for SubIFDs chasing. LONG is the usual encoding;
// SHORT is also accepted. Any other type is a type mismatch.
func (e TagEntry) offsets(src ByteSource, order binary.ByteOrder) ([]uint32, error) {
	v, err := e.Decode(src, order)
	if err != nil {
		return nil, err
	}
	switch e.Type {
	case DTLong:
		return v.longs, nil
	case DTShort:
		out := make([]uint32, len(v.shorts))
		for i, s := range v.shorts {
			out[i] = uint32(s)
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrTagTypeMismatch, "cannot interpret %s as directory offsets", e.Type)
	}
}

func stripTrailingNUL(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}
