package tiff

import "github.com/pkg/errors"

// Rational is an unsigned TIFF RATIONAL: numerator over denominator.
type Rational struct {
	Num, Den uint32
}

// Float64 returns the rational as a double. A zero denominator yields 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// SRational is a signed TIFF SRATIONAL.
type SRational struct {
	Num, Den int32
}

// Float64 returns the rational as a double. A zero denominator yields 0.
func (r SRational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// TagValue is a tagged-variant payload decoded from a directory entry. It is
// discriminated by Type; exactly one of the typed slices below is
// populated. Callers request a logical type explicitly and get
// ErrTagTypeMismatch on a mismatch rather than a generic interface{} cast,
// avoiding runtime reflection entirely.
type TagValue struct {
	Type  DataType
	Count uint32

	ascii     string
	bytes     []uint8
	sbytes    []int8
	shorts    []uint16
	sshorts   []int16
	longs     []uint32
	slongs    []int32
	rationals []Rational
	srats     []SRational
	floats    []float32
	doubles   []float64
	undefined []uint8
}

// ASCII returns the decoded string (terminating NUL stripped).
func (v *TagValue) ASCII() (string, error) {
	if v.Type != DTASCII {
		return "", errors.Wrapf(ErrTagTypeMismatch, "want ASCII, got %s", v.Type)
	}
	return v.ascii, nil
}

// Bytes returns the decoded BYTE elements.
func (v *TagValue) Bytes() ([]uint8, error) {
	if v.Type != DTByte {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want BYTE, got %s", v.Type)
	}
	return v.bytes, nil
}

// SBytes returns the decoded SBYTE elements.
func (v *TagValue) SBytes() ([]int8, error) {
	if v.Type != DTSByte {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want SBYTE, got %s", v.Type)
	}
	return v.sbytes, nil
}

// Undefined returns the raw UNDEFINED bytes.
func (v *TagValue) Undefined() ([]uint8, error) {
	if v.Type != DTUndefined {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want UNDEFINED, got %s", v.Type)
	}
	return v.undefined, nil
}

// Shorts returns the decoded SHORT elements.
func (v *TagValue) Shorts() ([]uint16, error) {
	if v.Type != DTShort {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want SHORT, got %s", v.Type)
	}
	return v.shorts, nil
}

// SShorts returns the decoded SSHORT elements.
func (v *TagValue) SShorts() ([]int16, error) {
	if v.Type != DTSShort {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want SSHORT, got %s", v.Type)
	}
	return v.sshorts, nil
}

// Longs returns the decoded LONG elements.
func (v *TagValue) Longs() ([]uint32, error) {
	if v.Type != DTLong {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want LONG, got %s", v.Type)
	}
	return v.longs, nil
}

// SLongs returns the decoded SLONG elements.
func (v *TagValue) SLongs() ([]int32, error) {
	if v.Type != DTSLong {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want SLONG, got %s", v.Type)
	}
	return v.slongs, nil
}

// Rationals returns the decoded RATIONAL pairs.
func (v *TagValue) Rationals() ([]Rational, error) {
	if v.Type != DTRational {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want RATIONAL, got %s", v.Type)
	}
	return v.rationals, nil
}

// SRationals returns the decoded SRATIONAL pairs.
func (v *TagValue) SRationals() ([]SRational, error) {
	if v.Type != DTSRational {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want SRATIONAL, got %s", v.Type)
	}
	return v.srats, nil
}

// Floats returns the decoded FLOAT elements.
func (v *TagValue) Floats() ([]float32, error) {
	if v.Type != DTFloat {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want FLOAT, got %s", v.Type)
	}
	return v.floats, nil
}

// Doubles returns the decoded DOUBLE elements.
func (v *TagValue) Doubles() ([]float64, error) {
	if v.Type != DTDouble {
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want DOUBLE, got %s", v.Type)
	}
	return v.doubles, nil
}

// AsUint64s is a convenience widening accessor over whichever of SHORT/LONG
// the entry actually declared — several TIFF tags (ImageWidth, RowsPerStrip,
// StripOffsets, ...) are legally encoded as either.
func (v *TagValue) AsUint64s() ([]uint64, error) {
	switch v.Type {
	case DTShort:
		out := make([]uint64, len(v.shorts))
		for i, s := range v.shorts {
			out[i] = uint64(s)
		}
		return out, nil
	case DTLong:
		out := make([]uint64, len(v.longs))
		for i, l := range v.longs {
			out[i] = uint64(l)
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrTagTypeMismatch, "want SHORT or LONG, got %s", v.Type)
	}
}

// AsFloat64s widens every element of a numeric tag (any integer, RATIONAL,
// SRATIONAL, or floating type) to float64. Used by DNG projection of
// SRATIONAL matrices, RATIONAL vectors, and the BlackLevel/WhiteLevel lists.
func (v *TagValue) AsFloat64s() ([]float64, error) {
	switch v.Type {
	case DTByte:
		out := make([]float64, len(v.bytes))
		for i, b := range v.bytes {
			out[i] = float64(b)
		}
		return out, nil
	case DTSByte:
		out := make([]float64, len(v.sbytes))
		for i, b := range v.sbytes {
			out[i] = float64(b)
		}
		return out, nil
	case DTShort:
		out := make([]float64, len(v.shorts))
		for i, s := range v.shorts {
			out[i] = float64(s)
		}
		return out, nil
	case DTSShort:
		out := make([]float64, len(v.sshorts))
		for i, s := range v.sshorts {
			out[i] = float64(s)
		}
		return out, nil
	case DTLong:
		out := make([]float64, len(v.longs))
		for i, l := range v.longs {
			out[i] = float64(l)
		}
		return out, nil
	case DTSLong:
		out := make([]float64, len(v.slongs))
		for i, l := range v.slongs {
			out[i] = float64(l)
		}
		return out, nil
	case DTRational:
		out := make([]float64, len(v.rationals))
		for i, r := range v.rationals {
			out[i] = r.Float64()
		}
		return out, nil
	case DTSRational:
		out := make([]float64, len(v.srats))
		for i, r := range v.srats {
			out[i] = r.Float64()
		}
		return out, nil
	case DTFloat:
		out := make([]float64, len(v.floats))
		for i, f := range v.floats {
			out[i] = float64(f)
		}
		return out, nil
	case DTDouble:
		return v.doubles, nil
	default:
		return nil, errors.Wrapf(ErrTagTypeMismatch, "no numeric projection for %s", v.Type)
	}
}
