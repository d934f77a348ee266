package tiff

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// ByteSource abstracts a seekable byte stream yielding bounded reads with
// explicit endianness. Implementations are synchronous and
// blocking, and MUST NOT be shared across goroutines: positioned reads
// mutate the underlying seek cursor.
type ByteSource interface {
	// Seek repositions the stream's cursor to an absolute byte offset.
	Seek(offset int64) error

	// Tell returns the current absolute byte offset of the cursor.
	Tell() (int64, error)

	// ReadExact reads exactly n bytes at the current cursor position,
	// advancing it by n. Returns ErrUnexpectedEOF if fewer remain.
	ReadExact(n int) ([]byte, error)

	ReadU16(order binary.ByteOrder) (uint16, error)
	ReadU32(order binary.ByteOrder) (uint32, error)
	ReadI16(order binary.ByteOrder) (int16, error)
	ReadI32(order binary.ByteOrder) (int32, error)
	ReadF32(order binary.ByteOrder) (float32, error)
	ReadF64(order binary.ByteOrder) (float64, error)
}

// ReadSeekerSource adapts an io.ReadSeeker into a ByteSource. No buffering
// is required of the underlying reader; small reads are amortized with a
// fixed-size scratch buffer reused across calls.
type ReadSeekerSource struct {
	r       io.ReadSeeker
	scratch [8]byte
}

// NewReadSeekerSource wraps r as a ByteSource.
func NewReadSeekerSource(r io.ReadSeeker) *ReadSeekerSource {
	return &ReadSeekerSource{r: r}
}

func (s *ReadSeekerSource) Seek(offset int64) error {
	_, err := s.r.Seek(offset, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "tiff: seek")
	}
	return nil
}

func (s *ReadSeekerSource) Tell() (int64, error) {
	pos, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.Wrap(err, "tiff: tell")
	}
	return pos, nil
}

func (s *ReadSeekerSource) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrapf(ErrUnexpectedEOF, "want %d bytes", n)
		}
		return nil, errors.Wrap(err, "tiff: read")
	}
	return buf, nil
}

func (s *ReadSeekerSource) ReadU16(order binary.ByteOrder) (uint16, error) {
	b := s.scratch[:2]
	if _, err := io.ReadFull(s.r, b); err != nil {
		return 0, errors.Wrap(ErrUnexpectedEOF, "tiff: read u16")
	}
	return order.Uint16(b), nil
}

func (s *ReadSeekerSource) ReadU32(order binary.ByteOrder) (uint32, error) {
	b := s.scratch[:4]
	if _, err := io.ReadFull(s.r, b); err != nil {
		return 0, errors.Wrap(ErrUnexpectedEOF, "tiff: read u32")
	}
	return order.Uint32(b), nil
}

func (s *ReadSeekerSource) ReadI16(order binary.ByteOrder) (int16, error) {
	v, err := s.ReadU16(order)
	return int16(v), err
}

func (s *ReadSeekerSource) ReadI32(order binary.ByteOrder) (int32, error) {
	v, err := s.ReadU32(order)
	return int32(v), err
}

func (s *ReadSeekerSource) ReadF32(order binary.ByteOrder) (float32, error) {
	v, err := s.ReadU32(order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (s *ReadSeekerSource) ReadF64(order binary.ByteOrder) (float64, error) {
	b := s.scratch[:8]
	if _, err := io.ReadFull(s.r, b); err != nil {
		return 0, errors.Wrap(ErrUnexpectedEOF, "tiff: read f64")
	}
	var v uint64
	if order == binary.BigEndian {
		v = binary.BigEndian.Uint64(b)
	} else {
		v = binary.LittleEndian.Uint64(b)
	}
	return math.Float64frombits(v), nil
}
