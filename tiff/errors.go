package tiff

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error kinds. Use errors.Is against these; context is
// attached with errors.Wrap/Wrapf as errors propagate up through directory
// traversal, tag decode, and pixel assembly.
var (
	// ErrMalformedHeader reports an unrecognized byte-order signature or a
	// header offset pointing past the end of the stream.
	ErrMalformedHeader = errors.New("tiff: malformed header")

	// ErrUnexpectedEOF reports a read that ran past the end of the stream.
	ErrUnexpectedEOF = errors.New("tiff: unexpected end of stream")

	// ErrTagTypeMismatch reports a caller requesting a logical type
	// incompatible with a tag entry's declared DataType.
	ErrTagTypeMismatch = errors.New("tiff: tag type mismatch")

	// ErrMissingRequiredTag is the base sentinel for MissingRequiredTagError.
	ErrMissingRequiredTag = errors.New("tiff: missing required tag")

	// ErrUnsupportedCompression is the base sentinel for
	// UnsupportedCompressionError. Recoverable: a caller may fall back.
	ErrUnsupportedCompression = errors.New("tiff: unsupported compression")

	// ErrCyclicDirectory reports a sub-IFD chain pointing back at an
	// ancestor or exceeding the traversal depth cap.
	ErrCyclicDirectory = errors.New("tiff: cyclic or too-deep directory chain")
)

// MissingRequiredTagError carries the tag id missing when PixelReader needs
// it.
type MissingRequiredTagError struct {
	Tag TagID
}

func (e *MissingRequiredTagError) Error() string {
	return fmt.Sprintf("tiff: missing required tag %s", e.Tag)
}

func (e *MissingRequiredTagError) Unwrap() error { return ErrMissingRequiredTag }

// UnsupportedCompressionError carries the unsupported compression code.
type UnsupportedCompressionError struct {
	Code uint16
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("tiff: unsupported compression code %d", e.Code)
}

func (e *UnsupportedCompressionError) Unwrap() error { return ErrUnsupportedCompression }
