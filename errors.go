package zip

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

var (
	// ErrTruncatedSource is returned when the source is shorter than the
	// minimum possible EOCD record (22 bytes).
	ErrTruncatedSource = errors.New("source shorter than minimum end of central directory record")

	// ErrEOCDNotFound is returned when no EOCD signature verifies within the
	// trailing search window.
	ErrEOCDNotFound = errors.New("end of central directory not found; most likely not a zip archive")

	// ErrMultiVolumeUnsupported is returned when the EOCD reports a
	// multi-volume (spanned) archive.
	ErrMultiVolumeUnsupported = errors.New("multi-volume archives are not supported")

	// ErrUnsupportedMethod is returned when a member's compression method is
	// neither Stored nor Deflate, or when its central directory header sets
	// the data descriptor flag and records zero for both sizes.
	ErrUnsupportedMethod = errors.New("unsupported compression method")

	// ErrDateTimeRange is returned when a DOS date/time field falls outside
	// the accepted range.
	ErrDateTimeRange = errors.New("dos date/time outside accepted range")

	// ErrDuplicateName is returned by Open when two central directory
	// entries share the same name; no Archive is returned.
	ErrDuplicateName = errors.New("duplicate entry name in central directory")

	// ErrCrcMismatch is returned when a decompressed member's CRC-32 does
	// not match the value recorded in its central directory header.
	ErrCrcMismatch = errors.New("crc-32 mismatch")

	// ErrSizeMismatch is returned when a decompressed member's byte count
	// does not match the uncompressed size recorded in its central
	// directory header.
	ErrSizeMismatch = errors.New("uncompressed size mismatch")

	// ErrBadLFHSignature is returned when the local file header at the
	// expected offset does not begin with the LFH signature.
	ErrBadLFHSignature = errors.New("bad local file header signature")
)

// BadCDFHSignature is returned by the central directory walker when the
// record at ordinal Index does not begin with the CDFH signature.
type BadCDFHSignature struct {
	Index int
	Got   uint32
}

func (e *BadCDFHSignature) Error() string {
	return fmt.Sprintf("central directory file header %d: bad signature 0x%08x", e.Index, e.Got)
}

// TruncatedHeader is returned when a fixed-size record prefix could not be
// read in full.
type TruncatedHeader struct {
	Kind string
	Need int
	Got  int
}

func (e *TruncatedHeader) Error() string {
	return fmt.Sprintf("truncated %s header: need %d bytes, got %d", e.Kind, e.Need, e.Got)
}

// TruncatedTail is returned when a variable-length name/extra/comment tail
// could not be read in full.
type TruncatedTail struct {
	Kind string
	Need int
	Got  int
}

func (e *TruncatedTail) Error() string {
	return fmt.Sprintf("truncated %s tail: need %d bytes, got %d", e.Kind, e.Need, e.Got)
}

// SizeMismatch is returned by the decompression pipeline when the number of
// uncompressed bytes produced does not match the entry's recorded size.
type SizeMismatch struct {
	Expected uint32
	Got      uint32
}

func (e *SizeMismatch) Error() string {
	return fmt.Sprintf("size mismatch: expected %s, got %s", humanize.Bytes(uint64(e.Expected)), humanize.Bytes(uint64(e.Got)))
}

func (e *SizeMismatch) Is(target error) bool {
	return target == ErrSizeMismatch
}

// CrcMismatch is returned by the decompression pipeline when the computed
// CRC-32 of a member's uncompressed bytes does not match the value recorded
// in its central directory header.
type CrcMismatch struct {
	Expected uint32
	Got      uint32
}

func (e *CrcMismatch) Error() string {
	return fmt.Sprintf("crc-32 mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Got)
}

func (e *CrcMismatch) Is(target error) bool {
	return target == ErrCrcMismatch
}
