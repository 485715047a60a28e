package zip

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// copyBufferSize is the chunk size used both for the Stored pass-through
// and for draining a DEFLATE decoder's output.
const copyBufferSize = 4 * 1024

// resolveDataOffset reads and validates the local file header at
// e.LFHOffset and returns the absolute offset of the member's payload,
// which starts after the LFH's own name and extra tails (these may
// legitimately differ in length from the CDFH's).
func resolveDataOffset(src Source, e Entry) (int64, error) {
	sigBuf := make([]byte, 4)
	if n, err := src.ReadAt(sigBuf, e.LFHOffset); err != nil && n < len(sigBuf) {
		return 0, fmt.Errorf("local file header for %q: %w", e.Name, &TruncatedHeader{Kind: "lfh", Need: 4, Got: n})
	}
	if sig := binary.LittleEndian.Uint32(sigBuf); sig != sigLFH {
		return 0, fmt.Errorf("local file header for %q at offset %d: %w", e.Name, e.LFHOffset, ErrBadLFHSignature)
	}

	fixedBuf := make([]byte, lfhFixedSize)
	if n, err := src.ReadAt(fixedBuf, e.LFHOffset+4); err != nil && n < len(fixedBuf) {
		return 0, fmt.Errorf("local file header for %q: %w", e.Name, &TruncatedHeader{Kind: "lfh", Need: lfhFixedSize, Got: n})
	}

	var h lfhRecord
	if err := binary.Read(bytes.NewReader(fixedBuf), binary.LittleEndian, &h); err != nil {
		return 0, fmt.Errorf("local file header for %q: decode fixed header: %w", e.Name, err)
	}

	return e.LFHOffset + 4 + int64(lfhFixedSize) + int64(h.NameLen) + int64(h.ExtraLen), nil
}

// checksumWriter tees bytes written to it through a CRC-32 and a running
// byte count before forwarding them to the wrapped sink.
type checksumWriter struct {
	sink io.Writer
	crc  hash.Hash32
	n    int64
}

func (w *checksumWriter) Write(p []byte) (int, error) {
	n, err := w.sink.Write(p)
	if n > 0 {
		w.crc.Write(p[:n])
		w.n += int64(n)
	}
	return n, err
}

// DecompressInto streams entry's payload from src through the Stored or
// Deflate pipeline into sink, verifying the resulting byte count and
// CRC-32 against the values recorded in the central directory. It returns
// the computed CRC-32 on success.
func DecompressInto(src Source, e Entry, sink io.Writer) (uint32, error) {
	dataOffset, err := resolveDataOffset(src, e)
	if err != nil {
		return 0, err
	}

	bounded := io.NewSectionReader(src, dataOffset, int64(e.CompSize))
	return decompressFrom(bounded, e, sink)
}

// DecompressInto resolves e's data offset through the archive's cache
// before streaming it to sink.
func (a *Archive) DecompressInto(e Entry, sink io.Writer) (uint32, error) {
	off, err := a.cachedDataOffset(e)
	if err != nil {
		return 0, err
	}

	bounded := io.NewSectionReader(a.src, off, int64(e.CompSize))
	return decompressFrom(bounded, e, sink)
}

// decompressFrom runs the verifying decompression pipeline over an
// already-bounded reader positioned at the start of entry's payload.
func decompressFrom(bounded io.Reader, e Entry, sink io.Writer) (uint32, error) {
	cw := &checksumWriter{sink: sink, crc: crc32.NewIEEE()}

	switch e.Method {
	case Stored:
		if _, err := io.CopyBuffer(cw, bounded, make([]byte, copyBufferSize)); err != nil {
			return 0, fmt.Errorf("decompress %q: %w", e.Name, err)
		}
	case Deflate:
		fr := flate.NewReader(bounded)
		defer fr.Close()
		if _, err := io.CopyBuffer(cw, fr, make([]byte, copyBufferSize)); err != nil {
			return 0, fmt.Errorf("decompress %q: %w", e.Name, err)
		}
	default:
		return 0, fmt.Errorf("decompress %q: %w", e.Name, ErrUnsupportedMethod)
	}

	if got := uint32(cw.n); got != e.UncompSize {
		return 0, fmt.Errorf("decompress %q: %w", e.Name, &SizeMismatch{Expected: e.UncompSize, Got: got})
	}

	if got := cw.crc.Sum32(); got != e.CRC32 {
		return got, fmt.Errorf("decompress %q: %w", e.Name, &CrcMismatch{Expected: e.CRC32, Got: got})
	}

	return cw.crc.Sum32(), nil
}
