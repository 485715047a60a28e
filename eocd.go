package zip

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/valyala/bytebufferpool"
)

// defaultEOCDWindow is the largest possible EOCD record: an 18-byte fixed
// tail plus the maximum comment length, plus the 4-byte signature.
const defaultEOCDWindow = int64(4 + eocdFixedSize + maxCommentLen)

// eocdChunkSize is the size of each backward read while scanning for the
// EOCD signature.
const eocdChunkSize = 4 * 1024

var eocdSigBytes = leBytes(sigEOCD)

func leBytes(sig uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, sig)
	return b
}

// locateEOCD scans backward from the end of src for the end of central
// directory record, preferring the last (rightmost) signature that verifies
// against the source's length. window bounds how many trailing bytes are
// considered; 0 selects defaultEOCDWindow.
func locateEOCD(src Source, window int64) (rec eocdRecord, absOffset int64, comment []byte, err error) {
	size := src.Size()
	if size < 4+eocdFixedSize {
		return eocdRecord{}, 0, nil, ErrTruncatedSource
	}

	if window <= 0 || window > defaultEOCDWindow {
		window = defaultEOCDWindow
	}
	if window > size {
		window = size
	}

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	buf := make([]byte, eocdChunkSize)
	pos := size
	scanned := int64(0)

	for {
		readLen := int64(eocdChunkSize)
		if remaining := window - scanned; remaining < readLen {
			readLen = remaining
		}
		if readLen > pos {
			readLen = pos
		}
		if readLen <= 0 {
			break
		}

		start := pos - readLen
		n, rerr := src.ReadAt(buf[:readLen], start)
		if rerr != nil && int64(n) < readLen {
			return eocdRecord{}, 0, nil, fmt.Errorf("scan for eocd: read error: %w", rerr)
		}

		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		bb.B = append(chunk, bb.B...)
		scanned += int64(n)
		pos = start

		for {
			idx := bytes.LastIndex(bb.B, eocdSigBytes)
			if idx == -1 {
				break
			}

			abs := start + int64(idx)
			if r, c, verr := verifyEOCDAt(src, abs, size); verr == nil {
				return r, abs, c, nil
			}

			bb.B = bb.B[:idx]
		}

		if pos == 0 || scanned >= window {
			break
		}
	}

	return eocdRecord{}, 0, nil, ErrEOCDNotFound
}

// verifyEOCDAt decodes the 18-byte fixed tail following the signature at
// abs and confirms the declared comment length reaches exactly to the end
// of the source, the only way to distinguish a real EOCD from a signature
// that happens to appear inside an earlier comment.
func verifyEOCDAt(src Source, abs, size int64) (eocdRecord, []byte, error) {
	fixed := make([]byte, eocdFixedSize)
	if n, err := src.ReadAt(fixed, abs+4); err != nil && n < eocdFixedSize {
		return eocdRecord{}, nil, fmt.Errorf("read eocd fixed header: %w", err)
	}

	var rec eocdRecord
	if err := binary.Read(bytes.NewReader(fixed), binary.LittleEndian, &rec); err != nil {
		return eocdRecord{}, nil, fmt.Errorf("decode eocd fixed header: %w", err)
	}

	end := abs + 4 + eocdFixedSize + int64(rec.CommentLen)
	if end != size {
		return eocdRecord{}, nil, fmt.Errorf("eocd comment length %d does not reach end of source (off by %d)", rec.CommentLen, size-end)
	}

	comment := make([]byte, rec.CommentLen)
	if rec.CommentLen > 0 {
		if n, err := src.ReadAt(comment, abs+4+eocdFixedSize); err != nil && int64(n) < int64(rec.CommentLen) {
			return eocdRecord{}, nil, fmt.Errorf("read eocd comment: %w", err)
		}
	}

	return rec, comment, nil
}
