package zip

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// walkCentralDirectory reads totalEntries consecutive CDFH records starting
// at cdOffset, returning one Entry per record in on-disk (= insertion)
// order. It does not follow any LFH offset; that happens lazily when a
// member is decompressed.
func walkCentralDirectory(src Source, cdOffset int64, totalEntries int) ([]Entry, error) {
	entries := make([]Entry, 0, totalEntries)

	var (
		sigBuf   = make([]byte, 4)
		fixedBuf = make([]byte, cdfhFixedSize)
		pos      = cdOffset
	)

	for i := 0; i < totalEntries; i++ {
		if n, err := src.ReadAt(sigBuf, pos); err != nil && n < len(sigBuf) {
			return nil, fmt.Errorf("central directory entry %d: %w", i, &TruncatedHeader{Kind: "cdfh", Need: 4, Got: n})
		}
		if sig := binary.LittleEndian.Uint32(sigBuf); sig != sigCDFH {
			return nil, &BadCDFHSignature{Index: i, Got: sig}
		}

		if n, err := src.ReadAt(fixedBuf, pos+4); err != nil && n < len(fixedBuf) {
			return nil, fmt.Errorf("central directory entry %d: %w", i, &TruncatedHeader{Kind: "cdfh", Need: cdfhFixedSize, Got: n})
		}

		var h cdfhRecord
		if err := binary.Read(bytes.NewReader(fixedBuf), binary.LittleEndian, &h); err != nil {
			return nil, fmt.Errorf("central directory entry %d: decode fixed header: %w", i, err)
		}

		n, m, k := int(h.NameLen), int(h.ExtraLen), int(h.CommentLen)
		tail := make([]byte, n+m+k)
		if len(tail) > 0 {
			if got, err := src.ReadAt(tail, pos+4+cdfhFixedSize); err != nil && got < len(tail) {
				return nil, fmt.Errorf("central directory entry %d: %w", i, &TruncatedTail{Kind: "cdfh", Need: len(tail), Got: got})
			}
		}

		name := string(tail[:n])
		var extra []byte
		if m > 0 {
			extra = append([]byte(nil), tail[n:n+m]...)
		}
		comment := string(tail[n+m : n+m+k])

		entry, err := newEntry(h, name, comment, extra, pos)
		if err != nil {
			return nil, fmt.Errorf("central directory entry %d (%q): %w", i, name, err)
		}

		entries = append(entries, entry)
		pos += 4 + cdfhFixedSize + int64(n+m+k)
	}

	return entries, nil
}
