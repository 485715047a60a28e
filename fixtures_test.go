package zip

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"hash/crc32"
	"testing"
)

// memberSpec describes one member to embed in a hand-built test archive.
type memberSpec struct {
	name    string
	data    []byte
	method  Method
	extra   []byte
	comment string
}

// buildZip assembles a byte-exact ZIP archive (LFH+payload per member,
// followed by the central directory and EOCD) for use as an in-memory test
// fixture. modTime/modDate default to a fixed, valid DOS timestamp.
func buildZip(t *testing.T, comment []byte, members []memberSpec) []byte {
	t.Helper()

	const modTime, modDate = 0x6000, 0x0021 // 12:00:00, 1980-01-01

	var (
		buf      bytes.Buffer
		offsets  = make([]int64, len(members))
		compData = make([][]byte, len(members))
		crcs     = make([]uint32, len(members))
	)

	for i, m := range members {
		crcs[i] = crc32.ChecksumIEEE(m.data)

		switch m.method {
		case Stored:
			compData[i] = m.data
		case Deflate:
			var cbuf bytes.Buffer
			fw, err := flate.NewWriter(&cbuf, flate.DefaultCompression)
			if err != nil {
				t.Fatalf("flate.NewWriter: %v", err)
			}
			if _, err := fw.Write(m.data); err != nil {
				t.Fatalf("flate write: %v", err)
			}
			if err := fw.Close(); err != nil {
				t.Fatalf("flate close: %v", err)
			}
			compData[i] = cbuf.Bytes()
		default:
			t.Fatalf("unsupported test method %v", m.method)
		}
	}

	for i, m := range members {
		offsets[i] = int64(buf.Len())

		writeUint32(&buf, sigLFH)
		mustWrite(t, &buf, lfhRecord{
			ExtractVer: 20,
			GPFlag:     0,
			Method:     uint16(m.method),
			ModTime:    modTime,
			ModDate:    modDate,
			CRC32:      crcs[i],
			CompSize:   uint32(len(compData[i])),
			UncompSize: uint32(len(m.data)),
			NameLen:    uint16(len(m.name)),
			ExtraLen:   uint16(len(m.extra)),
		})
		buf.WriteString(m.name)
		buf.Write(m.extra)
		buf.Write(compData[i])
	}

	cdStart := int64(buf.Len())

	for i, m := range members {
		extAttrs := uint32(0)
		if len(m.name) > 0 && m.name[len(m.name)-1] == '/' {
			extAttrs = 0x10
		}

		writeUint32(&buf, sigCDFH)
		mustWrite(t, &buf, cdfhRecord{
			MadeByVer:  3 << 8,
			ExtractVer: 20,
			GPFlag:     0,
			Method:     uint16(m.method),
			ModTime:    modTime,
			ModDate:    modDate,
			CRC32:      crcs[i],
			CompSize:   uint32(len(compData[i])),
			UncompSize: uint32(len(m.data)),
			NameLen:    uint16(len(m.name)),
			ExtraLen:   uint16(len(m.extra)),
			CommentLen: uint16(len(m.comment)),
			StartDisk:  0,
			IntAttrs:   0,
			ExtAttrs:   extAttrs,
			LFHOffset:  uint32(offsets[i]),
		})
		buf.WriteString(m.name)
		buf.Write(m.extra)
		buf.WriteString(m.comment)
	}

	cdSize := int64(buf.Len()) - cdStart

	writeUint32(&buf, sigEOCD)
	mustWrite(t, &buf, eocdRecord{
		DiskNumber:        0,
		CDStartDisk:       0,
		CDEntriesThisDisk: uint16(len(members)),
		TotalCDEntries:    uint16(len(members)),
		CDSize:            uint32(cdSize),
		CDOffset:          uint32(cdStart),
		CommentLen:        uint16(len(comment)),
	})
	buf.Write(comment)

	return buf.Bytes()
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func mustWrite(t *testing.T, buf *bytes.Buffer, v any) {
	t.Helper()
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		t.Fatalf("binary.Write: %v", err)
	}
}

// byteSource is the simplest possible Source: an in-memory byte slice.
type byteSource []byte

func (s byteSource) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(s).ReadAt(p, off)
}

func (s byteSource) Size() int64 {
	return int64(len(s))
}
