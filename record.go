package zip

const (
	sigEOCD uint32 = 0x06054b50
	sigCDFH uint32 = 0x02014b50
	sigLFH  uint32 = 0x04034b50

	// eocdFixedSize is the EOCD record's size excluding its signature and comment.
	eocdFixedSize = 18
	// cdfhFixedSize is the CDFH record's size excluding its signature and variable tails.
	cdfhFixedSize = 42
	// lfhFixedSize is the LFH record's size excluding its signature and variable tails.
	lfhFixedSize = 26

	// maxCommentLen is the largest value a u16 comment_len field can hold.
	maxCommentLen = 65535
)

// eocdRecord is the fixed-size (18 byte) portion of an end of central
// directory record, following its 4-byte signature.
type eocdRecord struct {
	DiskNumber        uint16
	CDStartDisk       uint16
	CDEntriesThisDisk uint16
	TotalCDEntries    uint16
	CDSize            uint32
	CDOffset          uint32
	CommentLen        uint16
}

// cdfhRecord is the fixed-size (42 byte) portion of a central directory file
// header, following its 4-byte signature.
type cdfhRecord struct {
	MadeByVer  uint16
	ExtractVer uint16
	GPFlag     uint16
	Method     uint16
	ModTime    uint16
	ModDate    uint16
	CRC32      uint32
	CompSize   uint32
	UncompSize uint32
	NameLen    uint16
	ExtraLen   uint16
	CommentLen uint16
	StartDisk  uint16
	IntAttrs   uint16
	ExtAttrs   uint32
	LFHOffset  uint32
}

// lfhRecord is the fixed-size (26 byte) portion of a local file header,
// following its 4-byte signature.
type lfhRecord struct {
	ExtractVer uint16
	GPFlag     uint16
	Method     uint16
	ModTime    uint16
	ModDate    uint16
	CRC32      uint32
	CompSize   uint32
	UncompSize uint32
	NameLen    uint16
	ExtraLen   uint16
}

// dataDescriptorFlag is general-purpose bit 3, which signals that CRC-32 and
// sizes live in a trailing data descriptor instead of the local header.
const dataDescriptorFlag = 1 << 3
