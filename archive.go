package zip

import (
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Source is the capability set an archive needs from its underlying byte
// store: random-access reads plus a known length. Both *os.File (via the
// source package's File wrapper) and a ranged S3 GetObject reader satisfy
// it without holding a shared seek cursor, which lets unrelated members be
// decompressed concurrently against the same Archive.
type Source interface {
	io.ReaderAt
	Size() int64
}

const defaultLFHOffsetCacheSize = 256

// Options customises Open.
type Options struct {
	// EOCDWindow bounds how many trailing bytes of the source are scanned
	// for the end of central directory record. Zero selects the largest
	// possible window (a maximal comment plus the fixed EOCD size).
	EOCDWindow int64

	// LFHOffsetCacheSize bounds the number of resolved local file header
	// data offsets kept in memory. Zero selects defaultLFHOffsetCacheSize;
	// a negative value disables the cache.
	LFHOffsetCacheSize int
}

// Archive is an opened ZIP archive: an immutable, insertion-ordered index
// of members plus a borrowed handle to the underlying Source.
type Archive struct {
	src Source

	entries []Entry
	byName  map[string]int

	comment    []byte
	cdOffset   int64
	eocdOffset int64

	lfhOffsets *lru.Cache[string, int64]

	closed bool
}

// Open builds an Archive by locating the EOCD, validating it rejects
// multi-volume archives, and walking the central directory to build the
// member index. On any failure nothing is retained; no Archive is returned.
func Open(src Source, optFns ...func(*Options)) (*Archive, error) {
	opts := &Options{
		LFHOffsetCacheSize: defaultLFHOffsetCacheSize,
	}
	for _, fn := range optFns {
		fn(opts)
	}

	rec, eocdOffset, comment, err := locateEOCD(src, opts.EOCDWindow)
	if err != nil {
		return nil, err
	}

	if rec.DiskNumber != 0 || rec.CDStartDisk != 0 || rec.CDEntriesThisDisk != rec.TotalCDEntries {
		return nil, ErrMultiVolumeUnsupported
	}

	cdOffset := int64(rec.CDOffset)
	if cdOffset+int64(rec.CDSize) > eocdOffset {
		return nil, fmt.Errorf("central directory of size %d at offset %d overruns eocd at %d", rec.CDSize, cdOffset, eocdOffset)
	}

	entries, err := walkCentralDirectory(src, cdOffset, int(rec.TotalCDEntries))
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, dup := byName[e.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		byName[e.Name] = i
	}

	cacheSize := opts.LFHOffsetCacheSize
	if cacheSize == 0 {
		cacheSize = defaultLFHOffsetCacheSize
	}

	var cache *lru.Cache[string, int64]
	if cacheSize > 0 {
		cache, err = lru.New[string, int64](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create local file header offset cache: %w", err)
		}
	}

	return &Archive{
		src:        src,
		entries:    entries,
		byName:     byName,
		comment:    comment,
		cdOffset:   cdOffset,
		eocdOffset: eocdOffset,
		lfhOffsets: cache,
	}, nil
}

// ByName returns the entry registered under name and whether it was found.
func (a *Archive) ByName(name string) (Entry, bool) {
	i, ok := a.byName[name]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// ByIndex returns the entry at ordinal position i, in central directory
// order, and whether i was in range.
func (a *Archive) ByIndex(i int) (Entry, bool) {
	if i < 0 || i >= len(a.entries) {
		return Entry{}, false
	}
	return a.entries[i], true
}

// IndexOf returns the ordinal position of name, if present.
func (a *Archive) IndexOf(name string) (int, bool) {
	i, ok := a.byName[name]
	return i, ok
}

// Count returns the number of members in the archive.
func (a *Archive) Count() int {
	return len(a.entries)
}

// Comment returns the archive-level comment trailing the EOCD record.
func (a *Archive) Comment() []byte {
	return a.comment
}

// Entries returns every member, in central directory order. The returned
// slice must not be modified.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Close releases the archive's in-memory index. It does not close the
// underlying Source, which the caller owns.
func (a *Archive) Close() error {
	a.closed = true
	a.entries = nil
	a.byName = nil
	a.comment = nil
	if a.lfhOffsets != nil {
		a.lfhOffsets.Purge()
	}
	return nil
}

// cachedDataOffset returns the byte offset of an entry's payload, resolving
// and caching it from the local file header on a miss.
func (a *Archive) cachedDataOffset(e Entry) (int64, error) {
	if a.lfhOffsets != nil {
		if off, ok := a.lfhOffsets.Get(e.Name); ok {
			return off, nil
		}
	}

	off, err := resolveDataOffset(a.src, e)
	if err != nil {
		return 0, err
	}

	if a.lfhOffsets != nil {
		a.lfhOffsets.Add(e.Name, off)
	}

	return off, nil
}
