// Package source provides concrete implementations of the zip.Source
// capability set (random-access reads plus a known length) that never
// touch the core parsing package itself.
package source

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/time/rate"
)

// File adapts an *os.File into a zip.Source. *os.File already implements
// io.ReaderAt directly against the kernel, so this only adds the one-time
// Stat call a zip.Source needs for its length.
type File struct {
	f    *os.File
	size int64
}

// Open opens name and stats it once for File.Size.
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	return &File{f: f, size: fi.Size()}, nil
}

// NewFile wraps an already-open *os.File, using size as its declared
// length instead of calling Stat.
func NewFile(f *os.File, size int64) *File {
	return &File{f: f, size: size}
}

func (s *File) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *File) Size() int64 {
	return s.size
}

// Close closes the underlying *os.File.
func (s *File) Close() error {
	return s.f.Close()
}

// Throttled wraps any zip.Source-shaped reader and rate-limits the bytes
// it returns per second, the same pattern used for S3 part downloads:
// rate.NewLimiter(rate.Limit(bytesPerSecond), burst).
type Throttled struct {
	src     readerAtSizer
	limiter *rate.Limiter
	ctx     context.Context
}

type readerAtSizer interface {
	ReadAt(p []byte, off int64) (int, error)
	Size() int64
}

// NewThrottled wraps src with a token-bucket limiter capped at
// bytesPerSecond, using burst as the bucket size (a reasonable burst is the
// caller's typical read size, e.g. a copy buffer or S3 part size). ctx is
// used for every wait on the limiter; context.Background() is fine for
// callers with no deadline of their own.
func NewThrottled(ctx context.Context, src readerAtSizer, bytesPerSecond int64, burst int) *Throttled {
	return &Throttled{
		src:     src,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
		ctx:     ctx,
	}
}

func (t *Throttled) ReadAt(p []byte, off int64) (int, error) {
	burst := t.limiter.Burst()
	for remaining := len(p); remaining > 0 && burst > 0; {
		n := min(remaining, burst)
		if err := t.limiter.WaitN(t.ctx, n); err != nil {
			return 0, fmt.Errorf("throttled read: %w", err)
		}
		remaining -= n
	}
	return t.src.ReadAt(p, off)
}

func (t *Throttled) Size() int64 {
	return t.src.Size()
}
