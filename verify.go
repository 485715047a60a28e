package zip

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/hashicorp/go-multierror"

	"github.com/archivecore/zipcore/internal/text"
)

// logNameWidth bounds how many runes of an entry name appear in a verify
// log line.
const logNameWidth = 80

// VerifyOptions customises Archive.VerifyAll.
type VerifyOptions struct {
	// Sink, if non-nil, is called once per member so the caller can
	// capture the decompressed bytes. The returned io.Writer receives
	// exactly entry.UncompSize bytes on success. If nil, bytes are
	// discarded.
	Sink func(Entry) io.Writer

	// Logger receives one line per verified member and one line per
	// failure. Defaults to a logger writing to io.Discard.
	Logger *log.Logger
}

// Archive.VerifyAll decompresses and checksums every member, continuing
// past failures and aggregating them instead of stopping at the first bad
// member. ctx is checked between members, not mid-stream, so an
// in-progress decompression always runs to completion or to its first I/O
// error.
func (a *Archive) VerifyAll(ctx context.Context, optFns ...func(*VerifyOptions)) error {
	opts := &VerifyOptions{
		Logger: log.New(io.Discard, "", 0),
	}
	for _, fn := range optFns {
		fn(opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	var result *multierror.Error

	for _, e := range a.entries {
		select {
		case <-ctx.Done():
			result = multierror.Append(result, ctx.Err())
			return result.ErrorOrNil()
		default:
		}

		sink := io.Writer(io.Discard)
		if opts.Sink != nil {
			sink = opts.Sink(e)
		}

		name := text.TruncateRight(e.Name, logNameWidth, "...")

		if _, err := a.DecompressInto(e, sink); err != nil {
			opts.Logger.Printf("verify %s: FAIL: %v", name, err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", e.Name, err))
			continue
		}

		opts.Logger.Printf("verify %s: OK", name)
	}

	return result.ErrorOrNil()
}
