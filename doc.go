// Package zip reads ZIP archives from any seekable, random-access byte
// source. It locates the end of central directory record by scanning
// backward, walks the central directory to build a member index, and
// streams individual members (Stored or DEFLATE) through a verifying
// decompression pipeline.
//
// The package never writes archives, never understands ZIP64, encryption,
// or spanned volumes, and only supports the Stored and DEFLATE compression
// methods. Everything else is left to the caller.
package zip
