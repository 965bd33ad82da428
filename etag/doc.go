// Package etag provides entity tags and the content fingerprint used to
// produce them.
//
// A Tag is an immutable value: a weak flag plus an opaque payload. Tags
// produced by this package are always weak and carry the CRC-64 (ECMA) of the
// content rendered as 16 uppercase hex digits.
//
// Fingerprints are computed over a Source, a producer of sequential byte
// chunks. BytesSource and ReaderSource adapt an in-memory buffer and a stream
// to that shape, so the same bytes always yield the same tag regardless of
// how they were chunked.
package etag
