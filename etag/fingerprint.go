package etag

import (
	"context"
	"errors"
	"fmt"
	"hash/crc64"
	"io"
)

// ChunkSize is the read size used when fingerprinting streams.
const ChunkSize = 4 << 10

var ecmaTable = crc64.MakeTable(crc64.ECMA)

// Source yields the content to fingerprint as sequential chunks.
//
// Contract:
// - Next returns io.EOF once all content has been produced.
// - Returned slices are only valid until the next call.
type Source interface {
	Next() ([]byte, error)
}

// bytesSource yields a buffer as a single chunk.
type bytesSource struct {
	data []byte
	done bool
}

// BytesSource adapts an in-memory buffer to a Source.
func BytesSource(data []byte) Source {
	return &bytesSource{data: data}
}

func (s *bytesSource) Next() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.data, nil
}

// maxEmptyReads bounds consecutive (0, nil) reads before a stream is
// considered stuck.
const maxEmptyReads = 100

// readerSource yields a stream in chunks of at most ChunkSize bytes.
type readerSource struct {
	r   io.Reader
	buf []byte
}

// ReaderSource adapts a stream to a Source reading ChunkSize bytes at a time.
// A reader that keeps returning no data and no error fails with
// io.ErrNoProgress.
func ReaderSource(r io.Reader) Source {
	return &readerSource{r: r, buf: make([]byte, ChunkSize)}
}

func (s *readerSource) Next() ([]byte, error) {
	for range maxEmptyReads {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			return s.buf[:n], nil
		}
		if err != nil {
			return nil, err
		}
	}
	return nil, io.ErrNoProgress
}

// Compute folds every chunk of src through CRC-64/ECMA and returns a weak tag.
// A read failure is returned as is and no tag is produced.
func Compute(src Source) (*Tag, error) {
	return ComputeContext(context.Background(), src)
}

// ComputeContext is Compute with cancellation checked between chunks.
func ComputeContext(ctx context.Context, src Source) (*Tag, error) {
	tag, _, err := compute(ctx, src)
	return tag, err
}

// ComputeCounted is ComputeContext that also reports how many bytes were
// folded into the checksum.
func ComputeCounted(ctx context.Context, src Source) (*Tag, int64, error) {
	return compute(ctx, src)
}

func compute(ctx context.Context, src Source) (*Tag, int64, error) {
	var crc uint64
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, total, err
		}

		chunk, err := src.Next()
		if len(chunk) > 0 {
			crc = crc64.Update(crc, ecmaTable, chunk)
			total += int64(len(chunk))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, total, err
		}
	}
	return NewWeak(Format(crc)), total, nil
}

// Format renders a checksum as a fixed-width uppercase hex payload.
func Format(sum uint64) string {
	return fmt.Sprintf("%016X", sum)
}

// FromBytes fingerprints an in-memory buffer.
func FromBytes(data []byte) *Tag {
	// bytesSource never fails and a background context is never canceled.
	tag, _ := Compute(BytesSource(data))
	return tag
}

// FromReader fingerprints a stream until EOF.
func FromReader(r io.Reader) (*Tag, error) {
	return Compute(ReaderSource(r))
}

// FromReaderContext fingerprints a stream, aborting when ctx is done.
func FromReaderContext(ctx context.Context, r io.Reader) (*Tag, error) {
	return ComputeContext(ctx, ReaderSource(r))
}
