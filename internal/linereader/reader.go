package linereader

import (
	"bytes"
	"errors"
	"slices"
)

// ErrIncomplete is returned when the source doesn't hold enough data to satisfy the call. The
// source is left exactly as it was, so the call may be repeated once more data arrives.
var ErrIncomplete = errors.New("not enough buffered data")

// Source is a byte source of a known size, which supports relative seeking of its read cursor.
// Read must be all-or-nothing, just as ring.Ring's one.
type Source interface {
	Read(data []byte) int
	Seek(offset int) bool
	Size() int
}

// Reader extracts either newline-terminated lines or spans of a known length from the source.
type Reader struct {
	src   Source
	block []byte
	line  []byte
}

// New returns a reader consuming the source in blocks of blockSize bytes while searching for
// line terminators.
func New(src Source, blockSize int) *Reader {
	if blockSize <= 0 {
		blockSize = 64
	}

	return &Reader{
		src:   src,
		block: make([]byte, blockSize),
	}
}

// ReadLine returns bytes preceding the next \n, with a trailing \r stripped. The source's read
// cursor is left right after the \n. If no terminator is buffered, nothing is consumed and
// ErrIncomplete is returned, so the caller must wait for more data instead of getting a partial
// line. The returned slice is valid until the next call.
func (r *Reader) ReadLine() ([]byte, error) {
	r.line = r.line[:0]
	consumed := 0

	for r.src.Size() > 0 {
		block := r.block[:min(len(r.block), r.src.Size())]
		if r.src.Read(block) != len(block) {
			break
		}

		consumed += len(block)

		if lf := bytes.IndexByte(block, '\n'); lf != -1 {
			r.line = append(r.line, block[:lf]...)
			// bring back everything that goes after the newline
			r.src.Seek(lf + 1 - len(block))

			return stripCR(r.line), nil
		}

		r.line = append(r.line, block...)
	}

	r.src.Seek(-consumed)

	return nil, ErrIncomplete
}

// ReadChunk appends exactly n bytes to dst. If fewer bytes are buffered, nothing is consumed.
func (r *Reader) ReadChunk(dst []byte, n int) ([]byte, error) {
	if n == 0 {
		return dst, nil
	}

	if n < 0 || r.src.Size() < n {
		return dst, ErrIncomplete
	}

	dst = slices.Grow(dst, n)
	offset := len(dst)
	dst = dst[:offset+n]
	r.src.Read(dst[offset:])

	return dst, nil
}

// Buffered returns the number of bytes available in the source.
func (r *Reader) Buffered() int {
	return r.src.Size()
}

func stripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}

	return b
}
