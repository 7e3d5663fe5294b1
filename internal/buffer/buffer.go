package buffer

// Buffer is an arena for byte sequences which share a lifetime, e.g. header lines of a single
// request. Sequences are appended one by one and retrieved via Finish. The total size is
// capped: an append that would exceed it is rejected entirely.
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data into the current segment, unless it would overflow the limit.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// SegmentLength returns the number of bytes in the current (unfinished) segment.
func (b *Buffer) SegmentLength() int {
	return len(b.memory) - b.begin
}

// Len returns the number of bytes occupied by all the segments.
func (b *Buffer) Len() int {
	return len(b.memory)
}

// Finish completes current segment, returning its value. Segments stay valid until Clear,
// even if the arena grows afterward.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:len(b.memory):len(b.memory)]
	b.begin = len(b.memory)

	return segment
}

// Clear just resets the pointers, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
