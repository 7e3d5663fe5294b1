package ring

// Ring is a fixed-capacity circular byte buffer with independent read (tail) and write (head)
// cursors. Both writes and reads are all-or-nothing: a call that can't be satisfied completely
// leaves the buffer intact and returns zero. This is what provides the backpressure: a rejected
// write means the producer must stop until the buffer is drained.
//
// Ring is not safe for concurrent use.
type Ring struct {
	memory []byte
	head   int
	tail   int
	size   int
}

// New returns a ring of the given capacity. The capacity can never be changed afterward.
func New(capacity int) *Ring {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}

	return &Ring{
		memory: make([]byte, capacity),
	}
}

// Write copies the whole data into the buffer and returns len(data), or writes nothing and
// returns 0 if it doesn't fit.
func (r *Ring) Write(data []byte) int {
	n := len(data)
	if n == 0 || n > len(r.memory) || n+r.size > len(r.memory) {
		return 0
	}

	written := copy(r.memory[r.head:], data)
	copy(r.memory, data[written:])
	r.head = (r.head + n) % len(r.memory)
	r.size += n

	return n
}

// Read fills the whole data from the buffer and returns len(data), or reads nothing and
// returns 0 if there isn't enough buffered.
func (r *Ring) Read(data []byte) int {
	n := len(data)
	if n == 0 || n > len(r.memory) || n > r.size {
		return 0
	}

	read := copy(data, r.memory[r.tail:])
	copy(data[read:], r.memory)
	r.tail = (r.tail + n) % len(r.memory)
	r.size -= n

	return n
}

// Peek returns the byte at the offset relative to the read cursor without consuming it.
func (r *Ring) Peek(offset int) (byte, bool) {
	if offset < 0 || offset >= r.size {
		return 0, false
	}

	return r.memory[(r.tail+offset)%len(r.memory)], true
}

// Seek moves the read cursor relatively. Positive offset skips buffered bytes, negative one
// brings just read bytes back. The latter is valid only until the next Write, as the freed
// space might already be overwritten.
func (r *Ring) Seek(offset int) bool {
	switch {
	case offset >= 0:
		if offset > r.size {
			return false
		}

		r.tail = (r.tail + offset) % len(r.memory)
		r.size -= offset
	default:
		n := -offset
		if r.size+n > len(r.memory) {
			return false
		}

		r.tail = (r.tail - n + len(r.memory)) % len(r.memory)
		r.size += n
	}

	return true
}

// Size returns the number of currently buffered bytes.
func (r *Ring) Size() int {
	return r.size
}

// MaxSize returns the capacity.
func (r *Ring) MaxSize() int {
	return len(r.memory)
}

// Free returns how many bytes can be written at most.
func (r *Ring) Free() int {
	return len(r.memory) - r.size
}

// EOF reports whether the buffer is full. It has nothing in common with the end of stream.
func (r *Ring) EOF() bool {
	return r.size == len(r.memory)
}

// Reset drops all the buffered data.
func (r *Ring) Reset() {
	r.head, r.tail, r.size = 0, 0, 0
}
