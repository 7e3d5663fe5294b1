package linereader

// Memory is a Source over a plain byte slice.
type Memory struct {
	data   []byte
	offset int
}

func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

func (m *Memory) Read(data []byte) int {
	if len(data) > m.Size() {
		return 0
	}

	n := copy(data, m.data[m.offset:])
	m.offset += n

	return n
}

func (m *Memory) Seek(offset int) bool {
	pos := m.offset + offset
	if pos < 0 || pos > len(m.data) {
		return false
	}

	m.offset = pos

	return true
}

func (m *Memory) Size() int {
	return len(m.data) - m.offset
}
