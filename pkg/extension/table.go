package extension

// BufferView is one entry of a parsed glTF bufferViews array.
type BufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int
	Target     Target
}

// InBounds reports whether the view lies inside a buffer of size bytes.
// Offsets near the int limit do not overflow.
func (v BufferView) InBounds(size int) bool {
	return v.ByteOffset >= 0 && v.ByteLength >= 0 &&
		v.ByteOffset <= size && v.ByteLength <= size-v.ByteOffset
}

// BufferTable is the buffer view table of a parsed file together with the
// bytes of buffer 0.
type BufferTable struct {
	Views  []BufferView
	Buffer []byte
}

// AddBufferView appends data to the buffer as a new 4-byte aligned view.
// It lets a BufferTable act as the writer for Commit when no container is
// involved.
func (t *BufferTable) AddBufferView(data []byte, target Target) int {
	for len(t.Buffer)%4 != 0 {
		t.Buffer = append(t.Buffer, 0)
	}
	t.Views = append(t.Views, BufferView{
		Buffer:     0,
		ByteOffset: len(t.Buffer),
		ByteLength: len(data),
		Target:     target,
	})
	t.Buffer = append(t.Buffer, data...)
	return len(t.Views) - 1
}
