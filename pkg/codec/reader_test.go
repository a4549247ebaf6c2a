package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

func TestReader(t *testing.T) {
	floats := packFloat32s([]float32{1, 2, 3}, extension.Vec3)

	table := &extension.BufferTable{}
	good := table.AddBufferView(floats.Data, extension.ArrayBuffer)
	table.Views = append(table.Views,
		extension.BufferView{Buffer: 1, ByteOffset: 0, ByteLength: 12},
		extension.BufferView{Buffer: 0, ByteOffset: 4, ByteLength: 1000},
		extension.BufferView{Buffer: 0, ByteOffset: math.MaxInt, ByteLength: 1},
		extension.BufferView{Buffer: 0, ByteOffset: 4, ByteLength: math.MaxInt},
		extension.BufferView{Buffer: 0, ByteOffset: -4, ByteLength: 4},
	)

	withTable := NewReader(table)
	inlineOnly := NewReader(nil)

	tests := []struct {
		name    string
		reader  *Reader
		src     extension.Source
		ct      extension.ComponentType
		count   int
		elem    extension.ElementType
		wantLen int
		wantErr error
	}{
		{"inline", inlineOnly, floats, extension.Float, 1, extension.Vec3, 12, nil},
		{"inline derived count", inlineOnly, floats, extension.Float, -1, extension.Scalar, 12, nil},
		{"inline declared type differs", inlineOnly, floats, extension.UnsignedInt, 1, extension.Vec3, 0, ErrUnsupportedComponentType},
		{"inline wrong count", inlineOnly, floats, extension.Float, 2, extension.Vec3, 0, ErrLengthMismatch},
		{"inline ragged", inlineOnly, extension.Inline{Data: make([]byte, 5)}, extension.Float, -1, extension.Scalar, 0, ErrLengthMismatch},
		{"bytes as vec2", inlineOnly, floats, extension.UnsignedByte, 1, extension.Vec2, 0, ErrUnsupportedComponentType},
		{"unsigned short", inlineOnly, floats, extension.ComponentType(5123), 1, extension.Scalar, 0, ErrUnsupportedComponentType},
		{"missing", inlineOnly, nil, extension.Float, 1, extension.Vec3, 0, ErrMissingField},
		{"view", withTable, extension.ViewIndex(good), extension.Float, 1, extension.Vec3, 12, nil},
		{"view without table", inlineOnly, extension.ViewIndex(good), extension.Float, 1, extension.Vec3, 0, ErrNoBufferTable},
		{"view out of range", withTable, extension.ViewIndex(99), extension.Float, 1, extension.Vec3, 0, ErrViewOutOfRange},
		{"view in buffer 1", withTable, extension.ViewIndex(1), extension.Float, 1, extension.Vec3, 0, ErrUnsupportedBuffer},
		{"view past end", withTable, extension.ViewIndex(2), extension.Float, -1, extension.Scalar, 0, ErrViewOutOfBounds},
		{"view offset at int limit", withTable, extension.ViewIndex(3), extension.UnsignedByte, 1, extension.Scalar, 0, ErrViewOutOfBounds},
		{"view length at int limit", withTable, extension.ViewIndex(4), extension.UnsignedByte, -1, extension.Scalar, 0, ErrViewOutOfBounds},
		{"view negative offset", withTable, extension.ViewIndex(5), extension.Float, 1, extension.Scalar, 0, ErrViewOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.reader.Read(tt.src, tt.ct, tt.count, tt.elem)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, tt.wantLen)
		})
	}
}

func TestReaderTypedArrays(t *testing.T) {
	r := NewReader(nil)

	f, err := r.Float32s(packFloat32s([]float32{0.5, -1, 3}, extension.Vec3), 1, extension.Vec3)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 3}, f)

	u, err := r.Uint32s(packUint32s([]uint32{0, 1, 1 << 31, 7}, extension.Vec2, extension.ElementArrayBuffer), 2, extension.Vec2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 1 << 31, 7}, u)

	b, err := r.Uint8s(packUint8s([]uint8{1, 0, 255}), 3)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 255}, b)
}
