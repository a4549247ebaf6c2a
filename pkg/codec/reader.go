package codec

import (
	"fmt"

	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

// Reader turns buffer references into typed arrays. Inline references are
// unpacked from their own payload; view references are resolved against the
// buffer table. A Reader without a table only reads inline references.
type Reader struct {
	table *extension.BufferTable
}

// NewReader creates a reader over table, which may be nil.
func NewReader(table *extension.BufferTable) *Reader {
	return &Reader{table: table}
}

// Float32s reads float components. count is the number of elements, or
// negative to derive it from the byte length.
func (r *Reader) Float32s(src extension.Source, count int, elem extension.ElementType) ([]float32, error) {
	data, err := r.Read(src, extension.Float, count, elem)
	if err != nil {
		return nil, err
	}
	return unpackFloat32s(data), nil
}

// Uint32s reads unsigned int components.
func (r *Reader) Uint32s(src extension.Source, count int, elem extension.ElementType) ([]uint32, error) {
	data, err := r.Read(src, extension.UnsignedInt, count, elem)
	if err != nil {
		return nil, err
	}
	return unpackUint32s(data), nil
}

// Uint8s reads unsigned byte scalars.
func (r *Reader) Uint8s(src extension.Source, count int) ([]uint8, error) {
	return r.Read(src, extension.UnsignedByte, count, extension.Scalar)
}

// Read resolves src and checks that its bytes hold count elements of elem
// with components of type ct. The returned slice aliases the source bytes.
func (r *Reader) Read(src extension.Source, ct extension.ComponentType, count int, elem extension.ElementType) ([]byte, error) {
	if !supported(ct, elem) {
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedComponentType, ct, elem)
	}

	var data []byte
	switch s := src.(type) {
	case nil:
		return nil, ErrMissingField
	case extension.Inline:
		if s.ComponentType != 0 && s.ComponentType != ct {
			return nil, fmt.Errorf("%w: payload is %s, want %s", ErrUnsupportedComponentType, s.ComponentType, ct)
		}
		data = s.Data
	case extension.ViewIndex:
		var err error
		if data, err = r.view(int(s)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrMissingField, src)
	}

	stride := ct.Size() * elem.Arity()
	if count < 0 {
		if len(data)%stride != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrLengthMismatch, len(data), stride)
		}
		return data, nil
	}
	if len(data) != count*stride {
		return nil, fmt.Errorf("%w: %d bytes for %d x %s %s", ErrLengthMismatch, len(data), count, elem, ct)
	}
	return data, nil
}

func (r *Reader) view(index int) ([]byte, error) {
	if r.table == nil {
		return nil, ErrNoBufferTable
	}
	if index < 0 || index >= len(r.table.Views) {
		return nil, fmt.Errorf("%w: %d of %d", ErrViewOutOfRange, index, len(r.table.Views))
	}
	v := r.table.Views[index]
	if v.Buffer != 0 {
		return nil, fmt.Errorf("%w: view %d uses buffer %d", ErrUnsupportedBuffer, index, v.Buffer)
	}
	if !v.InBounds(len(r.table.Buffer)) {
		return nil, fmt.Errorf("%w: view %d has offset %d and length %d in %d bytes",
			ErrViewOutOfBounds, index, v.ByteOffset, v.ByteLength, len(r.table.Buffer))
	}
	return r.table.Buffer[v.ByteOffset : v.ByteOffset+v.ByteLength], nil
}

func supported(ct extension.ComponentType, elem extension.ElementType) bool {
	switch ct {
	case extension.Float:
		return elem.Arity() > 0
	case extension.UnsignedInt:
		return elem == extension.Scalar || elem == extension.Vec2
	case extension.UnsignedByte:
		return elem == extension.Scalar
	default:
		return false
	}
}
