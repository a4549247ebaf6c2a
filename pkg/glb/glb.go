// Package glb reads and writes binary glTF 2.0 containers.
package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

const (
	magic      = 0x46546C67 // "glTF"
	version    = 2
	headerSize = 12
)

// GLB format errors.
var (
	ErrInvalidMagic       = errors.New("invalid GLB magic: expected 'glTF'")
	ErrUnsupportedVersion = errors.New("unsupported GLB version")
	ErrTruncated          = errors.New("truncated GLB data")
	ErrMalformed          = errors.New("malformed GLB")
	ErrBadAccessor        = errors.New("invalid accessor")
)

// File is a parsed GLB container. Buffer 0 holds the binary chunk.
type File struct {
	Document *gltf.Document
}

// Parse parses a GLB container from raw bytes.
func Parse(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if binary.LittleEndian.Uint32(data) != magic {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	length := binary.LittleEndian.Uint32(data[8:])
	if uint64(length) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d", ErrTruncated, length, len(data))
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data[:length])).Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &File{Document: doc}, nil
}

// Open reads and parses a GLB file from disk.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Parse(data)
}

// Bin returns the bytes of buffer 0, or nil when the file has none.
func (f *File) Bin() []byte {
	if len(f.Document.Buffers) == 0 || f.Document.Buffers[0] == nil {
		return nil
	}
	return f.Document.Buffers[0].Data
}

// Encode serialises f as GLB.
func (f *File) Encode() ([]byte, error) {
	if f.Document == nil {
		return nil, fmt.Errorf("%w: no document", ErrMalformed)
	}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(f.Document); err != nil {
		return nil, fmt.Errorf("encoding GLB: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes f and writes it to path.
func (f *File) WriteFile(path string) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// BufferTable returns the buffer view table of the document backed by
// buffer 0.
func (f *File) BufferTable() *extension.BufferTable {
	t := &extension.BufferTable{Buffer: f.Bin()}
	for _, v := range f.Document.BufferViews {
		t.Views = append(t.Views, extension.BufferView{
			Buffer:     v.Buffer,
			ByteOffset: v.ByteOffset,
			ByteLength: v.ByteLength,
			Target:     targetToGL(v.Target),
		})
	}
	return t
}

// UsesExtension reports whether name is listed in extensionsUsed.
func (f *File) UsesExtension(name string) bool {
	return usesExtension(f.Document, name)
}

// Accessor returns accessor i after checking that every element it
// describes lies inside its buffer view and buffer.
func (f *File) Accessor(i int) (*gltf.Accessor, error) {
	doc := f.Document
	if i < 0 || i >= len(doc.Accessors) || doc.Accessors[i] == nil {
		return nil, fmt.Errorf("%w: %d does not exist", ErrBadAccessor, i)
	}
	a := doc.Accessors[i]
	if a.BufferView == nil {
		return nil, fmt.Errorf("%w: %d has no buffer view", ErrBadAccessor, i)
	}
	vi := *a.BufferView
	if vi < 0 || vi >= len(doc.BufferViews) || doc.BufferViews[vi] == nil {
		return nil, fmt.Errorf("%w: %d uses missing buffer view %d", ErrBadAccessor, i, vi)
	}
	v := doc.BufferViews[vi]
	if v.Buffer < 0 || v.Buffer >= len(doc.Buffers) || doc.Buffers[v.Buffer] == nil {
		return nil, fmt.Errorf("%w: view %d uses missing buffer %d", ErrBadAccessor, vi, v.Buffer)
	}
	view := extension.BufferView{ByteOffset: v.ByteOffset, ByteLength: v.ByteLength}
	if !view.InBounds(len(doc.Buffers[v.Buffer].Data)) {
		return nil, fmt.Errorf("%w: view %d lies outside its buffer", ErrBadAccessor, vi)
	}

	elem := ElementSize(a.ComponentType, a.Type)
	if elem == 0 {
		return nil, fmt.Errorf("%w: %d has unsupported component or element type", ErrBadAccessor, i)
	}
	stride := v.ByteStride
	if stride == 0 {
		stride = elem
	}
	if a.ByteOffset < 0 || a.Count < 0 || stride < elem {
		return nil, fmt.Errorf("%w: %d has offset %d, count %d and stride %d",
			ErrBadAccessor, i, a.ByteOffset, a.Count, stride)
	}
	if a.Count > 0 {
		room := v.ByteLength - elem - a.ByteOffset
		if a.ByteOffset > v.ByteLength || room < 0 || a.Count-1 > room/stride {
			return nil, fmt.Errorf("%w: %d overruns its buffer view", ErrBadAccessor, i)
		}
	}
	return a, nil
}

// ElementSize returns the byte size of one element, or 0 for types this
// package does not read.
func ElementSize(ct gltf.ComponentType, typ gltf.AccessorType) int {
	var size int
	switch ct {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint, gltf.ComponentFloat:
		size = 4
	default:
		return 0
	}
	switch typ {
	case gltf.AccessorScalar:
		return size
	case gltf.AccessorVec2:
		return 2 * size
	case gltf.AccessorVec3:
		return 3 * size
	case gltf.AccessorVec4:
		return 4 * size
	default:
		return 0
	}
}

// PrimitiveExtension returns the raw JSON of extension name on p.
func PrimitiveExtension(p *gltf.Primitive, name string) (json.RawMessage, bool) {
	v, ok := p.Extensions[name]
	if !ok {
		return nil, false
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, true
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func usesExtension(doc *gltf.Document, name string) bool {
	for _, e := range doc.ExtensionsUsed {
		if e == name {
			return true
		}
	}
	return false
}

func targetToGL(t gltf.Target) extension.Target {
	switch t {
	case gltf.TargetArrayBuffer:
		return extension.ArrayBuffer
	case gltf.TargetElementArrayBuffer:
		return extension.ElementArrayBuffer
	default:
		return 0
	}
}

func targetFromGL(t extension.Target) gltf.Target {
	switch t {
	case extension.ArrayBuffer:
		return gltf.TargetArrayBuffer
	case extension.ElementArrayBuffer:
		return gltf.TargetElementArrayBuffer
	default:
		return gltf.TargetNone
	}
}
