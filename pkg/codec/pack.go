package codec

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

func packFloat32s(values []float32, elem extension.ElementType) extension.Inline {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], gomath.Float32bits(v))
	}
	return extension.Inline{
		Data:          data,
		Target:        extension.ArrayBuffer,
		ComponentType: extension.Float,
		Type:          elem,
		Count:         len(values) / elem.Arity(),
	}
}

func packUint32s(values []uint32, elem extension.ElementType, target extension.Target) extension.Inline {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], v)
	}
	return extension.Inline{
		Data:          data,
		Target:        target,
		ComponentType: extension.UnsignedInt,
		Type:          elem,
		Count:         len(values) / elem.Arity(),
	}
}

func packUint8s(values []uint8) extension.Inline {
	return extension.Inline{
		Data:          append([]byte(nil), values...),
		Target:        extension.ArrayBuffer,
		ComponentType: extension.UnsignedByte,
		Type:          extension.Scalar,
		Count:         len(values),
	}
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func unpackFloat32s(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = gomath.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out
}

func unpackUint32s(data []byte) []uint32 {
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return out
}
