// Package codec translates editable polygon meshes to and from the
// EXT_bmesh_encoding document.
//
// Encoding assigns dense ids to every live element and writes four
// independent sections. Decoding rebuilds the mesh section by section in
// dependency order (vertices, edges, faces, loops) and tolerates missing or
// unreadable optional data.
package codec

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/internal/logger"
)

// Reader errors. They describe a single unreadable field.
var (
	ErrMissingField             = errors.New("field not present")
	ErrLengthMismatch           = errors.New("byte length does not match element count")
	ErrUnsupportedComponentType = errors.New("unsupported component type")
	ErrNoBufferTable            = errors.New("buffer view reference without a buffer table")
	ErrViewOutOfRange           = errors.New("buffer view index out of range")
	ErrUnsupportedBuffer        = errors.New("only buffer 0 is supported")
	ErrViewOutOfBounds          = errors.New("buffer view exceeds buffer length")
)

// Decode errors. They fail a whole document.
var (
	ErrEmptyDocument = errors.New("document has no sections")
	ErrNoPositions   = errors.New("vertex positions missing or unreadable")
	ErrNoFaceData    = errors.New("face vertices or offsets missing or unreadable")
	ErrNoFaces       = errors.New("no faces could be reconstructed")
)

// Options controls optional output of the encoder and logging of both
// directions.
type Options struct {
	// PreserveManifold writes the computed manifold flag per edge. When
	// false every edge is written as unknown (255).
	PreserveManifold bool
	// VertexAdjacency writes the per-vertex edge adjacency list.
	VertexAdjacency bool
	// FaceAdjacency writes the flattened per-face edge and loop lists.
	FaceAdjacency bool

	Logger *zap.Logger
}

// DefaultOptions returns options with every optional section enabled.
func DefaultOptions() Options {
	return Options{
		PreserveManifold: true,
		VertexAdjacency:  true,
		FaceAdjacency:    true,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return logger.Named("codec")
	}
	return o.Logger
}
