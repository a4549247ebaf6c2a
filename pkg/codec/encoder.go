package codec

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

// Encoder writes meshes as extension documents. It holds no per-mesh state
// and may be reused.
type Encoder struct {
	opts Options
	log  *zap.Logger
}

// NewEncoder creates an encoder.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts, log: opts.logger()}
}

// Encode returns the document for m. A mesh without faces yields an empty
// document. All payloads are inline; see extension.Commit to move them into
// buffer views.
func (e *Encoder) Encode(m *bmesh.Mesh) *extension.Document {
	if m == nil || m.NumFaces() == 0 {
		e.log.Debug("mesh has no faces, nothing to encode")
		return &extension.Document{}
	}

	maps := BuildIndexMaps(m)
	doc := &extension.Document{
		Vertices: encodeVertices(m, maps, e.opts),
		Edges:    encodeEdges(m, maps, e.opts),
		Loops:    encodeLoops(m, maps),
		Faces:    encodeFaces(m, maps, e.opts),
	}

	e.log.Debug("encoded mesh",
		zap.Int("vertices", len(maps.Verts)),
		zap.Int("edges", len(maps.Edges)),
		zap.Int("faces", len(maps.Faces)),
		zap.Int("loops", len(maps.Loops)))
	return doc
}

func texcoordName(layer int) string {
	return extension.AttrTexcoord + strconv.Itoa(layer)
}

func colorName(layer int) string {
	return extension.AttrColor + strconv.Itoa(layer)
}
