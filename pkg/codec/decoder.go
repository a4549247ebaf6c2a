package codec

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/bmesh-gltf/pkg/bmesh"
	"github.com/Faultbox/bmesh-gltf/pkg/extension"
)

// Result is a successfully decoded mesh. The document may still have been
// only partly usable; see Stats.
type Result struct {
	Mesh  *bmesh.PolyMesh
	Stats Stats
}

// Decoder rebuilds meshes from extension documents. It holds no per-mesh
// state and may be reused.
type Decoder struct {
	opts Options
	log  *zap.Logger
}

// NewDecoder creates a decoder.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts, log: opts.logger()}
}

// DecodeInline decodes a document whose references carry their payloads
// inline. View references in it are unreadable.
func (d *Decoder) DecodeInline(doc *extension.Document) (*Result, error) {
	return d.decode(doc, NewReader(nil), "inline")
}

// DecodeBufferViews decodes a document whose references point into table.
func (d *Decoder) DecodeBufferViews(doc *extension.Document, table *extension.BufferTable) (*Result, error) {
	if table == nil {
		return nil, ErrNoBufferTable
	}
	return d.decode(doc, NewReader(table), "bufferViews")
}

func (d *Decoder) decode(doc *extension.Document, r *Reader, mode string) (*Result, error) {
	if doc.Empty() {
		return nil, ErrEmptyDocument
	}

	m := bmesh.New()
	defer m.Free()

	s := &decodeState{
		mesh: m,
		r:    r,
		log:  d.log.With(zap.String("mode", mode)),
	}

	var verts []bmesh.VertID
	if doc.Vertices != nil {
		s.stage("vertices", func() error {
			verts = s.decodeVertices(doc.Vertices)
			return nil
		})
	}
	if len(verts) == 0 {
		return nil, ErrNoPositions
	}
	s.stage("vertices.attributes", func() error {
		s.decodeVertexAttributes(doc.Vertices, verts)
		return nil
	})

	var edges []bmesh.EdgeID
	if doc.Edges != nil {
		s.stage("edges", func() error {
			edges = s.decodeEdges(doc.Edges, verts)
			return nil
		})
	} else {
		s.log.Debug("edge section absent")
	}

	if doc.Faces == nil {
		return nil, ErrNoFaceData
	}
	var faces *faceRuns
	err := s.stage("faces", func() (err error) {
		faces, err = s.decodeFaces(doc.Faces, verts)
		return err
	})
	if err != nil {
		return nil, err
	}
	if faces == nil || faces.created() == 0 {
		return nil, ErrNoFaces
	}

	if doc.Loops != nil {
		s.stage("loops", func() error {
			s.decodeLoops(doc.Loops, faces, edges)
			return nil
		})
	} else {
		s.log.Debug("loop section absent")
	}
	if doc.Edges != nil && edges != nil {
		s.stage("manifold", func() error {
			s.checkManifold(doc.Edges, edges)
			return nil
		})
	}

	s.stats.Loops = m.NumLoops()
	s.log.Debug("decoded mesh", zap.Object("stats", s.stats))
	return &Result{Mesh: m.ToPolyMesh(), Stats: s.stats}, nil
}

// decodeState is the working state of one decode call.
type decodeState struct {
	mesh  *bmesh.Mesh
	r     *Reader
	log   *zap.Logger
	stats Stats

	hasVertexNormals bool
	index            int // element being processed, for panic reports
}

// stage runs one decode stage. A panic inside it is logged and turned into
// an empty stage result so later stages still run.
func (s *decodeState) stage(name string, fn func() error) (err error) {
	s.index = -1
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("decode stage failed",
				zap.String("stage", name),
				zap.Int("index", s.index),
				zap.String("panic", fmt.Sprint(r)))
			s.stats.FailedStages = append(s.stats.FailedStages, name)
			err = nil
		}
	}()
	return fn()
}

// unreadable records a field that could not be used.
func (s *decodeState) unreadable(path string, err error) {
	if errors.Is(err, ErrMissingField) {
		s.log.Debug("field absent", zap.String("field", path))
		return
	}
	s.log.Warn("field unreadable", zap.String("field", path), zap.Error(err))
	s.stats.Unreadable = append(s.stats.Unreadable, path)
}
